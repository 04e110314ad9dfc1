package vetting

// Role selects which record table a session works against and which menu the
// bot presents. The security role carries an extra company column.
type Role string

const (
	RoleRetail   Role = "retail"
	RoleSecurity Role = "security"
)

// Record mirrors one row of the shared vetting table. Every field is kept as
// the stored string so legacy rows with malformed cells survive round-trips;
// parsing happens at the point of use.
type Record struct {
	SubmittedDate string // dd.mm.yy, set at creation
	FullName      string // title-cased
	BirthDate     string // dd.mm.yyyy, derived; empty when derivation failed
	TaxID         string // 10 digits; compared zero-padding-normalized
	Status        string
	ReviewDate    string // dd.mm.yy; empty until reviewed, absent for retail
	Reviewer      string
	Comment       string
	Company       string // security variant only
}

// Canonical status labels written by reviewers. Legacy rows may carry
// unnormalized variants; use ClassifyStatus when tolerance is needed.
const (
	StatusPendingLabel  = "Очікує погодження"
	StatusApprovedLabel = "✅ Погоджено"
	StatusRejectedLabel = "❌ Не погоджено"
)

// StatusClass is the normalized reading of the free-text status column.
type StatusClass int

const (
	StatusUnknown StatusClass = iota
	StatusPending
	StatusApproved
	StatusRejected
)

func (c StatusClass) String() string {
	switch c {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
