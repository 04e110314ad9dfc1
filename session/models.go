package session

import (
	"time"

	"vetflow/vetting"
)

// State enumerates the nodes of the conversational state machine. Choosing is
// the hub: every leaf flow returns to it.
type State int

const (
	StateSelectDirection State = iota
	StateAskPassword
	StateAskCompany
	StateChoosing
	StateEnterName
	StateEnterTaxID
	StateCheckStatus
	StateAnalyticsMenu
	StateAnalyticsDate
	StateStatisticsMenu
	StatePeriodStart
	StatePeriodEnd
)

func (s State) String() string {
	switch s {
	case StateSelectDirection:
		return "select_direction"
	case StateAskPassword:
		return "ask_password"
	case StateAskCompany:
		return "ask_company"
	case StateChoosing:
		return "choosing"
	case StateEnterName:
		return "enter_name"
	case StateEnterTaxID:
		return "enter_tax_id"
	case StateCheckStatus:
		return "check_status"
	case StateAnalyticsMenu:
		return "analytics_menu"
	case StateAnalyticsDate:
		return "analytics_date"
	case StateStatisticsMenu:
		return "statistics_menu"
	case StatePeriodStart:
		return "period_start"
	case StatePeriodEnd:
		return "period_end"
	default:
		return "unknown"
	}
}

// Session is one user's conversation state, keyed by the opaque chat key the
// transport supplies. It lives in process memory only; a restart starts every
// conversation over.
type Session struct {
	Key   string
	State State

	// Role is the authenticated direction; empty until a password check
	// succeeds. RequestedRole tracks a direction chosen but not yet
	// authenticated.
	Role          vetting.Role
	RequestedRole vetting.Role

	// Company is sticky for the whole session once entered.
	Company string

	// Form buffers, valid only within their flow.
	FullName    string
	PeriodStart time.Time

	LastSeen time.Time
}

// Established reports whether a direction has been authenticated this
// session; cancellation targets depend on it.
func (s *Session) Established() bool {
	return s.Role != ""
}

// ClearForm drops flow-scoped buffers when a leaf flow finishes or is
// cancelled. Role and company stay.
func (s *Session) ClearForm() {
	s.FullName = ""
	s.PeriodStart = time.Time{}
}
