package vetting

import "context"

// Store is the record table boundary: an unindexed, append-only scan. List
// returns rows in append order; Append adds exactly one row. Implementations
// give no transactional guarantee between a List and a later Append, so a
// duplicate check followed by a write can race (documented limitation).
type Store interface {
	List(ctx context.Context) ([]Record, error)
	Append(ctx context.Context, rec Record) error
}

// Schema fixes the column layout of one table variant. Adapters write values
// positionally in column order and read them back by name.
type Schema struct {
	Table   string
	Columns []string
}

// The two table variants: retail has no review-date or company column.
var (
	RetailSchema = Schema{
		Table: "retail_candidates",
		Columns: []string{
			"submitted_date", "full_name", "birth_date", "tax_id",
			"status", "reviewer", "comment",
		},
	}
	SecuritySchema = Schema{
		Table: "security_candidates",
		Columns: []string{
			"submitted_date", "full_name", "birth_date", "tax_id",
			"status", "review_date", "reviewer", "comment", "company",
		},
	}
)

// SchemaFor returns the table variant for a role. Unknown roles fall back to
// retail, mirroring the session default.
func SchemaFor(role Role) Schema {
	if role == RoleSecurity {
		return SecuritySchema
	}
	return RetailSchema
}

// Values flattens a record into the schema's column order.
func (s Schema) Values(rec Record) []any {
	byName := map[string]string{
		"submitted_date": rec.SubmittedDate,
		"full_name":      rec.FullName,
		"birth_date":     rec.BirthDate,
		"tax_id":         rec.TaxID,
		"status":         rec.Status,
		"review_date":    rec.ReviewDate,
		"reviewer":       rec.Reviewer,
		"comment":        rec.Comment,
		"company":        rec.Company,
	}
	out := make([]any, len(s.Columns))
	for i, col := range s.Columns {
		out[i] = byName[col]
	}
	return out
}

// Fields returns pointers to the record fields matching the schema's columns,
// in column order, for row scanning.
func (s Schema) Fields(rec *Record) []any {
	byName := map[string]*string{
		"submitted_date": &rec.SubmittedDate,
		"full_name":      &rec.FullName,
		"birth_date":     &rec.BirthDate,
		"tax_id":         &rec.TaxID,
		"status":         &rec.Status,
		"review_date":    &rec.ReviewDate,
		"reviewer":       &rec.Reviewer,
		"comment":        &rec.Comment,
		"company":        &rec.Company,
	}
	out := make([]any, len(s.Columns))
	for i, col := range s.Columns {
		out[i] = byName[col]
	}
	return out
}
