// Package analytics computes point-in-time and range statistics over full
// record scans. All functions are pure over the record slice; the caller owns
// the store read and its error handling.
//
// Two date-parsing modes coexist deliberately: interactive input is parsed
// strictly by the caller, while rows scanned here are parsed tolerantly — a
// malformed legacy row is skipped, never an error.
package analytics

import (
	"time"

	"vetflow/vetting"
)

// Entry is one by-date lookup result.
type Entry struct {
	FullName string
	Status   string
}

// PeriodStats aggregates a submitted-date range.
type PeriodStats struct {
	Submitted int
	Checked   int
	Positive  int
	Negative  int
}

// DayStats aggregates a single calendar date for the standard snapshot.
type DayStats struct {
	Date      string // dd.mm.yy
	Submitted int
	Checked   int
	Approved  int
	Rejected  int
}

// SnapshotStats is the "today vs last business day" report plus the global
// pending backlog.
type SnapshotStats struct {
	Today           DayStats
	LastBusinessDay DayStats
	Pending         int
}

// OverallStats is the unscoped all-time report.
type OverallStats struct {
	Submitted int
	Checked   int
	Approved  int
	Rejected  int
}

// Engine classifies and counts records. The clock only matters for the
// standard snapshot.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// WithClock overrides the time source, mainly for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// ByDate returns every record submitted on day, in store order.
func (e *Engine) ByDate(records []vetting.Record, day time.Time) []Entry {
	formatted := day.Format(vetting.DateLayout)
	entries := []Entry{}
	for _, rec := range records {
		if rec.SubmittedDate == formatted {
			entries = append(entries, Entry{FullName: rec.FullName, Status: rec.Status})
		}
	}
	return entries
}

// Period counts records submitted in [start, end]. An inverted range yields
// vacuous counts; rows whose submitted date does not parse are skipped.
// Status is read tolerantly via the classifier here, unlike the snapshot and
// overall reports which match canon labels exactly.
func (e *Engine) Period(records []vetting.Record, start, end time.Time) PeriodStats {
	var stats PeriodStats
	for _, rec := range records {
		day, err := vetting.ParseDate(rec.SubmittedDate)
		if err != nil {
			continue
		}
		if day.Before(start) || day.After(end) {
			continue
		}
		stats.Submitted++
		switch vetting.ClassifyStatus(rec.Status) {
		case vetting.StatusPending:
		case vetting.StatusApproved:
			stats.Checked++
			stats.Positive++
		case vetting.StatusRejected:
			stats.Checked++
			stats.Negative++
		default:
			stats.Checked++
		}
	}
	return stats
}

// Snapshot reports today and the last business day side by side, plus the
// store-wide pending count. Weekends are skipped when resolving the last
// business day: Sunday looks back to Friday via two days, Monday via three.
func (e *Engine) Snapshot(records []vetting.Record) SnapshotStats {
	today := e.now()
	return SnapshotStats{
		Today:           dayStats(records, today),
		LastBusinessDay: dayStats(records, LastBusinessDay(today)),
		Pending:         countPending(records),
	}
}

// Overall totals the whole table: every row, rows with a review date, and
// exact-match approved/rejected counts.
func (e *Engine) Overall(records []vetting.Record) OverallStats {
	stats := OverallStats{Submitted: len(records)}
	for _, rec := range records {
		if rec.ReviewDate != "" {
			stats.Checked++
		}
		switch rec.Status {
		case vetting.StatusApprovedLabel:
			stats.Approved++
		case vetting.StatusRejectedLabel:
			stats.Rejected++
		}
	}
	return stats
}

// LastBusinessDay resolves the previous working day relative to today.
func LastBusinessDay(today time.Time) time.Time {
	days := 1
	switch today.Weekday() {
	case time.Monday:
		days = 3
	case time.Sunday:
		days = 2
	}
	return today.AddDate(0, 0, -days)
}

func dayStats(records []vetting.Record, day time.Time) DayStats {
	formatted := day.Format(vetting.DateLayout)
	stats := DayStats{Date: formatted}
	for _, rec := range records {
		if rec.SubmittedDate == formatted {
			stats.Submitted++
		}
		if rec.ReviewDate != formatted {
			continue
		}
		stats.Checked++
		switch rec.Status {
		case vetting.StatusApprovedLabel:
			stats.Approved++
		case vetting.StatusRejectedLabel:
			stats.Rejected++
		}
	}
	return stats
}

func countPending(records []vetting.Record) int {
	pending := 0
	for _, rec := range records {
		if rec.Status == vetting.StatusPendingLabel {
			pending++
		}
	}
	return pending
}
