package vetting

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Date layouts used across the table. Submitted and review dates are stored
// short, derived birth dates long.
const (
	DateLayout      = "02.01.06"
	BirthDateLayout = "02.01.2006"
)

// birthEpoch anchors the day-count encoded in a tax ID. The offset rule is a
// legacy decoding convention; keep the arithmetic as is.
var birthEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// IsValidTaxID reports whether s is exactly ten ASCII digits. There is no
// checksum to verify.
func IsValidTaxID(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// NormalizeTaxID trims surrounding whitespace and left-pads with zeros to ten
// characters. Normalized IDs are for equality checks only, never display.
func NormalizeTaxID(s string) string {
	s = strings.TrimSpace(s)
	for len(s) < 10 {
		s = "0" + s
	}
	return s
}

// TitleCaseName capitalizes each whitespace-separated token: first rune upper,
// remainder lower. Token count minimums are enforced by callers.
func TitleCaseName(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		runes := []rune(strings.ToLower(f))
		runes[0] = unicode.ToUpper(runes[0])
		fields[i] = string(runes)
	}
	return strings.Join(fields, " ")
}

// ParseDate parses a dd.mm.yy date after normalizing "/" separators to ".".
// Any other deviation fails; there are no fallback patterns.
func ParseDate(s string) (time.Time, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "/", ".")
	return time.Parse(DateLayout, s)
}

// DeriveBirthDate decodes the first five digits of a normalized tax ID as a
// day count from 1900-01-01 and returns the resulting date as dd.mm.yyyy.
// A non-numeric prefix yields the empty string, never an error.
func DeriveBirthDate(taxID string) string {
	n, err := strconv.Atoi(NormalizeTaxID(taxID)[:5])
	if err != nil {
		return ""
	}
	return birthEpoch.AddDate(0, 0, n-1).Format(BirthDateLayout)
}

// ClassifyStatus normalizes the free-text status column. Matching is
// case-insensitive and substring-tolerant so legacy variants still classify;
// the rejected label must be tested first because it contains the approved
// one.
func ClassifyStatus(s string) StatusClass {
	t := strings.ToLower(strings.TrimSpace(s))
	switch {
	case t == "":
		return StatusUnknown
	case strings.Contains(t, "не погоджено"):
		return StatusRejected
	case strings.Contains(t, "погоджено"):
		return StatusApproved
	case strings.Contains(t, "очікує"):
		return StatusPending
	default:
		return StatusUnknown
	}
}
