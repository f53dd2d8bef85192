package fields

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"
)

var (
	// 2 digits, 5 letters, 4 digits, 1 letter, 1 alphanumeric, Z (either case), 1 alphanumeric.
	gstinPattern = regexp.MustCompile(`\b\d{2}[A-Z]{5}\d{4}[A-Z][A-Z\d][Zz][A-Z\d]\b`)

	// Optional currency prefix, then either a comma-grouped number with a
	// decimal part or a plain digit run with optional decimals. Group 1 is
	// the number without the prefix.
	amountPattern = regexp.MustCompile(`(?:INR|Rs\.?|₹)?\s*([0-9]{1,3}(?:,[0-9]{3})*(?:\.[0-9]{1,2})|[0-9]+(?:\.[0-9]{1,2})?)`)

	datePattern = regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}-\d{2}-\d{2})\b`)

	chequeMarkers = []string{"cheque", "check no", "micr"}
)

// MatchGSTIN returns the first GSTIN-shaped token in text. Only the format
// is checked, not the checksum character.
func MatchGSTIN(text string) (string, bool) {
	m := gstinPattern.FindString(text)
	return m, m != ""
}

// Amount is the selected amount candidate.
type Amount struct {
	// Value is the number with thousands separators removed.
	Value float64
	// Raw is the matched digits exactly as they appear in the text.
	Raw string
}

// Normalized formats Value in its shortest round-trip form ("12345.5", "100").
func (a Amount) Normalized() string {
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

// MatchAmount scans every amount-like substring and returns the numerically
// largest. Ties keep the earliest occurrence.
//
// Any digit run qualifies, so page numbers or phone fragments can win over
// the real total. The heuristic assumes the largest figure is the total.
func MatchAmount(text string) (Amount, bool) {
	var best Amount
	found := false

	for _, m := range amountPattern.FindAllStringSubmatch(text, -1) {
		raw := m[1]
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			continue
		}
		if !found || value > best.Value {
			best = Amount{Value: value, Raw: raw}
			found = true
		}
	}

	return best, found
}

// MatchDate returns the first D/M/Y-like or ISO date in text. The match is
// purely lexical: "45/13/99" is accepted.
func MatchDate(text string) (string, bool) {
	m := datePattern.FindString(text)
	return m, m != ""
}

// ClassifyType reports CHECK when the text mentions a cheque marker and
// BILL otherwise.
func ClassifyType(text string) models.DocumentType {
	lowered := strings.ToLower(text)
	for _, marker := range chequeMarkers {
		if strings.Contains(lowered, marker) {
			return models.DocumentTypeCheck
		}
	}
	return models.DocumentTypeBill
}
