// Package compliance evaluates extracted document fields against a table
// of independent rules.
package compliance

import (
	"strings"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/fields"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"
)

// Issue codes.
const (
	CodeGSTMissing    = "GST_MISSING"
	CodeAmountMissing = "AMOUNT_MISSING"
	CodeDateMissing   = "DATE_MISSING"
	CodeAmountOutlier = "AMOUNT_OUTLIER"
	CodePayeeMissing  = "PAYEE_MISSING"
)

// OutlierThreshold is the largest amount that is not flagged.
const OutlierThreshold = 1_000_000

// Input is what a rule sees.
type Input struct {
	// Text is the raw OCR text, for free-text conditions.
	Text   string
	Fields fields.FieldSet
	Type   models.DocumentType
}

// Rule raises its issue when Applies returns true.
type Rule struct {
	Code        string
	Description string
	Severity    models.Severity
	Applies     func(in Input) bool
}

func (r Rule) issue() models.ComplianceIssue {
	return models.ComplianceIssue{
		Code:        r.Code,
		Description: r.Description,
		Severity:    r.Severity,
	}
}

// DefaultRules is the rule table, in reporting order.
var DefaultRules = []Rule{
	{
		Code:        CodeGSTMissing,
		Description: "No GSTIN found on bill text",
		Severity:    models.SeverityError,
		Applies: func(in Input) bool {
			return in.Type == models.DocumentTypeBill && !in.Fields.Has(models.FieldGSTIN)
		},
	},
	{
		Code:        CodeAmountMissing,
		Description: "Amount not detected",
		Severity:    models.SeverityWarning,
		Applies: func(in Input) bool {
			return !in.Fields.Has(models.FieldAmount)
		},
	},
	{
		Code:        CodeDateMissing,
		Description: "Date not detected",
		Severity:    models.SeverityWarning,
		Applies: func(in Input) bool {
			return !in.Fields.Has(models.FieldDate)
		},
	},
	{
		Code:        CodeAmountOutlier,
		Description: "Unusually large amount detected",
		Severity:    models.SeverityWarning,
		Applies: func(in Input) bool {
			amount, ok := in.Fields.Float(models.FieldAmount)
			return ok && amount > OutlierThreshold
		},
	},
	{
		Code:        CodePayeeMissing,
		Description: "Possible missing payee line",
		Severity:    models.SeverityWarning,
		Applies: func(in Input) bool {
			return in.Type == models.DocumentTypeCheck && !strings.Contains(strings.ToLower(in.Text), "pay")
		},
	},
}
