package compliance

import (
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/fields"
	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"
)

// Evaluator applies a rule table. The zero value uses DefaultRules.
type Evaluator struct {
	Rules []Rule
}

// Evaluate returns one issue per applicable rule, in rule order.
// The result is never nil.
func (e Evaluator) Evaluate(text string, fs []models.ExtractedField, docType models.DocumentType) []models.ComplianceIssue {
	rules := e.Rules
	if rules == nil {
		rules = DefaultRules
	}

	in := Input{
		Text:   text,
		Fields: fields.NewFieldSet(fs),
		Type:   docType,
	}

	issues := make([]models.ComplianceIssue, 0, len(rules))
	for _, rule := range rules {
		if rule.Applies(in) {
			issues = append(issues, rule.issue())
		}
	}
	return issues
}

// Evaluate runs DefaultRules.
func Evaluate(text string, fs []models.ExtractedField, docType models.DocumentType) []models.ComplianceIssue {
	return Evaluator{}.Evaluate(text, fs, docType)
}

// HasErrors reports whether any issue is an ERROR, i.e. the document is non-compliant.
func HasErrors(issues []models.ComplianceIssue) bool {
	for _, issue := range issues {
		if issue.Severity == models.SeverityError {
			return true
		}
	}
	return false
}
