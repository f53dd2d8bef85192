// Package fields turns raw OCR text into named fields.
//
// Each matcher in matchers.go is an independent pure function; Extract
// composes them. Adding a matcher never changes the output of the others.
package fields

import "github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"

// Extract runs every matcher over text and returns the detected fields in
// extraction order: GSTIN, AMOUNT, AMOUNT_RAW, DATE, DOC_TYPE_HINT.
// Consumers should look fields up by name (see FieldSet), not by position.
func Extract(text string) []models.ExtractedField {
	var out []models.ExtractedField

	if gstin, ok := MatchGSTIN(text); ok {
		out = append(out, models.ExtractedField{Name: models.FieldGSTIN, Value: gstin})
	}

	if amount, ok := MatchAmount(text); ok {
		out = append(out,
			models.ExtractedField{Name: models.FieldAmount, Value: amount.Normalized()},
			models.ExtractedField{Name: models.FieldAmountRaw, Value: amount.Raw},
		)
	}

	if date, ok := MatchDate(text); ok {
		out = append(out, models.ExtractedField{Name: models.FieldDate, Value: date})
	}

	out = append(out, models.ExtractedField{Name: models.FieldDocTypeHint, Value: string(ClassifyType(text))})

	return out
}

// DocumentTypeOf reads the DOC_TYPE_HINT field, defaulting to BILL when
// it is absent or not a known type.
func DocumentTypeOf(fs []models.ExtractedField) models.DocumentType {
	hint, _ := NewFieldSet(fs).Value(models.FieldDocTypeHint)
	if t, ok := models.ParseDocumentType(hint); ok {
		return t
	}
	return models.DocumentTypeBill
}
