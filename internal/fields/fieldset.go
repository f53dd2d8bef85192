package fields

import (
	"strconv"

	"github.com/jhaabhijeet864/CompliCopilot-Mobile/internal/models"
)

// FieldSet indexes extracted fields by name.
//
// When a name appears more than once, the first occurrence wins; later
// duplicates are ignored.
type FieldSet struct {
	byName map[string]models.ExtractedField
}

func NewFieldSet(fs []models.ExtractedField) FieldSet {
	set := FieldSet{byName: make(map[string]models.ExtractedField, len(fs))}
	for _, f := range fs {
		if _, dup := set.byName[f.Name]; !dup {
			set.byName[f.Name] = f
		}
	}
	return set
}

func (s FieldSet) Get(name string) (models.ExtractedField, bool) {
	f, ok := s.byName[name]
	return f, ok
}

func (s FieldSet) Value(name string) (string, bool) {
	f, ok := s.byName[name]
	return f.Value, ok
}

// Has reports whether name is present with a non-empty value.
func (s FieldSet) Has(name string) bool {
	v, ok := s.Value(name)
	return ok && v != ""
}

// Float parses the named field as a decimal number.
func (s FieldSet) Float(name string) (float64, bool) {
	v, ok := s.Value(name)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (s FieldSet) Len() int {
	return len(s.byName)
}
