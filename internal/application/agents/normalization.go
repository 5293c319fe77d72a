package agents

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

// NormalizationAgent title-cases person names and strips phone formatting.
// Word boundaries follow Unicode rules: "jean-luc" becomes "Jean-Luc" and
// "o'brien" becomes "O'brien".
type NormalizationAgent struct{}

// NewNormalizationAgent creates a NormalizationAgent
func NewNormalizationAgent() *NormalizationAgent {
	return &NormalizationAgent{}
}

// Normalize returns a normalized copy of record and whether any value changed
func (a *NormalizationAgent) Normalize(record models.Record) (models.Record, bool) {
	out := record.Clone()
	changed := false

	// Casers carry state, so each call gets its own.
	title := cases.Title(language.English)
	for _, field := range []string{constants.FieldFirstName, constants.FieldLastName} {
		if out.IsBlank(field) {
			continue
		}
		orig := out.GetString(field)
		fixed := title.String(orig)
		if fixed != orig {
			out[field] = fixed
			changed = true
		}
	}

	if !out.IsBlank(constants.FieldPhone) {
		orig := out.GetString(constants.FieldPhone)
		digits := DigitsOnly(orig)
		if _, isString := out[constants.FieldPhone].(string); digits != orig || !isString {
			out[constants.FieldPhone] = digits
			changed = changed || digits != orig
		}
	}

	return out, changed
}

// DigitsOnly drops every rune that is not an ASCII digit
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
