package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexuscrm/hygiene/pkg/constants"
)

func TestRecordCloneIsIndependent(t *testing.T) {
	r := Record{"email": "a@b.com"}
	c := r.Clone()
	c["email"] = "x@y.com"
	assert.Equal(t, "a@b.com", r["email"])
}

func TestRecordBlank(t *testing.T) {
	r := Record{"email": " ", "amount": 0, "owner": nil}
	assert.True(t, r.IsBlank("email"))
	assert.True(t, r.IsBlank("owner"))
	assert.True(t, r.IsBlank("missing"))
	assert.False(t, r.IsBlank("amount"))
	assert.Equal(t, 2, r.BlankCount())
	assert.True(t, r.Has("owner"))
	assert.False(t, r.Has("missing"))
}

func TestAnyHas(t *testing.T) {
	records := []Record{{"a": 1}, {"b": nil}}
	assert.True(t, AnyHas(records, "b"))
	assert.False(t, AnyHas(records, "c"))
}

func TestInsightsLookup(t *testing.T) {
	in := Insights{{Name: "x", Count: 3}, {Name: "y", Count: 0}}
	assert.Equal(t, 3, in.Get("x"))
	assert.Equal(t, 0, in.Get("z"))
	assert.Equal(t, map[string]int{"x": 3, "y": 0}, in.Map())
}

func TestProfileWithDefaults(t *testing.T) {
	p := Profile{Weights: map[string]float64{constants.InsightNoOwner: 2}}.WithDefaults()

	assert.Equal(t, constants.DefaultRequiredFields, p.RequiredFields)
	assert.Equal(t, "email", p.Dedupe.KeyField)
	assert.Equal(t, 90, p.Dedupe.Threshold)
	assert.Equal(t, 30, p.StaleDays)
	assert.Equal(t, 14, p.UntouchedDays)
	assert.Equal(t, "owner@example.com", p.Alert.DefaultRecipient)
	assert.True(t, p.Alert.RoutesToOwner())
	assert.Equal(t, 2.0, p.Weights[constants.InsightNoOwner])
	assert.Equal(t, 0.5, p.Weights[constants.InsightDuplicates])
	// the package default table is untouched
	assert.Equal(t, 1.0, constants.DefaultHealthWeights[constants.InsightNoOwner])
}

func TestProfileKeepsExplicitValues(t *testing.T) {
	off := false
	p := Profile{
		RequiredFields: []string{"phone"},
		StaleDays:      60,
		Alert:          AlertProfile{RouteToOwner: &off},
	}.WithDefaults()

	assert.Equal(t, []string{"phone"}, p.RequiredFields)
	assert.Equal(t, 60, p.StaleDays)
	assert.False(t, p.Alert.RoutesToOwner())
}
