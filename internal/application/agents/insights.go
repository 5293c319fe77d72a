package agents

import (
	"math"
	"time"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/constants"
	"github.com/nexuscrm/hygiene/pkg/expression"
	"github.com/nexuscrm/hygiene/pkg/utils"
)

// InsightsAgent turns processed records into hygiene counters and a score
type InsightsAgent struct {
	staleness     *StalenessAgent
	now           Clock
	staleDays     int
	untouchedDays int
}

// NewInsightsAgent creates an InsightsAgent
func NewInsightsAgent(now Clock, staleDays, untouchedDays int) *InsightsAgent {
	if now == nil {
		now = time.Now
	}
	return &InsightsAgent{
		staleness:     NewStalenessAgent(now),
		now:           now,
		staleDays:     staleDays,
		untouchedDays: untouchedDays,
	}
}

// Generate computes every insight in constants.InsightOrder
func (a *InsightsAgent) Generate(records []models.Record, duplicates []models.DuplicatePair) models.Insights {
	hasOwner := models.AnyHas(records, constants.FieldOwner)
	hasStage := models.AnyHas(records, constants.FieldStage)
	hasAccount := models.AnyHas(records, constants.FieldAccountID)
	hasFirmographics := models.AnyHas(records, constants.FieldIndustry) && models.AnyHas(records, constants.FieldCompanySize)

	now := a.now()
	counts := make(map[string]int, len(constants.InsightOrder))
	counts[constants.InsightDuplicates] = len(duplicates)

	for _, r := range records {
		if r.IsBlank(constants.FieldEmail) {
			counts[constants.InsightMissingEmail]++
		}
		if r.IsBlank(constants.FieldCloseDate) {
			counts[constants.InsightNoCloseDate]++
		} else if d, err := expression.ParseDate(r[constants.FieldCloseDate]); err == nil && d.Before(now) {
			counts[constants.InsightPastDueClose]++
		}
		if hasOwner && r.IsBlank(constants.FieldOwner) {
			counts[constants.InsightNoOwner]++
		}
		if hasStage && r.IsBlank(constants.FieldStage) {
			counts[constants.InsightNoStage]++
		}
		if a.staleness.DetectStale(r, a.staleDays) {
			counts[constants.InsightStale]++
		}
		if a.staleness.DetectStale(r, a.untouchedDays) {
			counts[constants.InsightUntouched]++
		}
		if hasFirmographics && (r.IsBlank(constants.FieldIndustry) || r.IsBlank(constants.FieldCompanySize)) {
			counts[constants.InsightMissingFirmograph]++
		}
		if !ValidEmail(r.GetString(constants.FieldEmail)) || !ValidPhone(r.GetString(constants.FieldPhone)) {
			counts[constants.InsightInvalidContact]++
		}
		if hasAccount && r.IsBlank(constants.FieldAccountID) {
			counts[constants.InsightNoAccount]++
		}
		if utils.ToBool(r[constants.FieldNormalized]) {
			counts[constants.InsightNormalizationFixes]++
		}
	}

	insights := make(models.Insights, 0, len(constants.InsightOrder))
	for _, name := range constants.InsightOrder {
		insights = append(insights, models.Insight{Name: name, Count: counts[name]})
	}
	return insights
}

// HealthScore subtracts the weighted issue counts from 100, floored at 0.
// Insights without a weight cost nothing.
func HealthScore(insights models.Insights, weights map[string]float64) int {
	penalty := 0.0
	for _, in := range insights {
		penalty += float64(in.Count) * weights[in.Name]
	}
	// The epsilon absorbs float error from summing decimal weights.
	score := math.Floor(100 - penalty + 1e-9)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score)
}
