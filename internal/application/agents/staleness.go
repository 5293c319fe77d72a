package agents

import (
	"math"
	"time"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/constants"
	"github.com/nexuscrm/hygiene/pkg/expression"
)

// StalenessAgent flags records whose last activity is too old
type StalenessAgent struct {
	now Clock
}

// NewStalenessAgent creates a StalenessAgent; a nil clock means time.Now
func NewStalenessAgent(now Clock) *StalenessAgent {
	if now == nil {
		now = time.Now
	}
	return &StalenessAgent{now: now}
}

// DetectStale reports whether more than days whole days have passed since
// last_activity. A record without a readable last_activity is stale.
func (a *StalenessAgent) DetectStale(record models.Record, days int) bool {
	since, ok := a.DaysSinceActivity(record)
	if !ok {
		return true
	}
	return since > days
}

// DaysSinceActivity returns whole days elapsed since last_activity
func (a *StalenessAgent) DaysSinceActivity(record models.Record) (int, bool) {
	if record.IsBlank(constants.FieldLastActivity) {
		return 0, false
	}
	last, err := expression.ParseDate(record[constants.FieldLastActivity])
	if err != nil {
		return 0, false
	}
	return int(math.Floor(a.now().Sub(last).Hours() / 24)), true
}
