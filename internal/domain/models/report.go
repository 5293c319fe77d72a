package models

import (
	"encoding/json"
	"time"
)

// Insight is one named hygiene counter
type Insight struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Insights keeps counters in dashboard order
type Insights []Insight

// Get returns the count for name, 0 when absent
func (in Insights) Get(name string) int {
	for _, i := range in {
		if i.Name == name {
			return i.Count
		}
	}
	return 0
}

// Map returns the insights keyed by name
func (in Insights) Map() map[string]int {
	out := make(map[string]int, len(in))
	for _, i := range in {
		out[i.Name] = i.Count
	}
	return out
}

// Report is the full outcome of a hygiene run
type Report struct {
	ID          string           `json:"id"`
	Source      string           `json:"source"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
	RecordCount int              `json:"record_count"`
	HealthScore int              `json:"health_score"`
	Insights    Insights         `json:"insights"`
	Duplicates  []DuplicatePair  `json:"duplicates"`
	Groups      []DuplicateGroup `json:"groups"`
	Checks      []RecordCheck    `json:"checks"`
	Alerts      []Alert          `json:"alerts"`
	Records     []Record         `json:"records"`
}

// Summary is the persisted header of a run, without record payloads
type Summary struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	RecordCount int       `json:"record_count"`
	HealthScore int       `json:"health_score"`
	Insights    Insights  `json:"insights"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// Summary extracts the report header
func (r *Report) Summary() Summary {
	return Summary{
		ID:          r.ID,
		Source:      r.Source,
		RecordCount: r.RecordCount,
		HealthScore: r.HealthScore,
		Insights:    r.Insights,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
	}
}

// Dashboard is the view served to dashboards
type Dashboard struct {
	RunID       string    `json:"run_id"`
	HealthScore int       `json:"health_score"`
	Insights    Insights  `json:"insights"`
	GeneratedAt time.Time `json:"generated_at"`
}

// MarshalInsights encodes insights for storage
func MarshalInsights(in Insights) (string, error) {
	b, err := json.Marshal(in)
	return string(b), err
}
