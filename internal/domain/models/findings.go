package models

import "time"

// Alert is a notification raised for a record owner
type Alert struct {
	ID          string    `json:"id"`
	Recipient   string    `json:"recipient"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	Kind        string    `json:"kind"`
	RecordIndex int       `json:"record_index"`
	RecordID    string    `json:"record_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// DuplicatePair marks two records whose key fields are near-identical.
// Left is always the lower index.
type DuplicatePair struct {
	Left  int `json:"left"`
	Right int `json:"right"`
	Score int `json:"score"`
}

// DuplicateGroup is a connected set of duplicate records and their merge result
type DuplicateGroup struct {
	Members  []int  `json:"members"`
	Survivor int    `json:"survivor"`
	Merged   Record `json:"merged"`
}

// RecordCheck is the per-record outcome of the orchestrator's first pass
type RecordCheck struct {
	Index            int      `json:"index"`
	MissingFields    []string `json:"missing_fields,omitempty"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
	Stale            bool     `json:"stale"`
	Normalized       bool     `json:"normalized"`
	EnrichedFields   []string `json:"enriched_fields,omitempty"`
	Record           Record   `json:"record,omitempty"`
}
