// Package agents holds the hygiene agents. Each agent owns one category of
// data-quality check or repair; the Orchestrator is the controller that
// sequences them over a batch of records.
package agents

import "time"

// Clock returns the current time; agents take one so tests can pin "now"
type Clock func() time.Time
