package events

// EventType identifies events published on the hygiene event bus
type EventType string

const (
	RunStarted   EventType = "run.started"
	RunCompleted EventType = "run.completed"
	RunFailed    EventType = "run.failed"
	AlertRaised  EventType = "alert.raised"
)
