package constants

// Hygiene tables
const (
	TableRun         = "hygiene_run"
	TableAlertOutbox = "hygiene_alert_outbox"
)

// Outbox status values
const (
	OutboxStatusPending   = "pending"
	OutboxStatusProcessed = "processed"
	OutboxStatusFailed    = "failed"
)
