package constants

import "time"

// Pipeline defaults, overridable through the hygiene profile
const (
	DefaultDedupeKeyField   = FieldEmail
	DefaultDedupeThreshold  = 90
	DefaultStaleDays        = 30
	DefaultUntouchedDays    = 14
	DefaultAlertRecipient   = "owner@example.com"
	DefaultWorkers          = 4
	DefaultSourceTable      = "crm_records"
	DefaultRunListLimit     = 20
	MaxRunListLimit         = 200
	DefaultServerPort       = "3001"
	DefaultDatabasePort     = "4000"
	DefaultDatabaseName     = "nexuscrm"
	DefaultOutboxInterval   = 500 * time.Millisecond
	OutboxBatchSize         = 100
	OutboxMaxRetryAttempts  = 5
	ScheduleMaxRuntimeMins  = 30
	TokenDefaultTTL         = 24 * time.Hour
	ProcessedEventRetention = 7 * 24 * time.Hour
	OutboxCleanupInterval   = time.Hour
)

// DefaultRequiredFields are checked by the missing fields agent
var DefaultRequiredFields = []string{FieldEmail, FieldLeadSource, FieldCloseDate}
