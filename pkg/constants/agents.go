package constants

// Agent names as recorded on findings
const (
	AgentMissingFields = "missing_fields"
	AgentValidation    = "validation"
	AgentDeduplication = "deduplication"
	AgentStaleness     = "staleness"
	AgentNormalization = "normalization"
	AgentEnrichment    = "enrichment"
	AgentInsights      = "insights"
	AgentAlert         = "alert"
	AgentOrchestrator  = "orchestrator"
)

// Finding kinds
const (
	FindingMissing    = "missing_fields"
	FindingInvalid    = "validation_errors"
	FindingStale      = "stale"
	FindingNormalized = "normalized"
	FindingEnriched   = "enriched"
)

// Built-in validation messages
const (
	MsgInvalidEmail   = "Invalid email"
	MsgInvalidPhone   = "Invalid phone number"
	MsgNegativeAmount = "Negative amount"
	MsgInvalidAmount  = "Invalid amount"
)

// Record sources
const (
	SourceInline = "inline"
	SourceTable  = "table"
	SourceCSV    = "csv"
	SourceJSON   = "json"
)
