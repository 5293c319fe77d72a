package constants

// Insight names, in dashboard order
const (
	InsightMissingEmail       = "Leads Missing Email"
	InsightNoCloseDate        = "Opportunities Without Close Date"
	InsightDuplicates         = "Duplicate Records Detected"
	InsightNoOwner            = "Opportunities Without Owner"
	InsightNoStage            = "Deals Without Stage"
	InsightStale              = "Stale Opportunities"
	InsightUntouched          = "Untouched Leads (14+ days)"
	InsightMissingFirmograph  = "Missing Industry/Company Size"
	InsightInvalidContact     = "Invalid Email or Phone"
	InsightNoAccount          = "Contacts Without Accounts"
	InsightPastDueClose       = "Past-Due Close Dates"
	InsightNormalizationFixes = "Normalization Fixes"
)

// InsightOrder is the order insights are generated and displayed in
var InsightOrder = []string{
	InsightMissingEmail,
	InsightNoCloseDate,
	InsightDuplicates,
	InsightNoOwner,
	InsightNoStage,
	InsightStale,
	InsightUntouched,
	InsightMissingFirmograph,
	InsightInvalidContact,
	InsightNoAccount,
	InsightPastDueClose,
	InsightNormalizationFixes,
}

// DefaultHealthWeights is the penalty per counted issue
var DefaultHealthWeights = map[string]float64{
	InsightMissingEmail:       0.2,
	InsightNoCloseDate:        0.3,
	InsightDuplicates:         0.5,
	InsightNoOwner:            1.0,
	InsightNoStage:            0.3,
	InsightStale:              0.2,
	InsightUntouched:          0.15,
	InsightMissingFirmograph:  0.1,
	InsightInvalidContact:     0.2,
	InsightNoAccount:          0.2,
	InsightPastDueClose:       0.25,
	InsightNormalizationFixes: 0.05,
}
