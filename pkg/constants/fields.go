package constants

// Well-known CRM record fields
const (
	FieldID           = "id"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldEmail        = "email"
	FieldPhone        = "phone"
	FieldAmount       = "amount"
	FieldLeadSource   = "lead_source"
	FieldCloseDate    = "close_date"
	FieldOwner        = "owner"
	FieldStage        = "stage"
	FieldLastActivity = "last_activity"
	FieldIndustry     = "industry"
	FieldCompanySize  = "company_size"
	FieldAccountID    = "account_id"
	FieldNormalized   = "normalized"
)

// Date layouts accepted for last_activity and close_date
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Context Keys
const (
	ContextKeySubject = "subject"
)

// HTTP headers and response keys
const (
	HeaderAuthorization = "Authorization"
	ResponseError       = "error"
	FieldMessage        = "message"
)
