package logx

const (
	FieldAppName    = "app-name"
	FieldAppVersion = "app-version"
	FieldDurationMs = "duration-ms"
	FieldError      = "error"
	FieldHTTPMethod = "http-method"
	FieldHTTPStatus = "http-status"
	FieldLedger     = "ledger"
	FieldNotifier   = "notifier"
	FieldPolicy     = "policy"
	FieldProduct    = "product"
	FieldRequestID  = "request-id"
	FieldRunID      = "run-id"
	FieldURL        = "url"
)
