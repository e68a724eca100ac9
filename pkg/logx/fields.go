package logx

const (
	FieldAppName        = "app-name"
	FieldAppVersion     = "app-version"
	FieldDurationMs     = "duration-ms"
	FieldError          = "error"
	FieldHTTPMethod     = "http-method"
	FieldIP             = "ip"
	FieldRequestBody    = "request-body"
	FieldRequestID      = "request-id"
	FieldResponseStatus = "response-status"
	FieldSessionID      = "session-id"
	FieldStack          = "stack"
	FieldTraceID        = "trace-id"
	FieldURL            = "url"
)
