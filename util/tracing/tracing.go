package tracing

// Context carries per-request identifiers from the tracing middleware down
// into handlers and error responses.
type Context struct {
	RequestID     string `json:"request_id"`
	RequestSource string `json:"request_source"`
}
