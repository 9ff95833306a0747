package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldUserID is the user whose profile or ratings are being processed
	FieldUserID = "user_id"

	// FieldItemID is the media item being looked up or explained
	FieldItemID = "item_id"

	// FieldMediaType is the catalog domain (movie, book, music)
	FieldMediaType = "media_type"

	// FieldJobID is the catalog ingest job ID
	FieldJobID = "job_id"
)

// Standard metric fields, attached at the log entry level for aggregation.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
