// Package logging provides request-scoped structured logging with fan-out to
// multiple sinks: a daily-rotating text file, a daily-rotating JSON file, the
// console, and an optional Elasticsearch index. A per-request context (request id,
// user id, service, environment, arbitrary extras) is carried on context.Context
// and merged into every record without explicit threading through call stacks.
//
// Example usage:
//
//	logger, err := logging.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Close(context.Background())
//
//	ctx = logger.SetContext(ctx, logging.WithRequestID("ab12cd34"))
//	logger.Info(ctx, "user logged in", logging.Extra(map[string]interface{}{"plan": "pro"}))
package logging

// Standard field names for structured logging.
// These constants ensure consistent field naming across every sink.
const (
	// FieldTimestamp is the field name for when the record was created.
	FieldTimestamp = "timestamp"

	// FieldLevel is the field name for the record level (debug, info, error).
	FieldLevel = "level"

	// FieldMessage is the field name for the log message.
	FieldMessage = "message"

	// FieldLogger is the field name for the logger that produced the record.
	FieldLogger = "logger"

	// FieldException is the field name for a rendered error and stack trace.
	FieldException = "exception"

	// FieldService is the field name for the logical service name.
	FieldService = "service"

	// FieldEnvironment is the field name for the deployment environment tag.
	FieldEnvironment = "environment"

	// FieldRequestID is the field name for the per-request correlation id.
	FieldRequestID = "request_id"

	// FieldUserID is the field name for the authenticated user id.
	FieldUserID = "user_id"

	// FieldMethod is the field name for the HTTP method.
	FieldMethod = "method"

	// FieldPath is the field name for the HTTP path.
	FieldPath = "path"

	// FieldStatusCode is the field name for the HTTP response status code.
	FieldStatusCode = "status_code"
)

// Sink names used in metrics labels and fallback error messages.
const (
	SinkConsole  = "console"
	SinkTextFile = "file"
	SinkJSONFile = "json_file"
	SinkElastic  = "elastic"
)

// reservedFields are keys owned by the record itself. An extra colliding with a
// reserved key is dropped: the record's own value always wins.
var reservedFields = map[string]bool{
	FieldTimestamp: true,
	FieldLevel:     true,
	FieldMessage:   true,
	FieldLogger:    true,
	FieldException: true,
}

// sentinel is the placeholder for context fields that were never set.
const sentinel = "-"
