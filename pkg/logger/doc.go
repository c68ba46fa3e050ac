// Package logger builds *slog.Logger values with environment presets and
// context-aware attribute injection.
//
// New takes functional options: output format (json or text), level, static
// attributes and ContextExtractor callbacks that add request-scoped values,
// such as the request id, to every record logged with a context.
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "sessiond"),
//	    logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//	log.InfoContext(ctx, "session saved",
//	    logger.SessionID(id),
//	    logger.Backend("redis"),
//	)
//
// NewFromConfig does the same from a Config loaded with pkg/config.
//
// Attribute helpers keep key names consistent. Error and Errors return an
// empty attribute for nil errors, so they can be passed unconditionally.
// SessionID logs only a prefix of the identifier.
package logger
