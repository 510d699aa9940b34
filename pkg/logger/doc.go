// Package logger builds slog loggers with functional options and injects
// request-scoped attributes from context.Context on every record.
//
//	log := logger.New(
//		logger.WithEnvironment("production", "rentdesk"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "2fa enabled", logger.UserID(id), logger.Action("enable"))
//
// Attribute helpers return an empty slog.Attr for nil input, which slog skips.
package logger
