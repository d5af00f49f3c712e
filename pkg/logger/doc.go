// Package logger builds *slog.Logger instances for the tenants service.
//
// New takes functional options for level, format, output and static
// attributes. Context extractors add request-scoped attributes such as the
// request id or the resolved tenant to every record logged with a context:
//
//	log := logger.New(
//		logger.WithEnvironment("production", "tenants"),
//		logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//	log.InfoContext(ctx, "tenant resolved", logger.TenantSlug("acme"))
//
// NewFromConfig reads the same settings from a Config loaded with the config
// package. The attribute helpers in this package keep key names consistent.
package logger
