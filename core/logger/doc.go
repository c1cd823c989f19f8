// Package logger provides structured logging helpers built on log/slog.
//
// New builds a *slog.Logger from functional options, and the attribute helpers
// keep key names consistent across packages.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithProduction("notes"),
//		logger.WithOutput(os.Stderr),
//	)
//
//	log.Error("event handler failed",
//		logger.Component("eventcentral"),
//		logger.Category("UserCreated"),
//		logger.SubscriptionID(id),
//		logger.Error(err),
//	)
//
// # Environment Presets
//
//	logger.New(logger.WithDevelopment("notes")) // text, debug
//	logger.New(logger.WithProduction("notes"))  // JSON, info
//
// # Nil Safety
//
// Helpers such as Error, Panic, Category and SubscriptionID return an empty
// slog.Attr for zero input, which slog omits from output.
//
// # Testing
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//	log.Info("hello", logger.Component("test"))
//	assert.Contains(t, buf.String(), `"component":"test"`)
package logger
