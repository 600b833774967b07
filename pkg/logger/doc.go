// Package logger builds configured slog.Logger instances and provides
// typed attribute helpers shared across the identity services.
//
// Services default to a discard logger and accept a configured one via
// their functional options, so logging is always opt-in:
//
//	log := logger.New(logger.WithProduction("idfront"))
//	svc := flow.New(store, issuer, guard, flow.WithLogger(log))
package logger
