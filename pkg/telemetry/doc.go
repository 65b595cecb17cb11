// Package telemetry builds pdep's structured logger from a Config:
// level, format (console/json), output target, caller info, and burst
// sampling for high-frequency log lines, all backed by zerolog.
//
// cmd/pdep/main.go is the package's only caller: it reads $LOG_LEVEL and
// $LOG_FORMAT into telemetry.DefaultConfig().Logging and builds the
// process's global zerolog.Logger from the result. Distributed tracing and
// metrics, the other two pillars a telemetry bootstrap usually carries
// alongside logging, are wired directly where they're produced instead —
// pkg/orchestrator owns its own otel.Tracer and prometheus instruments —
// so this package stays scoped to the one concern cmd/pdep actually
// drives through it.
package telemetry
