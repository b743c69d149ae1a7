// Package observability wires the tracing and profiling backends.
package observability

import (
	"context"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/courtdata/statpipe/internal/config"
	"github.com/courtdata/statpipe/internal/platform/logging"
)

// InitUptrace configures the global OpenTelemetry providers for Uptrace.
// The returned shutdown flushes pending spans; it is a no-op when Uptrace
// is disabled.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	if !cfg.UptraceEnabled {
		logger.Info("uptrace disabled", "reason", "UPTRACE_ENABLED=false")
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
	)

	return uptrace.Shutdown, nil
}
