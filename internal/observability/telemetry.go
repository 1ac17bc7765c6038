package observability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/fantasy-hockey/internal/config"
	"github.com/riskibarqy/fantasy-hockey/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// Options selects what a process turns on. The CLI traces only; the
// long-running worker also profiles.
type Options struct {
	Component string
	Profiling bool
}

// Telemetry owns the tracing and profiling exporters of one process.
type Telemetry struct {
	tracing  bool
	profiler *pyroscope.Profiler
	logger   *logging.Logger
}

// Setup starts the exporters cfg enables. A disabled or unconfigured exporter
// is logged and skipped, never an error.
func Setup(cfg config.Config, opts Options, logger *logging.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = logging.Default()
	}
	t := &Telemetry{logger: logger}

	switch {
	case !cfg.UptraceEnabled:
		logger.Debug("tracing off", "reason", "UPTRACE_ENABLED=false")
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		logger.Warn("tracing off", "reason", "UPTRACE_DSN empty")
	default:
		uptrace.ConfigureOpentelemetry(
			uptrace.WithDSN(cfg.UptraceDSN),
			uptrace.WithServiceName(cfg.ServiceName),
			uptrace.WithServiceVersion(cfg.ServiceVersion),
			uptrace.WithDeploymentEnvironment(cfg.AppEnv),
			uptrace.WithResourceAttributes(attribute.String("fantasy.component", opts.Component)),
			uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
		)
		t.tracing = true
		logger.Info("tracing on", "service", cfg.ServiceName, "component", opts.Component)
	}

	if !opts.Profiling || !cfg.PyroscopeEnabled {
		return t, nil
	}
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Tags:              map[string]string{"env": cfg.AppEnv, "component": opts.Component},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}
	t.profiler = profiler
	logger.Info("profiling on", "server_address", cfg.PyroscopeServerAddress)
	return t, nil
}

// Tracing reports whether spans are exported.
func (t *Telemetry) Tracing() bool { return t != nil && t.tracing }

// Shutdown flushes spans and stops the profiler.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errs []error
	if t.profiler != nil {
		if err := t.profiler.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop pyroscope: %w", err))
		}
	}
	if t.tracing {
		if err := uptrace.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush spans: %w", err))
		}
	}
	return errors.Join(errs...)
}
