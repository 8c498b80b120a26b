package telemetry

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/grafana/pyroscope-go"
	"github.com/storefront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Profiler streams continuous profiles to Pyroscope.
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
}

// NewProfiler starts Pyroscope when profiling is enabled.
func NewProfiler(cfg config.TelemetryConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger}
	if !cfg.ProfilingEnabled {
		logger.Info("Continuous profiling disabled")
		return p, nil
	}
	if cfg.PyroscopeEndpoint == "" {
		return nil, fmt.Errorf("profiling enabled but telemetry.pyroscope_endpoint is empty")
	}

	hostname, _ := os.Hostname()
	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ServiceName,
		ServerAddress:   cfg.PyroscopeEndpoint,
		Logger:          pyroscopeLogger{logger.Sugar()},
		Tags:            map[string]string{"hostname": hostname, "version": ServiceVersion},
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start pyroscope profiler: %w", err)
	}
	p.profiler = profiler

	logger.Info("Continuous profiling enabled", zap.String("pyroscope_endpoint", cfg.PyroscopeEndpoint))
	return p, nil
}

// IsEnabled returns whether the profiler is running.
func (p *Profiler) IsEnabled() bool {
	return p != nil && p.profiler != nil
}

// Stop flushes and stops profiling.
func (p *Profiler) Stop() error {
	if !p.IsEnabled() {
		return nil
	}
	if err := p.profiler.Stop(); err != nil {
		return fmt.Errorf("failed to stop profiler: %w", err)
	}
	p.profiler = nil
	return nil
}

type pyroscopeLogger struct {
	s *zap.SugaredLogger
}

func (l pyroscopeLogger) Infof(format string, args ...any)  { l.s.Debugf(format, args...) }
func (l pyroscopeLogger) Debugf(format string, args ...any) { l.s.Debugf(format, args...) }
func (l pyroscopeLogger) Errorf(format string, args ...any) { l.s.Errorf(format, args...) }

// Profiling label keys attached to request-scoped samples.
const (
	ProfilingLabelRoute    = "route"
	ProfilingLabelMethod   = "method"
	ProfilingLabelResource = "resource"
)

// WithProfilingLabels runs fn with the labels attached to the goroutine's
// profiling samples. Empty values are dropped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if v != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		fn(ctx)
		return
	}
	sort.Strings(keys)
	args := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		args = append(args, k, labels[k])
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(args...), fn)
}
