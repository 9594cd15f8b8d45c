// Package observability records operation outcomes for the library and the
// editor.
package observability

import (
	"context"
	"fmt"
	"time"

	"slidecore/internal/config"
)

// Recorder observes one operation outcome.
type Recorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// Nop discards every observation.
type Nop struct{}

// Observe implements Recorder.
func (Nop) Observe(context.Context, string, bool, time.Duration) {}

// New builds the recorder selected by cfg.Backend.
func New(cfg config.Metrics) (Recorder, error) {
	switch cfg.Backend {
	case "", "none":
		return Nop{}, nil
	case "expvar":
		return NewExpvarRecorder(cfg.Name), nil
	case "prometheus":
		return NewPrometheusRecorder(cfg.Name, nil)
	default:
		return nil, fmt.Errorf("unknown metrics backend %q", cfg.Backend)
	}
}

// Time runs fn and records its outcome under operation.
func Time(ctx context.Context, rec Recorder, operation string, fn func() error) error {
	if rec == nil {
		return fn()
	}
	start := time.Now()
	err := fn()
	rec.Observe(ctx, operation, err == nil, time.Since(start))
	return err
}

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
