package fuzzdex

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// observer instruments client calls with optional logging and metrics.
// Both sides are independent: a nil logger silences logs, a nil
// registerer skips metrics. The zero observer is a no-op.
type observer struct {
	logger *slog.Logger

	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}

	o.calls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fuzzdex",
		Subsystem: "client",
		Name:      "operations_total",
		Help:      "Total client calls by operation and status.",
	}, []string{"operation", "status"})
	o.duration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fuzzdex",
		Subsystem: "client",
		Name:      "operation_duration_seconds",
		Help:      "Client call duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	if err := registerOrReuse(reg, &o.calls); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &o.duration); err != nil {
		return nil, err
	}
	return o, nil
}

// registerOrReuse registers a collector, adopting the already registered
// one when a second Client shares the registerer.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		existing, ok := are.ExistingCollector.(T)
		if !ok {
			return fmt.Errorf("fuzzdex: metric registered with incompatible type %T", are.ExistingCollector)
		}
		*c = existing
		return nil
	}
	return fmt.Errorf("fuzzdex: register metric: %w", err)
}

func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)

	if o.calls != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.calls.WithLabelValues(op, status).Inc()
		o.duration.WithLabelValues(op).Observe(dur.Seconds())
	}

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("call failed", "op", op, "duration", dur, "error", err)
	} else {
		o.logger.Debug("call completed", "op", op, "duration", dur)
	}
}
