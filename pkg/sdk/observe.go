package recipedex

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of an SDK call. Caller mistakes are counted apart from
// catalog failures so alerts can key on "error" alone.
const (
	statusOK       = "ok"
	statusNotFound = "not_found"
	statusInvalid  = "invalid"
	statusError    = "error"
)

// outcome classifies err into one of the status labels.
func outcome(err error) string {
	switch {
	case err == nil:
		return statusOK
	case errors.Is(err, ErrRecipeNotFound), errors.Is(err, ErrNotFound):
		return statusNotFound
	case errors.Is(err, ErrInvalidRecipe), errors.Is(err, ErrInvalidQuery):
		return statusInvalid
	default:
		return statusError
	}
}

// sdkMetrics holds the collectors registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	results    *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recipedex",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK calls by operation and outcome (ok, not_found, invalid, error).",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "recipedex",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK call duration in seconds.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"operation"}),
		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "recipedex",
			Subsystem: "sdk",
			Name:      "operation_results",
			Help:      "Recipes returned per successful search or personalization call.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}, []string{"operation"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.results); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers c, or points it at the collector a previous
// client registered under the same name.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	err := reg.Register(*c)
	if err == nil {
		return nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return fmt.Errorf("recipedex: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return fmt.Errorf("recipedex: metric already registered with incompatible type: %T", are.ExistingCollector)
	}
	*c = existing
	return nil
}

// observer logs and counts SDK calls. A nil observer is a no-op.
type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

// observe records a call that returns no recipe list.
func (o *observer) observe(op string, start time.Time, err error) {
	o.record(op, start, -1, err)
}

// observeResults records a search or personalization call together with
// the number of recipes it returned.
func (o *observer) observeResults(op string, start time.Time, n int, err error) {
	o.record(op, start, n, err)
}

func (o *observer) record(op string, start time.Time, n int, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	status := outcome(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, status).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
		if n >= 0 && err == nil {
			o.metrics.results.WithLabelValues(op).Observe(float64(n))
		}
	}

	if o.logger == nil {
		return
	}
	attrs := []any{"op", op, "status", status, "duration", dur}
	if n >= 0 {
		attrs = append(attrs, "results", n)
	}
	switch status {
	case statusOK:
		o.logger.Debug("recipedex call completed", attrs...)
	case statusError:
		o.logger.Warn("recipedex call failed", append(attrs, "error", err)...)
	default:
		o.logger.Info("recipedex call rejected", append(attrs, "error", err)...)
	}
}
