// Package observe provides application-wide observability primitives for
// the imla service: OpenTelemetry metrics, tracing, and HTTP middleware
// that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all imla metrics.
const meterName = "github.com/itektr/imla"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// CheckDuration tracks full-text check latency.
	CheckDuration metric.Float64Histogram

	// WordCheckDuration tracks single-word check latency.
	WordCheckDuration metric.Float64Histogram

	// WordsChecked counts words inspected across all requests.
	WordsChecked metric.Int64Counter

	// Corrections counts substitutions applied. Use with attribute:
	//   attribute.String("type", "diacritic"|"spelling")
	Corrections metric.Int64Counter

	// OracleErrors counts contained per-word oracle lookup failures.
	OracleErrors metric.Int64Counter

	// DegradedChecks counts full-text requests served in degraded mode
	// (oracle unavailable).
	DegradedChecks metric.Int64Counter

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attributes: attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// in-process lexicon lookups up to large-document checks.
var latencyBuckets = []float64{
	0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.CheckDuration, err = m.Float64Histogram("imla.check.duration",
		metric.WithDescription("Latency of full-text spell checks."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.WordCheckDuration, err = m.Float64Histogram("imla.check_word.duration",
		metric.WithDescription("Latency of single-word spell checks."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.WordsChecked, err = m.Int64Counter("imla.words.checked",
		metric.WithDescription("Total words inspected."),
	); err != nil {
		return nil, err
	}
	if met.Corrections, err = m.Int64Counter("imla.corrections",
		metric.WithDescription("Total corrections applied, by error type."),
	); err != nil {
		return nil, err
	}
	if met.OracleErrors, err = m.Int64Counter("imla.oracle.errors",
		metric.WithDescription("Per-word oracle lookup failures (contained, word passed through)."),
	); err != nil {
		return nil, err
	}
	if met.DegradedChecks, err = m.Int64Counter("imla.checks.degraded",
		metric.WithDescription("Full-text checks served with the oracle unavailable."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("imla.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordCorrection records a single applied correction with its error type.
func (m *Metrics) RecordCorrection(ctx context.Context, errType string) {
	m.Corrections.Add(ctx, 1,
		metric.WithAttributes(attribute.String("type", errType)),
	)
}

// RecordOracleError records a contained per-word oracle failure.
func (m *Metrics) RecordOracleError(ctx context.Context) {
	m.OracleErrors.Add(ctx, 1)
}
