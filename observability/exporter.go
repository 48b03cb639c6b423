package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"net/http"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/benz9527/xavl/lib/infra"
)

type MetricsExporterType string

const (
	ConsoleMetricsExporter    MetricsExporterType = "stdout"
	PrometheusMetricsExporter MetricsExporterType = "prometheus"
	NoopMetricsExporter       MetricsExporterType = "none"
)

// ParseMetricsExporterType maps an empty value to none.
func ParseMetricsExporterType(typ string) (MetricsExporterType, error) {
	switch t := MetricsExporterType(strings.ToLower(strings.TrimSpace(typ))); t {
	case "", NoopMetricsExporter:
		return NoopMetricsExporter, nil
	case ConsoleMetricsExporter, PrometheusMetricsExporter:
		return t, nil
	default:
	}
	return NoopMetricsExporter, infra.NewErrorStack("[observability] unsupported metrics exporter " + typ)
}

// MetricsExporter owns the meter provider installed as the global one.
type MetricsExporter struct {
	mp       metric.MeterProvider
	registry *promclient.Registry
	shutdown func(ctx context.Context) error
}

func (e *MetricsExporter) MeterProvider() metric.MeterProvider {
	return e.mp
}

// Handler serves the prometheus scrape endpoint, it is nil for
// the other exporters.
func (e *MetricsExporter) Handler() http.Handler {
	if e == nil || e.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{MaxRequestsInFlight: 1})
}

func (e *MetricsExporter) Shutdown(ctx context.Context) error {
	if e == nil || e.shutdown == nil {
		return nil
	}
	return e.shutdown(ctx)
}

func NewMetricsExporter(typ MetricsExporterType, interval time.Duration) (*MetricsExporter, error) {
	var (
		e   *MetricsExporter
		err error
	)
	switch typ {
	case ConsoleMetricsExporter:
		e, err = newConsoleMetricsExporter(interval, interval)
	case PrometheusMetricsExporter:
		e, err = newPrometheusMetricsExporter()
	case NoopMetricsExporter:
		e = &MetricsExporter{mp: noop.NewMeterProvider()}
	default:
		err = infra.NewErrorStack("[observability] unsupported metrics exporter " + string(typ))
	}
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(e.mp)
	return e, nil
}

// Serves for test/dev environment.
func newConsoleMetricsExporter(interval, timeout time.Duration, opts ...stdoutmetric.Option) (*MetricsExporter, error) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if timeout <= 0 {
		timeout = interval
	}
	exporter, err := stdoutmetric.New(opts...)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] create stdout exporter")
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
			exporter,
			sdkmetric.WithInterval(interval),
			sdkmetric.WithTimeout(timeout),
		)),
		sdkmetric.WithView(rebalanceDepthView()),
	)
	return &MetricsExporter{mp: mp, shutdown: mp.Shutdown}, nil
}

// Serves for the product environment and fetch stats metrics by HTTP.
func newPrometheusMetricsExporter() (*MetricsExporter, error) {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[observability] create prometheus exporter")
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithView(rebalanceDepthView()),
	)
	return &MetricsExporter{mp: mp, registry: registry, shutdown: mp.Shutdown}, nil
}

// Rotations happen close to the leaves, tree depth rarely exceeds 64.
func rebalanceDepthView() sdkmetric.View {
	return sdkmetric.NewView(
		sdkmetric.Instrument{
			Name: "xavl.tree.rebalance.depth",
		},
		sdkmetric.Stream{
			Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
				Boundaries: []float64{0, 1, 2, 4, 8, 16, 32, 64},
			},
		},
	)
}
