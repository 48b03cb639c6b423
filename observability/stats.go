package observability

import (
	"context"
	"runtime"
	"strings"
	"sync"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/metric"

	"github.com/benz9527/xavl/lib/infra"
)

const (
	AppStatsName = "xavl/app"
)

var (
	once sync.Once
	app  *appStats
)

type appStats struct {
	goroutines metric.Int64ObservableUpDownCounter
	processes  metric.Int64ObservableUpDownCounter
}

// InitAppStats registers the process level instruments (goroutines,
// GOMAXPROCS and the otel runtime metrics) once per process.
func InitAppStats(name string, provider metric.MeterProvider) (err error) {
	if provider == nil {
		return infra.NewErrorStack("[observability] empty meter provider")
	}
	once.Do(func() {
		builder := &strings.Builder{}
		builder.WriteString(AppStatsName)
		builder.WriteString("/")
		if len(strings.TrimSpace(name)) > 0 {
			builder.WriteString(name)
		} else {
			builder.WriteString("default")
		}
		meter := provider.Meter(
			builder.String(),
			metric.WithInstrumentationVersion(otelruntime.Version()),
		)
		app = &appStats{
			goroutines: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
				"xavl.app.goroutines",
				metric.WithDescription(`The application goroutines' info.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.NumGoroutine()))
					return nil
				}),
			)),
			processes: lo.Must[metric.Int64ObservableUpDownCounter](meter.Int64ObservableUpDownCounter(
				"xavl.app.processes",
				metric.WithDescription(`The application GOMAXPROCS.`),
				metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
					ob.Observe(int64(runtime.GOMAXPROCS(0)))
					return nil
				}),
			)),
		}
		if rerr := otelruntime.Start(otelruntime.WithMeterProvider(provider)); rerr != nil {
			err = infra.WrapErrorStackWithMessage(rerr, "[observability] start runtime stats")
		}
	})
	return err
}
