package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xavl/lib/infra"
	"github.com/benz9527/xavl/lib/xlog"
	"github.com/benz9527/xavl/observability"
)

const (
	envMetrics         = "XAVL_METRICS"
	envMetricsAddr     = "XAVL_METRICS_ADDR"
	envMetricsInterval = "XAVL_METRICS_INTERVAL"

	// ctxRunID tags every scenario log with the run it belongs to.
	ctxRunID = "xavl.run"
)

type banner struct{}

func (banner) JSON() string {
	return `{"app":"xavl"}`
}

func (banner) PlainText() string {
	return "xavl, self-balancing binary search tree"
}

func newLogger() xlog.XLogger {
	logger := xlog.NewXLogger(
		xlog.WithXLoggerEncoder(xlog.JSON),
		xlog.WithXLoggerWriter(xlog.StdOut),
		xlog.WithXLoggerContextFieldExtract(ctxRunID, "run"),
	)
	logger.Banner(banner{})
	logger.Info("[xavl] logger ready", zap.String("level", logger.Level()))
	return logger
}

func newRunID() string {
	return strconv.FormatInt(time.Now().UnixNano(), 36)
}

// serveMetrics reports whether the process should keep running to
// serve /metrics. Only the prometheus exporter has a handler.
func serveMetrics(logger xlog.XLogger, addr string, exporter *observability.MetricsExporter) bool {
	if addr == "" {
		return false
	}
	if exporter.Handler() == nil {
		logger.Warn("[xavl] metrics address ignored, exporter is not prometheus",
			zap.String("addr", addr),
		)
		return false
	}
	return true
}

type metricsServer struct {
	srv *http.Server
}

func newMetricsExporter(lc fx.Lifecycle, logger xlog.XLogger) (*observability.MetricsExporter, error) {
	typ, err := observability.ParseMetricsExporterType(os.Getenv(envMetrics))
	if err != nil {
		return nil, err
	}
	interval := 10 * time.Second
	if v := os.Getenv(envMetricsInterval); v != "" {
		if interval, err = time.ParseDuration(v); err != nil {
			return nil, infra.WrapErrorStackWithMessage(err, "[xavl] invalid metrics interval")
		}
	}
	exporter, err := observability.NewMetricsExporter(typ, interval)
	if err != nil {
		return nil, err
	}
	if err = observability.InitAppStats("xavl", exporter.MeterProvider()); err != nil {
		logger.Warn("[xavl] app stats disabled", zap.Error(err))
	}

	ms := &metricsServer{}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr, h := os.Getenv(envMetricsAddr), exporter.Handler()
			if addr == "" || h == nil {
				return nil
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", h)
			ms.srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := ms.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error(err, "[xavl] metrics server exited")
				}
			}()
			logger.Info("[xavl] metrics server started", zap.String("addr", addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			var merr error
			if ms.srv != nil {
				merr = multierr.Append(merr, ms.srv.Shutdown(ctx))
			}
			merr = multierr.Append(merr, exporter.Shutdown(ctx))
			return merr
		},
	})
	return exporter, nil
}

func appOptions(logger xlog.XLogger) fx.Option {
	return fx.Options(
		fx.WithLogger(func(logger xlog.XLogger) fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Provide(
			func() xlog.XLogger { return logger },
			newMetricsExporter,
		),
		fx.Invoke(func(lc fx.Lifecycle, logger xlog.XLogger, exporter *observability.MetricsExporter) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return runScenario(
						xlog.ContextWithField(ctx, ctxRunID, newRunID()),
						logger,
						exporter.MeterProvider(),
					)
				},
			})
		}),
	)
}

func main() {
	logger := newLogger()
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Logf(zapcore.InfoLevel, format, args...)
	})); err != nil {
		logger.Error(err, "[xavl] set GOMAXPROCS failed")
	}

	var exporter *observability.MetricsExporter
	app := fx.New(appOptions(logger), fx.Populate(&exporter))
	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		logger.ErrorStack(err, "[xavl] start failed")
		_ = logger.Sync()
		os.Exit(1)
	}

	if serveMetrics(logger, os.Getenv(envMetricsAddr), exporter) {
		// Rotation traces are done, keep the serving phase quiet.
		logger.IncreaseLogLevel(zapcore.InfoLevel)
		<-app.Wait()
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		logger.ErrorStack(err, "[xavl] stop failed")
	}
	_ = logger.Sync()
}
