package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger forwards the fx lifecycle events to the XLogger
// under the "Fx" component name.
type FxXLogger struct {
	logger XLogger
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.logger.Debug("HOOK OnStart executing",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStartExecuted:
		fields := []zap.Field{
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
			zap.Duration("in", e.Runtime),
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "HOOK OnStart failed", fields...)
			return
		}
		l.logger.Debug("HOOK OnStart executed", fields...)
	case *fxevent.OnStopExecuting:
		l.logger.Info("HOOK OnStop executing",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStopExecuted:
		fields := []zap.Field{
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
			zap.Duration("in", e.Runtime),
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "HOOK OnStop failed", fields...)
			return
		}
		l.logger.Info("HOOK OnStop executed", fields...)
	case *fxevent.Supplied:
		if e.Err != nil {
			l.logger.Error(e.Err, "SUPPLY failed",
				zap.String("type", e.TypeName),
				zap.Strings("stacktrace", e.StackTrace),
			)
			return
		}
		l.logger.Debug("SUPPLY",
			zap.String("type", e.TypeName),
			moduleField(e.ModuleName),
		)
	case *fxevent.Provided:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("PROVIDE",
				zap.Bool("private", e.Private),
				zap.String("rtype", rtype),
				zap.String("constructor", e.ConstructorName),
				moduleField(e.ModuleName),
			)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "PROVIDE failed",
				zap.Strings("stacktrace", e.StackTrace),
			)
		}
	case *fxevent.Replaced:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("REPLACE",
				zap.String("rtype", rtype),
				moduleField(e.ModuleName),
			)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "REPLACE failed",
				zap.Strings("stacktrace", e.StackTrace),
			)
		}
	case *fxevent.Decorated:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("DECORATE",
				zap.String("rtype", rtype),
				zap.String("decorator", e.DecoratorName),
				moduleField(e.ModuleName),
			)
		}
		if e.Err != nil {
			l.logger.Error(e.Err, "DECORATE failed",
				zap.Strings("stacktrace", e.StackTrace),
			)
		}
	case *fxevent.Invoking:
		l.logger.Debug("INVOKING",
			zap.String("function", e.FunctionName),
			moduleField(e.ModuleName),
		)
	case *fxevent.Invoked:
		if e.Err != nil {
			l.logger.Error(e.Err, "INVOKE failed",
				zap.String("function", e.FunctionName),
				zap.String("trace", e.Trace),
			)
		}
	case *fxevent.Stopping:
		l.logger.Info("STOPPING", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		if e.Err != nil {
			l.logger.Error(e.Err, "STOP failed")
		}
	case *fxevent.RollingBack:
		l.logger.Warn("START failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		if e.Err != nil {
			l.logger.Error(e.Err, "ROLLBACK failed")
		}
	case *fxevent.Started:
		if e.Err != nil {
			l.logger.Error(e.Err, "START failed")
			return
		}
		l.logger.Debug("RUNNING")
	case *fxevent.LoggerInitialized:
		if e.Err != nil {
			l.logger.Error(e.Err, "LOGGER initialize failed")
			return
		}
		l.logger.Debug("LOGGER initialized", zap.String("constructor", e.ConstructorName))
	default:
	}
}

func moduleField(name string) zap.Field {
	if name == "" {
		return zap.Skip()
	}
	return zap.String("module", name)
}

// NewFxXLogger derives a component logger sharing the level and
// the writer of the parent one.
func NewFxXLogger(logger XLogger) *FxXLogger {
	l := &xLogger{}
	if xl, ok := logger.(*xLogger); ok && xl != nil {
		l.core, l.encoder, l.ctxFields, l.dynamicLevelEnabler = xl.core, xl.encoder, xl.ctxFields, xl.dynamicLevelEnabler
	}
	l.logger.Store(logger.
		zap().
		Named("Fx").
		WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			if core == nil {
				panic("[XLogger] core is nil")
			}
			cc, ok := core.(XLogCore)
			if !ok {
				panic("[XLogger] core is not XLogCore")
			}
			wrapped, err := WrapCore(cc, componentCoreEncoderCfg)
			if err != nil {
				panic(err)
			}
			return wrapped
		})),
	)
	return &FxXLogger{logger: l}
}
