package xlog

import (
	"go.uber.org/zap/zapcore"
)

var _ XLogCore = (*consoleCore)(nil)

type consoleCore struct {
	*commonCore
}

func newConsoleCore(
	lvlEnabler zapcore.LevelEnabler,
	encoder LogEncoderType,
	ws zapcore.WriteSyncer,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) XLogCore {
	if lvlEnabler == nil {
		lvlEnabler = zapcore.DebugLevel
	}
	if ws == nil {
		ws = getOutWriterByType(StdOut)
	}
	cfg := zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   lvlEnc,
		TimeKey:       "ts",
		EncodeTime:    tsEnc,
		CallerKey:     "callAt",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		FunctionKey:   "fn",
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
	enc := getEncoderByType(encoder)
	return &consoleCore{
		commonCore: &commonCore{
			lvlEnabler: lvlEnabler,
			lvlEnc:     lvlEnc,
			tsEnc:      tsEnc,
			ws:         ws,
			enc:        enc,
			core:       zapcore.NewCore(enc(cfg), ws, lvlEnabler),
		},
	}
}
