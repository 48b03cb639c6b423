package xlog

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

var zapLevels = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// zapLevel falls back to debug for unknown levels.
func (lvl LogLevel) zapLevel() zapcore.Level {
	if l, ok := zapLevels[lvl]; ok {
		return l
	}
	return zapcore.DebugLevel
}

func (lvl LogLevel) String() string {
	return string(lvl)
}

// getLogLevelOrDefault parses the XLOG_LVL value, case and spaces
// ignored.
func getLogLevelOrDefault(level string) zapcore.Level {
	return LogLevel(strings.ToUpper(strings.TrimSpace(level))).zapLevel()
}

type LogEncoderType uint8

const (
	JSON LogEncoderType = iota
	PlainText
	_encMax
)

// Indexed by LogEncoderType.
var encoders = [_encMax]func(cfg zapcore.EncoderConfig) zapcore.Encoder{
	JSON:      zapcore.NewJSONEncoder,
	PlainText: zapcore.NewConsoleEncoder,
}

func getEncoderByType(typ LogEncoderType) func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	if typ >= _encMax {
		return zapcore.NewJSONEncoder
	}
	return encoders[typ]
}

type LogOutWriterType uint8

const (
	StdOut LogOutWriterType = iota
	testMemAsOut
	_writerMax
)

// testMemAsOut is registered by tests only.
var writerMap = map[LogOutWriterType]zapcore.WriteSyncer{
	StdOut: &zapcore.BufferedWriteSyncer{
		WS:            os.Stdout,
		Size:          512 * 1024,
		FlushInterval: 30 * time.Second,
	},
}

func getOutWriterByType(typ LogOutWriterType) zapcore.WriteSyncer {
	if out, ok := writerMap[typ]; ok {
		return out
	}
	return zapcore.Lock(os.Stdout)
}

const (
	// ContextKeyMapToOmitempty drops the context field from the log.
	ContextKeyMapToOmitempty = "_"
	// ContextKeyMapToItself logs the context field under its own key.
	ContextKeyMapToItself = ""
	coreKeyIgnored        = ""
)
