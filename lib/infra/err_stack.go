package infra

import (
	"errors"
	"fmt"
	"io"
	"path"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// References:
// https://github.com/pkg/errors/blob/master/stack.go

type Frame uintptr

func (frame Frame) pc() uintptr {
	return uintptr(frame) - 1
}

func (frame Frame) fileLine() (string, int) {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return "unknownFile", 0
	}
	return fn.FileLine(frame.pc())
}

func (frame Frame) name() string {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return "unknownFunc"
	}
	return fn.Name()
}

// Format characters:
// %s - source file
// %d - source line
// %n - function name
// %v - equivalent to %s:%d
// %+s - function name and full path separated by \n\t
// %+v - equivalent to %+s:%d
func (frame Frame) Format(s fmt.State, verb rune) {
	file, line := frame.fileLine()
	switch verb {
	case 's':
		if s.Flag('+') {
			_, _ = io.WriteString(s, frame.name())
			_, _ = io.WriteString(s, "\n\t")
			_, _ = io.WriteString(s, file)
		} else {
			_, _ = io.WriteString(s, path.Base(file))
		}
	case 'd':
		_, _ = io.WriteString(s, strconv.Itoa(line))
	case 'n':
		_, _ = io.WriteString(s, funcName(frame.name()))
	case 'v':
		frame.Format(s, 's')
		_, _ = io.WriteString(s, ":")
		frame.Format(s, 'd')
	}
}

func (frame Frame) MarshalText() ([]byte, error) {
	name := frame.name()
	if name == "unknownFunc" {
		return []byte("unknownFrame"), nil
	}
	file, line := frame.fileLine()
	builder := strings.Builder{}
	_, _ = builder.WriteString(name)
	_, _ = builder.WriteString(" ")
	_, _ = builder.WriteString(file)
	_, _ = builder.WriteString(":")
	_, _ = builder.WriteString(strconv.Itoa(line))
	return []byte(builder.String()), nil
}

func funcName(name string) string {
	i := strings.LastIndex(name, "/")
	name = name[i+1:]
	i = strings.Index(name, ".")
	return name[i+1:]
}

// callerFrame returns the frame of the function calling the
// error stack constructor.
func callerFrame() Frame {
	var pcs [1]uintptr
	// runtime.Callers, callerFrame, constructor, caller.
	if n := runtime.Callers(3, pcs[:]); n <= 0 {
		return Frame(0)
	}
	return Frame(pcs[0])
}

// ErrorStack records where an error was raised. It can be
// inlined into zap fields so the log aggregator receives
// the error chain in structured form.
type ErrorStack interface {
	error
	Unwrap() error
	zapcore.ObjectMarshaler
}

var _ ErrorStack = (*errorStack)(nil)

type errorStack struct {
	err   error
	msg   string
	frame Frame
}

func (es *errorStack) Error() string {
	if es.err == nil {
		return es.msg
	}
	if len(es.msg) == 0 {
		return es.err.Error()
	}
	return es.msg + ": " + es.err.Error()
}

func (es *errorStack) Unwrap() error {
	return es.err
}

func (es *errorStack) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("error", es.Error())
	at, _ := es.frame.MarshalText()
	enc.AddByteString("errorAt", at)
	if es.err == nil {
		return nil
	}
	var cause ErrorStack
	if errors.As(es.err, &cause) {
		return enc.AddObject("cause", cause)
	}
	if errs := multierr.Errors(es.err); len(errs) > 1 {
		return enc.AddArray("causes", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
			for _, err := range errs {
				arr.AppendString(err.Error())
			}
			return nil
		}))
	}
	return nil
}

func NewErrorStack(msg string) error {
	return &errorStack{
		msg:   msg,
		frame: callerFrame(),
	}
}

func WrapErrorStack(err error) error {
	if err == nil {
		return nil
	}
	return &errorStack{
		err:   err,
		frame: callerFrame(),
	}
}

func WrapErrorStackWithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &errorStack{
		err:   err,
		msg:   msg,
		frame: callerFrame(),
	}
}
