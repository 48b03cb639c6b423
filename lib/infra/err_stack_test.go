package infra

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

var initPC = caller()

func caller() Frame {
	var PCs [3]uintptr
	n := runtime.Callers(2, PCs[:])
	frames := runtime.CallersFrames(PCs[:n])
	frame, _ := frames.Next()
	return Frame(frame.PC)
}

func TestFrameFormat(t *testing.T) {
	testcases := []struct {
		Frame
		format string
		want   string
	}{
		{initPC, "%s", "err_stack_test.go"},
		{initPC, "%n", "init"},
		{Frame(0), "%s", "unknownFile"},
		{Frame(0), "%n", "unknownFunc"},
		{Frame(0), "%d", "0"},
		{Frame(0), "%v", "unknownFile:0"},
	}

	for _, tc := range testcases {
		require.Equal(t, tc.want, fmt.Sprintf(tc.format, tc.Frame))
	}

	full := fmt.Sprintf("%+s", initPC)
	require.True(t, strings.HasPrefix(full, "github.com/benz9527/xavl/lib/infra.init\n\t"))
	require.True(t, strings.HasSuffix(full, "err_stack_test.go"))
	require.True(t, strings.HasPrefix(fmt.Sprintf("%v", initPC), "err_stack_test.go:"))
}

func TestFrameMarshalText(t *testing.T) {
	bytes, err := initPC.MarshalText()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(bytes), "github.com/benz9527/xavl/lib/infra.init "))

	bytes, err = Frame(0).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "unknownFrame", string(bytes))
}

func TestNewErrorStack(t *testing.T) {
	err := NewErrorStack("tree is broken")
	require.EqualError(t, err, "tree is broken")

	var es *errorStack
	require.True(t, errors.As(err, &es))
	require.Equal(t, "TestNewErrorStack", fmt.Sprintf("%n", es.frame))
	require.Equal(t, "err_stack_test.go", fmt.Sprintf("%s", es.frame))
	require.Nil(t, es.Unwrap())
}

func TestWrapErrorStack(t *testing.T) {
	require.Nil(t, WrapErrorStack(nil))
	require.Nil(t, WrapErrorStackWithMessage(nil, "ignored"))

	base := errors.New("base")
	err := WrapErrorStack(base)
	require.EqualError(t, err, "base")
	require.ErrorIs(t, err, base)

	err = WrapErrorStackWithMessage(err, "outer")
	require.EqualError(t, err, "outer: base")
	require.ErrorIs(t, err, base)
}

func TestErrorStackMarshalLogObject(t *testing.T) {
	enc := zapcore.NewMapObjectEncoder()
	err := WrapErrorStackWithMessage(NewErrorStack("inner"), "outer")
	require.NoError(t, err.(ErrorStack).MarshalLogObject(enc))
	require.Equal(t, "outer: inner", enc.Fields["error"])
	require.Contains(t, enc.Fields, "errorAt")
	cause, ok := enc.Fields["cause"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "inner", cause["error"])

	enc = zapcore.NewMapObjectEncoder()
	merr := multierr.Combine(errors.New("e1"), errors.New("e2"))
	err = WrapErrorStackWithMessage(merr, "many")
	require.NoError(t, err.(ErrorStack).MarshalLogObject(enc))
	require.Equal(t, []any{"e1", "e2"}, enc.Fields["causes"])
}
