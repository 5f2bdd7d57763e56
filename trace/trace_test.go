package trace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pboyd/swizzle"
)

var errEmpty = errors.New("empty message")

func newLoggerClass(t *testing.T) *swizzle.Class {
	t.Helper()

	c := swizzle.NewClass("Logger", nil)
	require.NoError(t, c.AddMethod("write:", func(self *swizzle.Object, msg string) (int, error) {
		if msg == "" {
			return 0, errEmpty
		}
		return len(msg), nil
	}))
	require.NoError(t, c.AddMethod("join:", func(self *swizzle.Object, sep string, parts ...string) string {
		out := ""
		for i, p := range parts {
			if i > 0 {
				out += sep
			}
			out += p
		}
		return out
	}))
	return c
}

func TestInstall(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	core, logs := observer.New(zapcore.DebugLevel)
	c := newLoggerClass(t)
	obj := swizzle.NewObject(c)

	tsel, err := Install(c, "write:", zap.New(core))
	require.NoError(err)
	assert.Equal(swizzle.Selector("trace:write:"), tsel)
	assert.True(Installed(c, "write:"))

	n, err := swizzle.Call[int](obj, "write:", "hello")
	assert.NoError(err)
	assert.Equal(5, n)

	entries := logs.TakeAll()
	require.Len(entries, 1)
	assert.Equal("message sent", entries[0].Message)
	assert.Equal(zapcore.DebugLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.Equal("Logger", fields["class"])
	assert.Equal("write:", fields["selector"])
	assert.Equal(obj.String(), fields["receiver"])
	assert.Equal([]any{"hello"}, fields["args"])
	assert.Contains(fields, "elapsed")

	require.NoError(Remove(c, "write:"))
	assert.False(Installed(c, "write:"))

	n, err = swizzle.Call[int](obj, "write:", "hello")
	assert.NoError(err)
	assert.Equal(5, n)
	assert.Zero(logs.Len())
}

func TestInstall_Error(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zapcore.InfoLevel)
	c := newLoggerClass(t)

	_, err := Install(c, "write:", zap.New(core), WithLevel(zapcore.InfoLevel), WithArguments(false))
	require.NoError(t, err)
	t.Cleanup(func() { Remove(c, "write:") })

	_, err = swizzle.NewObject(c).Send("write:", "")
	assert.ErrorIs(err, errEmpty)

	entries := logs.TakeAll()
	if assert.Len(entries, 1) {
		assert.Equal(zapcore.ErrorLevel, entries[0].Level)
		fields := entries[0].ContextMap()
		assert.Equal(errEmpty.Error(), fields["error"])
		assert.NotContains(fields, "args")
	}
}

func TestInstall_Variadic(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zapcore.DebugLevel)
	c := newLoggerClass(t)

	_, err := Install(c, "join:", zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { Remove(c, "join:") })

	out, err := swizzle.Call[string](swizzle.NewObject(c), "join:", ",", "a", "b", "c")
	assert.NoError(err)
	assert.Equal("a,b,c", out)

	if assert.Equal(1, logs.Len()) {
		assert.Equal([]any{",", "a", "b", "c"}, logs.All()[0].ContextMap()["args"])
	}
}

func TestInstall_LevelFilter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	c := newLoggerClass(t)

	_, err := Install(c, "write:", zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { Remove(c, "write:") })

	_, err = swizzle.NewObject(c).Send("write:", "quiet")
	assert.NoError(t, err)
	assert.Zero(t, logs.Len())
}

func TestInstall_Twice(t *testing.T) {
	assert := assert.New(t)

	c := newLoggerClass(t)

	_, err := Install(c, "write:", nil)
	require.NoError(t, err)

	_, err = Install(c, "write:", nil)
	assert.ErrorIs(err, ErrInstalled)

	assert.NoError(Remove(c, "write:"))
	assert.ErrorIs(Remove(c, "write:"), ErrNotInstalled)

	// Reinstalling replaces the leftover tracing method.
	core, logs := observer.New(zapcore.DebugLevel)
	_, err = Install(c, "write:", zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { Remove(c, "write:") })

	_, err = swizzle.NewObject(c).Send("write:", "again")
	assert.NoError(err)
	assert.Equal(1, logs.Len())
}

func TestInstall_NotFound(t *testing.T) {
	c := newLoggerClass(t)

	_, err := Install(c, "missing:", nil)
	assert.ErrorIs(t, err, swizzle.ErrNotFound)
	assert.False(t, Installed(c, "missing:"))
	assert.False(t, c.RespondsTo("trace:missing:"))
}

func TestInstall_Inherited(t *testing.T) {
	assert := assert.New(t)

	core, logs := observer.New(zapcore.DebugLevel)
	base := newLoggerClass(t)
	sub := swizzle.NewClass("FileLogger", base)

	_, err := Install(sub, "write:", zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { Remove(sub, "write:") })

	_, err = swizzle.NewObject(base).Send("write:", "base")
	assert.NoError(err)
	assert.Zero(logs.Len())

	_, err = swizzle.NewObject(sub).Send("write:", "sub")
	assert.NoError(err)
	if assert.Equal(1, logs.Len()) {
		assert.Equal("FileLogger", logs.All()[0].ContextMap()["class"])
	}
}

func TestInstall_SubclassOfTraced(t *testing.T) {
	cases := map[string]struct {
		order []string
		base  int
		sub   int
	}{
		"superclass first": {
			order: []string{"Logger", "FileLogger"},
			base:  1,
			sub:   2,
		},
		// The subclass copied down the untraced method before the
		// superclass was traced.
		"subclass first": {
			order: []string{"FileLogger", "Logger"},
			base:  1,
			sub:   1,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			core, logs := observer.New(zapcore.DebugLevel)
			base := newLoggerClass(t)
			sub := swizzle.NewClass("FileLogger", base)
			classes := map[string]*swizzle.Class{"Logger": base, "FileLogger": sub}

			for _, cname := range tc.order {
				_, err := Install(classes[cname], "write:", zap.New(core))
				require.NoError(t, err)
			}

			n, err := swizzle.Call[int](swizzle.NewObject(sub), "write:", "hi")
			assert.NoError(err)
			assert.Equal(2, n)
			entries := logs.TakeAll()
			if assert.Len(entries, tc.sub) {
				assert.Equal("FileLogger", entries[len(entries)-1].ContextMap()["class"])
			}

			n, err = swizzle.Call[int](swizzle.NewObject(base), "write:", "hello")
			assert.NoError(err)
			assert.Equal(5, n)
			entries = logs.TakeAll()
			if assert.Len(entries, tc.base) {
				assert.Equal("Logger", entries[0].ContextMap()["class"])
			}

			_, err = swizzle.NewObject(sub).Send("write:", "")
			assert.ErrorIs(err, errEmpty)
			assert.Equal(tc.sub, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
		})
	}
}
