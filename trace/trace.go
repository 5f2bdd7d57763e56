// Package trace logs messages sent to a class by exchanging a logging
// method in for the original.
//
// Install adds a method named "trace:<selector>" with the same signature as
// the traced one and exchanges it with the selector. The tracing method
// calls the implementation it displaced directly rather than sending a
// message, so traces on a class and its subclass nest instead of finding
// each other. Remove exchanges the two back.
package trace

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pboyd/swizzle"
)

var (
	// ErrInstalled is returned when a selector is already traced.
	ErrInstalled = errors.New("trace already installed")

	// ErrNotInstalled is returned when removing a trace that isn't there.
	ErrNotInstalled = errors.New("trace not installed")
)

const prefix = "trace:"

// TracingSelector returns the selector Install adds for sel.
func TracingSelector(sel swizzle.Selector) swizzle.Selector {
	return prefix + sel
}

type options struct {
	level zapcore.Level
	args  bool
}

// Option configures Install.
type Option func(*options)

// WithLevel sets the level calls are logged at. Calls that return an error
// are always logged at error level. The default is debug.
func WithLevel(level zapcore.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithArguments controls whether message arguments are logged. They are by
// default.
func WithArguments(enabled bool) Option {
	return func(o *options) {
		o.args = enabled
	}
}

type key struct {
	class *swizzle.Class
	sel   swizzle.Selector
}

var (
	mu        sync.Mutex
	installed = map[key]bool{}
)

// Install starts logging every sel message sent to instances of c (and
// subclasses that don't override sel). It returns the tracing selector.
//
// Exchanging sel on c by other means while it's traced confuses Remove.
// A subclass traced while c is traced keeps calling c's tracing method
// after Remove(c, sel), since the exchange copied it down.
func Install(c *swizzle.Class, sel swizzle.Selector, logger *zap.Logger, opts ...Option) (swizzle.Selector, error) {
	o := options{
		level: zapcore.DebugLevel,
		args:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mu.Lock()
	defer mu.Unlock()

	k := key{class: c, sel: sel}
	if installed[k] {
		return "", fmt.Errorf("%w: %s on %s", ErrInstalled, sel, c.Name())
	}

	m, ok := c.InstanceMethod(sel)
	if !ok {
		return "", fmt.Errorf("%w: %s on %s", swizzle.ErrNotFound, sel, c.Name())
	}

	tsel := TracingSelector(sel)
	fn := tracer(m, logger.With(
		zap.String("class", c.Name()),
		zap.Stringer("selector", sel),
	), o)

	// A trace that was installed and removed before leaves its method
	// behind. Replacing it picks up the new logger and options.
	if _, err := c.ReplaceMethod(tsel, fn.Interface()); err != nil {
		return "", err
	}
	if err := c.ExchangeSelector(sel, tsel); err != nil {
		return "", err
	}

	installed[k] = true
	return tsel, nil
}

// Remove stops tracing sel on c.
func Remove(c *swizzle.Class, sel swizzle.Selector) error {
	mu.Lock()
	defer mu.Unlock()

	k := key{class: c, sel: sel}
	if !installed[k] {
		return fmt.Errorf("%w: %s on %s", ErrNotInstalled, sel, c.Name())
	}

	if err := c.ExchangeSelector(sel, TracingSelector(sel)); err != nil {
		return err
	}
	delete(installed, k)
	return nil
}

// Installed reports whether sel is traced on c.
func Installed(c *swizzle.Class, sel swizzle.Selector) bool {
	mu.Lock()
	defer mu.Unlock()
	return installed[key{class: c, sel: sel}]
}

func tracer(m swizzle.Method, logger *zap.Logger, o options) reflect.Value {
	sig := m.Signature()
	orig := reflect.ValueOf(m.Implementation())

	return reflect.MakeFunc(sig, func(in []reflect.Value) []reflect.Value {
		self := in[0].Interface().(*swizzle.Object)

		start := time.Now()
		var out []reflect.Value
		if sig.IsVariadic() {
			out = orig.CallSlice(in)
		} else {
			out = orig.Call(in)
		}

		level := o.level
		fields := []zap.Field{
			zap.Stringer("receiver", self),
			zap.Duration("elapsed", time.Since(start)),
		}
		if o.args {
			fields = append(fields, zap.Any("args", arguments(sig, in[1:])))
		}
		if err := resultError(sig, out); err != nil {
			level = zapcore.ErrorLevel
			fields = append(fields, zap.Error(err))
		}
		if ce := logger.Check(level, "message sent"); ce != nil {
			ce.Write(fields...)
		}

		return out
	})
}

// arguments flattens a variadic parameter so the values log the way they
// were sent.
func arguments(sig reflect.Type, in []reflect.Value) []any {
	args := make([]any, 0, len(in))
	for i, v := range in {
		if sig.IsVariadic() && i == len(in)-1 {
			for j := 0; j < v.Len(); j++ {
				args = append(args, v.Index(j).Interface())
			}
			continue
		}
		args = append(args, v.Interface())
	}
	return args
}

// resultError returns the trailing error result, if sig has one and it's
// set.
func resultError(sig reflect.Type, out []reflect.Value) error {
	n := sig.NumOut()
	if n == 0 || sig.Out(n-1) != reflect.TypeFor[error]() || out[n-1].IsNil() {
		return nil
	}
	return out[n-1].Interface().(error)
}
