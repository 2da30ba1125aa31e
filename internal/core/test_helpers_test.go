package core

import (
	"context"
	"strings"
	"time"
)

type captureLogger struct{ calls []string }

func (c *captureLogger) Debug(msg string, _ ...any) { c.calls = append(c.calls, "d:"+msg) }
func (c *captureLogger) Info(msg string, _ ...any)  { c.calls = append(c.calls, "i:"+msg) }
func (c *captureLogger) Warn(msg string, _ ...any)  { c.calls = append(c.calls, "w:"+msg) }
func (c *captureLogger) Error(msg string, _ ...any) { c.calls = append(c.calls, "e:"+msg) }

func (c *captureLogger) has(entry string) bool {
	for _, call := range c.calls {
		if call == entry {
			return true
		}
	}
	return false
}

type metricsCall struct {
	op       string
	success  bool
	duration time.Duration
}

type captureMetricsRecorder struct {
	calls []metricsCall
}

func (c *captureMetricsRecorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	c.calls = append(c.calls, metricsCall{op: op, success: success, duration: duration})
}

func (c *captureMetricsRecorder) has(op string, success bool) bool {
	for _, call := range c.calls {
		if call.op == op && call.success == success {
			return true
		}
	}
	return false
}

type spanRecord struct {
	op  string
	err error
}

type captureTracer struct {
	started []string
	ended   []spanRecord
}

func (c *captureTracer) Start(ctx context.Context, op string) (context.Context, TraceSpan) {
	c.started = append(c.started, op)
	return ctx, &captureSpan{tracer: c, op: op}
}

type captureSpan struct {
	tracer *captureTracer
	op     string
}

func (s *captureSpan) End(err error) {
	s.tracer.ended = append(s.tracer.ended, spanRecord{op: s.op, err: err})
}

type stubClock struct{ t time.Time }

func (s *stubClock) Now() time.Time {
	s.t = s.t.Add(time.Millisecond)
	return s.t
}

// colorTemplate mirrors the hook fixtures: testHooks falls back to its argument
// and testMultipleHooks chains two hooks.
func colorTemplate() *Template {
	return NewTemplate(Members{
		"testHooks": Method(func(ctx context.Context, self *Instance, args ...any) (any, error) {
			color := args[0].(string)
			return self.HookOr(ctx, "color", color, color)
		}),
		"testMultipleHooks": Method(func(ctx context.Context, self *Instance, args ...any) (any, error) {
			color := args[0].(string)
			c, err := self.HookOr(ctx, "color", color, color)
			if err != nil {
				return nil, err
			}
			return self.HookOr(ctx, "color2", c, c)
		}),
	})
}

func upper(_ context.Context, _ *Instance, args ...any) (any, error) {
	return strings.ToUpper(args[0].(string)), nil
}

func lowerWithSuffix(_ context.Context, _ *Instance, args ...any) (any, error) {
	return strings.ToLower(args[0].(string)) + "2", nil
}

func appendTwo(_ context.Context, _ *Instance, args ...any) (any, error) {
	return args[0].(string) + "2", nil
}

func mustNew(t interface{ Fatalf(string, ...any) }, f *Factory, args ...any) *Instance {
	inst, err := f.New(context.Background(), args...)
	if err != nil {
		t.Fatalf("new instance: %v", err)
	}
	return inst
}
