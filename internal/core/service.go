package core

import (
	"context"
)

// Engine defines templates, extends factories and runs scoped hook
// invocations against a capability registry.
type Engine struct {
	registry *Registry
	logger   Logger
	metrics  MetricsRecorder
	tracer   Tracer
	clock    Clock
}

// Option customises an Engine.
type Option func(*Engine)

// WithRegistry shares an existing capability registry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetricsRecorder sets the metrics sink.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithTracer sets the tracer.
func WithTracer(t Tracer) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithClock overrides the clock used to time operations.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// NewEngine constructs an engine with its own registry unless WithRegistry is
// supplied.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		registry: NewRegistry(),
		logger:   noopLogger{},
		metrics:  noopMetrics{},
		tracer:   noopTracer{},
		clock:    systemClock{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Registry returns the capability registry consulted by Define.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Logger returns the engine logger.
func (e *Engine) Logger() Logger {
	return e.logger
}

// RegisterCapability stores fn under (tag, name); an empty tag means GlobalTag.
func (e *Engine) RegisterCapability(tag, name string, fn Capability) {
	e.registry.Register(tag, name, fn)
	e.logger.Debug("capability registered", "tag", normalizeTag(tag), "name", name)
}

// UnregisterCapability removes (tag, name) if present.
func (e *Engine) UnregisterCapability(tag, name string) {
	e.registry.Unregister(tag, name)
	e.logger.Debug("capability unregistered", "tag", normalizeTag(tag), "name", name)
}

// InstallPlugin registers every capability the plugin contributes.
func (e *Engine) InstallPlugin(plugin Plugin) error {
	if plugin == nil {
		return nil
	}
	if err := e.registry.Install(plugin); err != nil {
		e.logger.Error("plugin install failed", "plugin", plugin.Name(), "error", err)
		return err
	}
	e.logger.Info("plugin installed", "plugin", plugin.Name())
	return nil
}

// observe runs fn inside a span and reports its outcome to the metrics sink.
func (e *Engine) observe(ctx context.Context, operation string, fn func(context.Context) error) error {
	start := e.clock.Now()
	spanCtx, span := e.tracer.Start(ctx, operation)
	err := fn(spanCtx)
	span.End(err)
	e.metrics.Observe(spanCtx, operation, err == nil, e.clock.Now().Sub(start))
	return err
}
