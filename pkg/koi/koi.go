// Package koi is the public surface for defining templates, extending
// factories, registering capabilities and running methods with scoped hooks.
// Package-level functions operate on a process-wide default engine; programs
// that need isolation build their own with NewEngine.
package koi

import (
	"context"
	"sync"

	"koi/internal/core"
)

// Core type aliases.
type (
	// Engine owns a capability registry and the ambient logger, metrics and tracer.
	Engine = core.Engine
	// Option configures an Engine.
	Option = core.Option
	// Template is the member set a Factory instantiates.
	Template = core.Template
	// Factory produces instances of a frozen template.
	Factory = core.Factory
	// Instance is a live object with its own copy of the template members.
	Instance = core.Instance
	// Members maps member names to values or Methods.
	Members = core.Members
	// Method is a member function bound to an instance.
	Method = core.Method
	// HookSet maps hook names to transient overrides.
	HookSet = core.HookSet
	// HookFunc is a single hook override.
	HookFunc = core.HookFunc
	// HookBuilder binds a hook set to a target before running a method.
	HookBuilder = core.HookBuilder
	// Capability mutates a template at definition time.
	Capability = core.Capability
	// Constructor is anything that produces instances.
	Constructor = core.Constructor
	// ConstructorFunc adapts a function to Constructor.
	ConstructorFunc = core.ConstructorFunc
	// ParentSnapshot is one level of an extension's parent chain.
	ParentSnapshot = core.ParentSnapshot
	// Result is the outcome of a scoped invocation.
	Result = core.Result
	// Registry stores capabilities by tag.
	Registry = core.Registry
	// Plugin registers a bundle of capabilities.
	Plugin = core.Plugin
	// Logger is the structured logger the engine writes to.
	Logger = core.Logger
	// ExtendOption configures Extend.
	ExtendOption = core.ExtendOption
	// NotCallableError reports a member that is not a Method.
	NotCallableError = core.NotCallableError
)

// Reserved names and sentinels.
const (
	IgnoreInit    = core.IgnoreInit
	GlobalTag     = core.GlobalTag
	InitMember    = core.InitMember
	PluginsMember = core.PluginsMember
	ParentMember  = core.ParentMember
)

// Errors.
var (
	ErrMissingContext = core.ErrMissingContext
	ErrMethodPanic    = core.ErrMethodPanic
	ErrNilMethod      = core.ErrNilMethod
	ErrInvalidImport  = core.ErrInvalidImport
	ErrNilConstructor = core.ErrNilConstructor
	ErrNotCallable    = core.ErrNotCallable
)

// Engine options.
var (
	WithRegistry        = core.WithRegistry
	WithLogger          = core.WithLogger
	WithMetricsRecorder = core.WithMetricsRecorder
	WithTracer          = core.WithTracer
	WithClock           = core.WithClock
	NewSlogLogger       = core.NewSlogLogger
	Nest                = core.Nest
)

var (
	defaultMu     sync.RWMutex
	defaultEngine = core.NewEngine()
)

// NewEngine builds an isolated engine.
func NewEngine(opts ...Option) *Engine {
	return core.NewEngine(opts...)
}

// Default returns the process-wide engine used by the package functions.
func Default() *Engine {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultEngine
}

// SetDefault replaces the process-wide engine. A nil engine is ignored.
func SetDefault(e *Engine) {
	if e == nil {
		return
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultEngine = e
}

// Reset installs a fresh default engine with no capabilities registered.
func Reset(opts ...Option) {
	SetDefault(core.NewEngine(opts...))
}

// NewTemplate builds a template from members.
func NewTemplate(members Members) *Template {
	return core.NewTemplate(members)
}

// NewInstance wraps members in a standalone instance, for foreign constructors.
func NewInstance(members Members) *Instance {
	return core.NewInstance(members)
}

// Define freezes members into a factory on the default engine.
func Define(members Members) *Factory {
	return Default().Define(core.NewTemplate(members))
}

// Extend derives a factory from parent on the default engine.
func Extend(ctx context.Context, parent Constructor, overrides Members, opts ...ExtendOption) (*Factory, error) {
	return Default().Extend(ctx, parent, overrides, opts...)
}

// RegisterCapability adds fn under tag and name. An empty tag means GlobalTag.
func RegisterCapability(tag, name string, fn Capability) {
	Default().RegisterCapability(tag, name, fn)
}

// UnregisterCapability removes a capability. Templates already defined keep
// what it added.
func UnregisterCapability(tag, name string) {
	Default().UnregisterCapability(tag, name)
}

// InstallPlugin registers every capability of plugin.
func InstallPlugin(plugin Plugin) error {
	return Default().InstallPlugin(plugin)
}

// InvokeWithHooks runs method on target with hooks armed for that call only.
func InvokeWithHooks(ctx context.Context, hooks HookSet, target *Instance, method Method, args ...any) Result {
	return Default().InvokeWithHooks(ctx, hooks, target, method, args...)
}

// Hook starts a hookBuilder chain: koi.Hook(h).To(target).Run(ctx, m, args...).
func Hook(hooks HookSet) *HookBuilder {
	return Default().Hook(hooks)
}
