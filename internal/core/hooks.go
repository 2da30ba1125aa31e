package core

import (
	"context"
	"fmt"
	"sync/atomic"

	"koi/pkg/clone"
)

// hookScope is the hook table of one scoped invocation. It lives in the
// context handed to the invoked method and is disarmed when the invocation
// returns, so a context kept past the call no longer resolves hooks.
type hookScope struct {
	target *Instance
	hooks  HookSet
	armed  atomic.Bool
	outer  *hookScope
}

type hookScopeKey struct{}

func scopeFrom(ctx context.Context) *hookScope {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(hookScopeKey{}).(*hookScope)
	return s
}

// lookupHook finds the innermost armed hook named name for self.
func lookupHook(ctx context.Context, self *Instance, name string) HookFunc {
	for s := scopeFrom(ctx); s != nil; s = s.outer {
		if s.target != self || !s.armed.Load() {
			continue
		}
		if fn := s.hooks[name]; fn != nil {
			return fn
		}
		return nil
	}
	return nil
}

// Hook runs the hook name armed for this instance in ctx. With no such hook it
// returns nil and no error.
func (i *Instance) Hook(ctx context.Context, name string, args ...any) (any, error) {
	fn := lookupHook(ctx, i, name)
	if fn == nil {
		return nil, nil
	}
	return fn(ctx, i, args...)
}

// HookOr is Hook with a fallback used when no hook answered with a value.
func (i *Instance) HookOr(ctx context.Context, name string, fallback any, args ...any) (any, error) {
	v, err := i.Hook(ctx, name, args...)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return fallback, nil
	}
	return v, nil
}

func installableHooks(hooks HookSet) HookSet {
	out, _ := clone.Value(hooks).(HookSet)
	for name, fn := range out {
		if fn == nil {
			delete(out, name)
		}
	}
	return out
}

// InvokeWithHooks arms hooks for target, calls method bound to target and
// disarms the hooks again whatever the outcome. Errors and panics raised by
// method are captured in the Result instead of being propagated.
func (e *Engine) InvokeWithHooks(ctx context.Context, hooks HookSet, target *Instance, method Method, args ...any) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	var res Result
	_ = e.observe(ctx, "invoke_with_hooks", func(ctx context.Context) error {
		res = e.invoke(ctx, hooks, target, method, args)
		return res.Err
	})
	return res
}

func (e *Engine) invoke(ctx context.Context, hooks HookSet, target *Instance, method Method, args []any) (res Result) {
	if target == nil {
		return Result{Err: ErrMissingContext}
	}
	if method == nil {
		return Result{Err: ErrNilMethod}
	}
	scope := &hookScope{target: target, hooks: installableHooks(hooks), outer: scopeFrom(ctx)}
	scope.armed.Store(true)
	defer scope.armed.Store(false)
	defer func() {
		if r := recover(); r != nil {
			e.logger.Debug("scoped invocation panicked", "instance", target.ID(), "panic", r)
			res = Result{Err: fmt.Errorf("%w: %v", ErrMethodPanic, r)}
		}
	}()

	v, err := method(context.WithValue(ctx, hookScopeKey{}, scope), target, args...)
	if err != nil {
		e.logger.Debug("scoped invocation failed", "instance", target.ID(), "error", err)
		return Result{Err: err}
	}
	return Result{Value: v}
}

// HookBuilder binds a hook set to a target before running a method.
type HookBuilder struct {
	engine *Engine
	hooks  HookSet
	target *Instance
}

// Hook starts a scoped invocation. The hook set is copied immediately.
func (e *Engine) Hook(hooks HookSet) *HookBuilder {
	return &HookBuilder{engine: e, hooks: installableHooks(hooks)}
}

// To records the target instance.
func (b *HookBuilder) To(target *Instance) *HookBuilder {
	b.target = target
	return b
}

// Run invokes method on the bound target with the hook set armed. It fails with
// ErrMissingContext when To was never given a target; every other failure is
// reported through the Result.
func (b *HookBuilder) Run(ctx context.Context, method Method, args ...any) (Result, error) {
	if b.target == nil {
		b.engine.logger.Warn("hook run without target", "hooks", len(b.hooks))
		return Result{Err: ErrMissingContext}, ErrMissingContext
	}
	return b.engine.InvokeWithHooks(ctx, b.hooks, b.target, method, args...), nil
}
