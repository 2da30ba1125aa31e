package core

import (
	"context"
	"errors"
	"testing"
)

func TestHooksAreAvailableAndIdle(t *testing.T) {
	engine := NewEngine()
	k1 := mustNew(t, engine.Define(colorTemplate()))
	v, err := k1.Hook(context.Background(), "color", "red")
	if err != nil || v != nil {
		t.Fatalf("expected no-hook sentinel, got %v (%v)", v, err)
	}
	var nilCtx context.Context
	if v, _ := k1.Hook(nilCtx, "color"); v != nil {
		t.Fatalf("expected nil context to resolve no hook")
	}
}

func TestInvokeWithHooks(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine()
	k1 := mustNew(t, engine.Define(colorTemplate()))
	testHooks, _ := k1.Method("testHooks")

	res := engine.InvokeWithHooks(ctx, HookSet{"color": upper}, k1, testHooks, "red")
	if !res.OK() || res.Value != "RED" {
		t.Fatalf("expected RED, got %#v", res)
	}

	multi, _ := k1.Method("testMultipleHooks")
	res = engine.InvokeWithHooks(ctx, HookSet{"color": upper, "color2": appendTwo}, k1, multi, "red")
	if res.Value != "RED2" {
		t.Fatalf("expected RED2, got %#v", res)
	}
}

func TestHooksAreDestroyedAfterEachUse(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine()
	k1 := mustNew(t, engine.Define(colorTemplate()))
	testHooks, _ := k1.Method("testHooks")

	var leaked context.Context
	capture := Method(func(ctx context.Context, self *Instance, args ...any) (any, error) {
		leaked = ctx
		return testHooks(ctx, self, args...)
	})
	if res := engine.InvokeWithHooks(ctx, HookSet{"color": upper}, k1, capture, "red"); res.Value != "RED" {
		t.Fatalf("expected RED inside scope, got %#v", res)
	}

	v, err := k1.Call(ctx, "testHooks", "blue")
	if err != nil || v != "blue" {
		t.Fatalf("expected default behaviour after scope, got %v (%v)", v, err)
	}
	if v, _ := k1.Hook(leaked, "color", "green"); v != nil {
		t.Fatalf("expected scope kept past the call to be disarmed, got %v", v)
	}
}

func TestHooksAreScopedToTarget(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine()
	k := engine.Define(colorTemplate())
	target := mustNew(t, k)
	other := mustNew(t, k)

	method := Method(func(ctx context.Context, self *Instance, _ ...any) (any, error) {
		return other.Call(ctx, "testHooks", "red")
	})
	res := engine.InvokeWithHooks(ctx, HookSet{"color": upper}, target, method)
	if res.Value != "red" {
		t.Fatalf("expected hooks not to reach other instances, got %#v", res)
	}
}

func TestNestedScopesRestoreOuterHooks(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine()
	k1 := mustNew(t, engine.Define(colorTemplate()))
	testHooks, _ := k1.Method("testHooks")

	outer := Method(func(ctx context.Context, self *Instance, _ ...any) (any, error) {
		inner := engine.InvokeWithHooks(ctx, HookSet{"color": lowerWithSuffix}, self, testHooks, "RED")
		after, err := testHooks(ctx, self, "red")
		if err != nil {
			return nil, err
		}
		return []any{inner.Value, after}, nil
	})
	res := engine.InvokeWithHooks(ctx, HookSet{"color": upper}, k1, outer)
	got := res.Value.([]any)
	if got[0] != "red2" || got[1] != "RED" {
		t.Fatalf("expected inner red2 and outer RED, got %v", got)
	}
}

func TestInvokeWithHooksCapturesFailures(t *testing.T) {
	ctx := context.Background()
	log := &captureLogger{}
	engine := NewEngine(WithLogger(log))
	k1 := mustNew(t, engine.Define(colorTemplate()))

	boom := errors.New("boom")
	failing := Method(func(context.Context, *Instance, ...any) (any, error) { return "partial", boom })
	res := engine.InvokeWithHooks(ctx, HookSet{"color": upper}, k1, failing)
	if res.OK() || !errors.Is(res.Err, boom) || res.Value != nil {
		t.Fatalf("expected captured error, got %#v", res)
	}

	panicking := Method(func(context.Context, *Instance, ...any) (any, error) { panic("kaboom") })
	res = engine.InvokeWithHooks(ctx, HookSet{"color": upper}, k1, panicking)
	if !errors.Is(res.Err, ErrMethodPanic) {
		t.Fatalf("expected ErrMethodPanic, got %#v", res)
	}
	if v, _ := k1.Call(ctx, "testHooks", "blue"); v != "blue" {
		t.Fatalf("expected hooks cleared after panic, got %v", v)
	}

	if res := engine.InvokeWithHooks(ctx, nil, k1, nil); !errors.Is(res.Err, ErrNilMethod) {
		t.Fatalf("expected ErrNilMethod, got %#v", res)
	}
	if res := engine.InvokeWithHooks(ctx, nil, nil, failing); !errors.Is(res.Err, ErrMissingContext) {
		t.Fatalf("expected ErrMissingContext for nil target, got %#v", res)
	}
	if !log.has("d:scoped invocation failed") || !log.has("d:scoped invocation panicked") {
		t.Fatalf("expected debug logs, got %v", log.calls)
	}
}

func TestInvokeWithHooksDropsNilHooksAndCopiesSet(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine()
	k1 := mustNew(t, engine.Define(colorTemplate()))
	testHooks, _ := k1.Method("testHooks")

	res := engine.InvokeWithHooks(ctx, HookSet{"color": nil}, k1, testHooks, "red")
	if res.Value != "red" {
		t.Fatalf("expected nil hook to be ignored, got %#v", res)
	}

	hooks := HookSet{"color": upper}
	mutating := Method(func(ctx context.Context, self *Instance, args ...any) (any, error) {
		hooks["color"] = lowerWithSuffix
		return testHooks(ctx, self, args...)
	})
	if res := engine.InvokeWithHooks(ctx, hooks, k1, mutating, "Red"); res.Value != "RED" {
		t.Fatalf("expected installed hooks to be a copy, got %#v", res)
	}
}

func TestHookErrorsPropagateIntoResult(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine()
	k1 := mustNew(t, engine.Define(colorTemplate()))
	testHooks, _ := k1.Method("testHooks")
	bad := errors.New("bad hook")
	res := engine.InvokeWithHooks(ctx, HookSet{"color": func(context.Context, *Instance, ...any) (any, error) {
		return nil, bad
	}}, k1, testHooks, "red")
	if !errors.Is(res.Err, bad) {
		t.Fatalf("expected hook error in result, got %#v", res)
	}
}

func TestHookBuilder(t *testing.T) {
	ctx := context.Background()
	engine := NewEngine()
	k1 := mustNew(t, engine.Define(colorTemplate()))
	multi, _ := k1.Method("testMultipleHooks")

	res, err := engine.Hook(HookSet{"color": upper, "color2": lowerWithSuffix}).To(k1).Run(ctx, multi, "red")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Value != "red2" {
		t.Fatalf("expected red2, got %#v", res)
	}
}

func TestHookBuilderRequiresContext(t *testing.T) {
	log := &captureLogger{}
	engine := NewEngine(WithLogger(log))
	k1 := mustNew(t, engine.Define(colorTemplate()))
	multi, _ := k1.Method("testMultipleHooks")

	builder := engine.Hook(HookSet{"color": upper}).To(nil)
	_, err := builder.Run(context.Background(), multi, "red")
	if !errors.Is(err, ErrMissingContext) {
		t.Fatalf("expected ErrMissingContext, got %v", err)
	}
	if err.Error() != "koi: hook requires a valid context, did you forget to call To()?" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !log.has("w:hook run without target") {
		t.Fatalf("expected warn log, got %v", log.calls)
	}
}
