package core

import (
	"context"
	"fmt"
)

// Factory instantiates a defined template.
type Factory struct {
	engine   *Engine
	template *Template
}

// Define injects matching capabilities into t and returns its Factory. The
// factory keeps its own copy of the injected template, so neither later edits
// to t nor later registry changes affect it. A nil template defines an empty
// one. Define never fails.
func (e *Engine) Define(t *Template) *Factory {
	if t == nil {
		t = NewTemplate(nil)
	}
	var f *Factory
	_ = e.observe(context.Background(), "define", func(context.Context) error {
		applied := e.inject(t)
		f = &Factory{engine: e, template: t.clone()}
		e.logger.Debug("template defined", "members", t.Len(), "capabilities", applied, "plugins", t.Plugins())
		return nil
	})
	return f
}

// New builds an instance. When the first argument is IgnoreInit the init
// member is skipped; otherwise init, if it is a Method, runs once with all
// arguments.
func (f *Factory) New(ctx context.Context, args ...any) (*Instance, error) {
	inst := newInstance(f.template)
	if suppressesInit(args) {
		return inst, nil
	}
	init, ok := f.template.Init()
	if !ok {
		return inst, nil
	}
	if _, err := init(ctx, inst, args...); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return inst, nil
}

// Blank builds an instance without running init.
func (f *Factory) Blank() *Instance {
	return newInstance(f.template)
}

// Template returns a copy of the defined template.
func (f *Factory) Template() *Template {
	return f.template.clone()
}

func suppressesInit(args []any) bool {
	if len(args) == 0 {
		return false
	}
	s, ok := args[0].(string)
	return ok && s == IgnoreInit
}
