package core

import (
	"context"
	"fmt"

	"koi/pkg/clone"
)

type extendConfig struct {
	nest bool
}

// ExtendOption customises Extend.
type ExtendOption func(*extendConfig)

// Nest controls whether shadowed members are recorded in a parent snapshot.
// Nesting is on by default.
func Nest(enabled bool) ExtendOption {
	return func(c *extendConfig) {
		c.nest = enabled
	}
}

// Extend builds a new Factory from a blank instance of parent with overrides
// layered on top. With nesting, every parent member an override shadows is
// recorded in a new ParentSnapshot linked to the parent's own chain, so an
// overriding init can still reach the init it replaced. The parent template
// itself is never modified.
//
// A foreign Constructor that ignores IgnoreInit runs its constructor here; its
// error, if any, is returned.
func (e *Engine) Extend(ctx context.Context, parent Constructor, overrides Members, opts ...ExtendOption) (*Factory, error) {
	if parent == nil {
		return nil, ErrNilConstructor
	}
	cfg := extendConfig{nest: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var f *Factory
	err := e.observe(ctx, "extend", func(ctx context.Context) error {
		base, err := parent.New(ctx, IgnoreInit)
		if err != nil {
			return fmt.Errorf("instantiate parent: %w", err)
		}
		if base == nil {
			base = NewInstance(nil)
		}

		merged := &Template{members: base.Members(), parent: base.Parent()}
		if merged.members == nil {
			merged.members = make(Members, len(overrides))
		}
		if cfg.nest {
			snapshot := newParentSnapshot(base.Parent())
			for name := range overrides {
				if name == ParentMember {
					continue
				}
				if v, ok := base.Get(name); ok {
					snapshot.members[name] = clone.Value(v)
				}
			}
			merged.parent = snapshot
		}
		for name, value := range overrides {
			merged.Set(name, clone.Value(value))
		}

		f = e.Define(merged)
		e.logger.Debug("template extended",
			"overrides", len(overrides),
			"shadowed", merged.parent.Names(),
			"depth", merged.parent.Depth(),
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}
