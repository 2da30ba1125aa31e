package core

import (
	"context"
	"slices"

	"github.com/google/uuid"

	"koi/pkg/clone"
)

// Instance is one object produced by a Factory. Reads fall back to the template;
// writes only touch the instance. Composite members inherited from the template
// are copied at construction so siblings never share them.
type Instance struct {
	id       uuid.UUID
	template *Template
	own      Members
}

// NewInstance builds an instance that is not backed by a template. Foreign
// constructors use it.
func NewInstance(members Members) *Instance {
	return &Instance{id: uuid.New(), template: &Template{}, own: clone.Members(members)}
}

func newInstance(t *Template) *Instance {
	inst := &Instance{id: uuid.New(), template: t, own: make(Members)}
	for name, value := range t.members {
		if clone.IsComposite(value) {
			inst.own[name] = clone.Value(value)
		}
	}
	return inst
}

// ID returns the instance identifier.
func (i *Instance) ID() uuid.UUID {
	return i.id
}

// Get looks name up on the instance, then on its template.
func (i *Instance) Get(name string) (any, bool) {
	if v, ok := i.own[name]; ok {
		return v, true
	}
	return i.template.Get(name)
}

// Has reports whether name resolves.
func (i *Instance) Has(name string) bool {
	_, ok := i.Get(name)
	return ok
}

// Set writes an instance-owned member.
func (i *Instance) Set(name string, value any) {
	if name == ParentMember {
		return
	}
	i.own[name] = value
}

// Names returns every resolvable member name in sorted order.
func (i *Instance) Names() []string {
	names := i.template.Names()
	for name := range i.own {
		if !i.template.Has(name) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Members returns a deep copy of every resolvable member.
func (i *Instance) Members() Members {
	out := i.template.Members()
	if out == nil {
		out = make(Members, len(i.own))
	}
	for name, value := range i.own {
		out[name] = clone.Value(value)
	}
	return out
}

// Parent returns the parent chain of the template this instance came from.
func (i *Instance) Parent() *ParentSnapshot {
	return i.template.Parent()
}

// Method resolves name to a Method.
func (i *Instance) Method(name string) (Method, bool) {
	v, ok := i.Get(name)
	if !ok {
		return nil, false
	}
	return asMethod(v)
}

// Call invokes the method name bound to the instance.
func (i *Instance) Call(ctx context.Context, name string, args ...any) (any, error) {
	fn, ok := i.Method(name)
	if !ok {
		return nil, NotCallableError{Name: name}
	}
	return fn(ctx, i, args...)
}

// Clone returns a detached deep copy with a fresh identifier. Methods and the
// parent chain are shared with the original.
func (i *Instance) Clone() *Instance {
	return &Instance{id: uuid.New(), template: i.template, own: clone.Members(i.own)}
}
