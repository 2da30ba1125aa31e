package core

import (
	"context"
	"slices"

	"koi/pkg/clone"
)

// ParentSnapshot records the members an extension shadowed, linked to the
// snapshot of the previous extension. Snapshots are immutable.
type ParentSnapshot struct {
	members Members
	parent  *ParentSnapshot
}

func newParentSnapshot(parent *ParentSnapshot) *ParentSnapshot {
	return &ParentSnapshot{members: make(Members), parent: parent}
}

// Get returns the shadowed value of name.
func (p *ParentSnapshot) Get(name string) (any, bool) {
	if p == nil {
		return nil, false
	}
	if name == ParentMember {
		if p.parent == nil {
			return nil, false
		}
		return p.parent, true
	}
	v, ok := p.members[name]
	if !ok {
		return nil, false
	}
	return clone.Value(v), true
}

// Has reports whether name was shadowed at this level.
func (p *ParentSnapshot) Has(name string) bool {
	if p == nil {
		return false
	}
	_, ok := p.members[name]
	return ok
}

// Names returns the shadowed member names in sorted order.
func (p *ParentSnapshot) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.members))
	for name := range p.members {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Parent returns the next older snapshot, or nil.
func (p *ParentSnapshot) Parent() *ParentSnapshot {
	if p == nil {
		return nil
	}
	return p.parent
}

// Depth counts the snapshots reachable from p, p included.
func (p *ParentSnapshot) Depth() int {
	n := 0
	for cur := p; cur != nil; cur = cur.parent {
		n++
	}
	return n
}

// Init returns the shadowed constructor, when there was one.
func (p *ParentSnapshot) Init() (Method, bool) {
	if p == nil {
		return nil, false
	}
	return asMethod(p.members[InitMember])
}

// Call invokes the shadowed method name bound to self. Inside that call,
// self.Super resolves to the next older snapshot, so a shadowed init can in
// turn call the init it replaced.
func (p *ParentSnapshot) Call(ctx context.Context, self *Instance, name string, args ...any) (any, error) {
	if p == nil {
		return nil, NotCallableError{Name: name}
	}
	fn, ok := asMethod(p.members[name])
	if !ok {
		return nil, NotCallableError{Name: name}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	level := &superLevel{self: self, snapshot: p.parent, outer: superFrom(ctx)}
	return fn(context.WithValue(ctx, superKey{}, level), self, args...)
}

type superKey struct{}

// superLevel records which snapshot Super returns for self while a shadowed
// method runs.
type superLevel struct {
	self     *Instance
	snapshot *ParentSnapshot
	outer    *superLevel
}

func superFrom(ctx context.Context) *superLevel {
	if ctx == nil {
		return nil
	}
	l, _ := ctx.Value(superKey{}).(*superLevel)
	return l
}

// Super returns the snapshot holding the members the currently running method
// shadowed: the template's parent chain at the outermost call, one level older
// inside each ParentSnapshot.Call.
func (i *Instance) Super(ctx context.Context) *ParentSnapshot {
	for l := superFrom(ctx); l != nil; l = l.outer {
		if l.self == i {
			return l.snapshot
		}
	}
	return i.Parent()
}
