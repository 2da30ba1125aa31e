// Package state provides a small ordered state machine whose handlers run
// against a bound target.
package state

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrUnknownState is returned when a state has no handler.
var ErrUnknownState = errors.New("state: unknown state")

// Handler runs when its state is entered.
type Handler[T any] func(ctx context.Context, target T, data ...any) error

// Direction records whether the machine last stepped forward or backward.
type Direction int

const (
	// Forward is set by Next.
	Forward Direction = iota
	// Backward is set by Previous.
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Machine holds named handlers, an explicit stepping order and a set of
// disabled states. It is safe for concurrent use; handlers run without the
// machine's lock held.
type Machine[T any] struct {
	mu        sync.Mutex
	target    T
	handlers  map[string]Handler[T]
	order     []string
	disabled  map[string]struct{}
	current   string
	index     int
	direction Direction
}

// New creates a machine bound to target with the given handlers.
func New[T any](target T, handlers map[string]Handler[T]) *Machine[T] {
	m := &Machine[T]{
		target:   target,
		handlers: make(map[string]Handler[T], len(handlers)),
		disabled: make(map[string]struct{}),
		index:    -1,
	}
	for name, h := range handlers {
		m.Add(name, h, false)
	}
	return m
}

// Add registers a handler. An existing handler is only replaced when force is
// set. It reports whether h was stored.
func (m *Machine[T]) Add(name string, h Handler[T], force bool) bool {
	if h == nil || name == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.handlers[name]; exists && !force {
		return false
	}
	m.handlers[name] = h
	return true
}

// Remove deletes a handler and reports whether it existed.
func (m *Machine[T]) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.handlers[name]; !ok {
		return false
	}
	delete(m.handlers, name)
	return true
}

// Order sets the sequence Next and Previous walk. Calling it without names
// keeps the current order.
func (m *Machine[T]) Order(names ...string) {
	if len(names) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.order = slices.Clone(names)
	m.syncIndex()
}

// Disable makes Trigger ignore name and Next/Previous skip it.
func (m *Machine[T]) Disable(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disabled[name] = struct{}{}
}

// Enable reverses Disable.
func (m *Machine[T]) Enable(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.disabled, name)
}

// Disabled reports whether name is disabled.
func (m *Machine[T]) Disabled(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.disabled[name]
	return ok
}

// Trigger enters name and runs its handler with data. Triggering a disabled
// state is a no-op.
func (m *Machine[T]) Trigger(ctx context.Context, name string, data ...any) error {
	m.mu.Lock()
	if _, off := m.disabled[name]; off {
		m.mu.Unlock()
		return nil
	}
	h, ok := m.handlers[name]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	m.current = name
	m.syncIndex()
	target := m.target
	m.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}
	if err := h(ctx, target, data...); err != nil {
		return fmt.Errorf("state %q: %w", name, err)
	}
	return nil
}

// Next triggers the first enabled state after the current one in the order.
// It reports false when there is none.
func (m *Machine[T]) Next(ctx context.Context) (bool, error) {
	return m.step(ctx, Forward)
}

// Previous triggers the first enabled state before the current one.
func (m *Machine[T]) Previous(ctx context.Context) (bool, error) {
	return m.step(ctx, Backward)
}

func (m *Machine[T]) step(ctx context.Context, dir Direction) (bool, error) {
	m.mu.Lock()
	m.direction = dir
	delta := 1
	if dir == Backward {
		delta = -1
	}
	next := ""
	for i := m.index + delta; i >= 0 && i < len(m.order); i += delta {
		if _, off := m.disabled[m.order[i]]; !off {
			next = m.order[i]
			break
		}
	}
	m.mu.Unlock()
	if next == "" {
		return false, nil
	}
	return true, m.Trigger(ctx, next)
}

// syncIndex points index at the current state's position in the order. A
// current state outside the order keeps the previous index.
func (m *Machine[T]) syncIndex() {
	if i := slices.Index(m.order, m.current); i >= 0 && m.current != "" {
		m.index = i
	}
}

// State returns the most recently entered state.
func (m *Machine[T]) State() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Index returns the position of the current state in the order, or -1 before
// any ordered state was entered.
func (m *Machine[T]) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// Direction returns the direction of the last Next or Previous.
func (m *Machine[T]) Direction() Direction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.direction
}

// SetTarget rebinds the handlers' target.
func (m *Machine[T]) SetTarget(target T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.target = target
}

// Target returns the bound target.
func (m *Machine[T]) Target() T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.target
}
