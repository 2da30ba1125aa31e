package core

import (
	"slices"
	"sync"
)

// Plugin bundles capabilities that register together, such as the set of
// members every "player" template receives.
type Plugin interface {
	Name() string
	Register(registry *Registry) error
}

// Registry stores capabilities grouped by tag. Tags and the names within a tag
// keep their first insertion order so injection is reproducible.
type Registry struct {
	mu   sync.RWMutex
	tags []string
	caps map[string]*tagCapabilities
}

type tagCapabilities struct {
	names []string
	fns   map[string]Capability
}

type namedCapability struct {
	tag  string
	name string
	fn   Capability
}

// NewRegistry constructs an empty capability registry.
func NewRegistry() *Registry {
	return &Registry{caps: make(map[string]*tagCapabilities)}
}

func normalizeTag(tag string) string {
	if tag == "" {
		return GlobalTag
	}
	return tag
}

// Register stores fn under (tag, name). An empty tag means GlobalTag. An
// existing entry is overwritten in place; nil capabilities are ignored.
func (r *Registry) Register(tag, name string, fn Capability) {
	if fn == nil {
		return
	}
	tag = normalizeTag(tag)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.caps == nil {
		r.caps = make(map[string]*tagCapabilities)
	}
	entry, ok := r.caps[tag]
	if !ok {
		entry = &tagCapabilities{fns: make(map[string]Capability)}
		r.caps[tag] = entry
		r.tags = append(r.tags, tag)
	}
	if _, exists := entry.fns[name]; !exists {
		entry.names = append(entry.names, name)
	}
	entry.fns[name] = fn
}

// Unregister removes (tag, name). Missing entries are ignored.
func (r *Registry) Unregister(tag, name string) {
	tag = normalizeTag(tag)
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.caps[tag]
	if !ok {
		return
	}
	if _, exists := entry.fns[name]; !exists {
		return
	}
	delete(entry.fns, name)
	entry.names = slices.DeleteFunc(entry.names, func(n string) bool { return n == name })
}

// Install lets a plugin register its capabilities.
func (r *Registry) Install(plugin Plugin) error {
	if plugin == nil {
		return nil
	}
	return plugin.Register(r)
}

// Lookup returns the capability stored under (tag, name).
func (r *Registry) Lookup(tag, name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.caps[normalizeTag(tag)]
	if !ok {
		return nil, false
	}
	fn, ok := entry.fns[name]
	return fn, ok
}

// Tags returns the tags in first insertion order, including tags whose
// capabilities were all removed.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.tags)
}

// Names returns the capability names under tag in insertion order.
func (r *Registry) Names(tag string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.caps[normalizeTag(tag)]
	if !ok {
		return nil
	}
	return slices.Clone(entry.names)
}

// Len returns the total number of registered capabilities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, entry := range r.caps {
		n += len(entry.fns)
	}
	return n
}

// matching returns, in injection order, the capabilities that apply to a
// template declaring plugins. Each tag contributes at most once.
func (r *Registry) matching(plugins []string) []namedCapability {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []namedCapability
	for _, tag := range r.tags {
		if tag != GlobalTag && !slices.Contains(plugins, tag) {
			continue
		}
		entry := r.caps[tag]
		for _, name := range entry.names {
			out = append(out, namedCapability{tag: tag, name: name, fn: entry.fns[name]})
		}
	}
	return out
}
