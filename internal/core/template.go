package core

import (
	"slices"

	"koi/pkg/clone"
)

// Template is the reusable member set behind a Factory. Capabilities mutate it
// during definition; once a Factory holds it, it is never mutated again.
type Template struct {
	members Members
	parent  *ParentSnapshot
}

// NewTemplate builds a template from members. The mapping is deep copied so
// later changes by the caller do not leak into the template.
func NewTemplate(members Members) *Template {
	t := &Template{members: make(Members, len(members))}
	for name, value := range members {
		t.Set(name, clone.Value(value))
	}
	return t
}

// Get returns the named member. The parent chain is exposed as ParentMember.
func (t *Template) Get(name string) (any, bool) {
	if name == ParentMember {
		if t.parent == nil {
			return nil, false
		}
		return t.parent, true
	}
	v, ok := t.members[name]
	return v, ok
}

// Has reports whether the template defines name.
func (t *Template) Has(name string) bool {
	_, ok := t.Get(name)
	return ok
}

// Set adds or overwrites a member. Setting ParentMember to a *ParentSnapshot
// replaces the parent chain; other values under that name are ignored.
func (t *Template) Set(name string, value any) {
	if name == ParentMember {
		if p, ok := value.(*ParentSnapshot); ok {
			t.parent = p
		}
		return
	}
	if t.members == nil {
		t.members = make(Members)
	}
	t.members[name] = value
}

// Delete removes a member.
func (t *Template) Delete(name string) {
	if name == ParentMember {
		t.parent = nil
		return
	}
	delete(t.members, name)
}

// Names returns the member names in sorted order.
func (t *Template) Names() []string {
	names := make([]string, 0, len(t.members))
	for name := range t.members {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of members.
func (t *Template) Len() int {
	return len(t.members)
}

// Members returns a deep copy of the member set.
func (t *Template) Members() Members {
	return clone.Members(t.members)
}

// Init returns the constructor when init is a Method.
func (t *Template) Init() (Method, bool) {
	v, ok := t.members[InitMember]
	if !ok {
		return nil, false
	}
	return asMethod(v)
}

// Plugins returns the capability tags declared under PluginsMember. Values that
// are not strings are skipped.
func (t *Template) Plugins() []string {
	switch tags := t.members[PluginsMember].(type) {
	case []string:
		return slices.Clone(tags)
	case []any:
		out := make([]string, 0, len(tags))
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return []string{tags}
	default:
		return nil
	}
}

// Parent returns the parent chain recorded by Extend, or nil.
func (t *Template) Parent() *ParentSnapshot {
	return t.parent
}

func (t *Template) clone() *Template {
	return &Template{members: clone.Members(t.members), parent: t.parent}
}
