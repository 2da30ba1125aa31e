package core

import (
	"context"
	"errors"
	"fmt"
)

// IgnoreInit is the sentinel first constructor argument that instantiates a
// template without running its init member.
const IgnoreInit = "koi-ignore-init"

// GlobalTag is the capability tag applied to every template regardless of its
// declared plugins.
const GlobalTag = "global"

// Reserved member names.
const (
	InitMember    = "init"
	PluginsMember = "plugins"
	ParentMember  = "_parent"
)

// Members maps member names to data values or Methods.
type Members = map[string]any

// Method is a member function. self is the instance the method is bound to and
// ctx carries the call scope, including any hooks armed for self.
type Method func(ctx context.Context, self *Instance, args ...any) (any, error)

// HookFunc is a transient override installed for a single scoped invocation.
type HookFunc = Method

// HookSet maps hook names to overrides.
type HookSet map[string]HookFunc

// Capability grafts members onto a template at definition time. It mutates the
// template in place.
type Capability func(t *Template)

// Constructor produces instances. Factories implement it; ConstructorFunc adapts
// foreign constructors.
type Constructor interface {
	New(ctx context.Context, args ...any) (*Instance, error)
}

// ConstructorFunc adapts a plain function to Constructor. The function decides
// itself whether it honours the IgnoreInit sentinel.
type ConstructorFunc func(ctx context.Context, args ...any) (*Instance, error)

// New implements Constructor.
func (f ConstructorFunc) New(ctx context.Context, args ...any) (*Instance, error) {
	return f(ctx, args...)
}

var (
	// ErrMissingContext is returned by HookBuilder.Run when no target was bound.
	ErrMissingContext = errors.New("koi: hook requires a valid context, did you forget to call To()?")
	// ErrMethodPanic wraps a panic recovered from a scoped invocation.
	ErrMethodPanic = errors.New("koi: method panicked")
	// ErrNilMethod is reported when a scoped invocation has nothing to call.
	ErrNilMethod = errors.New("koi: method is nil")
	// ErrInvalidImport is returned by ImportAs for a nil module or an empty name.
	ErrInvalidImport = errors.New("koi: import requires a module and a member name")
	// ErrNilConstructor is returned by Extend when the parent is nil.
	ErrNilConstructor = errors.New("koi: parent constructor is nil")
	// ErrNotCallable matches every NotCallableError.
	ErrNotCallable = errors.New("koi: member is not callable")
)

// NotCallableError reports a member lookup that did not resolve to a Method.
type NotCallableError struct {
	Name string
}

func (e NotCallableError) Error() string {
	return fmt.Sprintf("koi: member %q is not callable", e.Name)
}

// Is makes errors.Is(err, ErrNotCallable) hold.
func (e NotCallableError) Is(target error) bool {
	return target == ErrNotCallable
}

// Result is the outcome of a scoped invocation. Err is set when the method
// returned an error or panicked; Value holds the method's return otherwise.
type Result struct {
	Value any
	Err   error
}

// OK reports whether the invocation succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

func asMethod(v any) (Method, bool) {
	switch fn := v.(type) {
	case Method:
		return fn, fn != nil
	case func(ctx context.Context, self *Instance, args ...any) (any, error):
		return Method(fn), fn != nil
	default:
		return nil, false
	}
}
