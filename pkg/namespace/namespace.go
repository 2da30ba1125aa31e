// Package namespace creates nested member maps addressed with dot notation.
package namespace

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotNamespace is returned when a path segment already holds a value that
	// is not a namespace.
	ErrNotNamespace = errors.New("namespace: segment is not a namespace")
	// ErrInvalidPath is returned for empty paths and empty segments.
	ErrInvalidPath = errors.New("namespace: invalid path")
)

// Ensure makes sure every segment of path exists below root and returns the
// innermost namespace. Existing namespaces are reused, never overwritten.
// "game.ui.hud" creates root["game"]["ui"]["hud"].
func Ensure(root map[string]any, path string) (map[string]any, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidPath)
	}
	if path == "" {
		return nil, ErrInvalidPath
	}
	current := root
	for i, segment := range strings.Split(path, ".") {
		if segment == "" {
			return nil, fmt.Errorf("%w: empty segment %d in %q", ErrInvalidPath, i, path)
		}
		existing, ok := current[segment]
		if !ok || existing == nil {
			next := make(map[string]any)
			current[segment] = next
			current = next
			continue
		}
		next, ok := existing.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %q holds %T", ErrNotNamespace, segment, existing)
		}
		current = next
	}
	return current, nil
}

// Lookup resolves path below root without creating anything.
func Lookup(root map[string]any, path string) (map[string]any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	current := root
	for _, segment := range strings.Split(path, ".") {
		next, ok := current[segment].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}
