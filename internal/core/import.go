package core

import (
	"context"
	"fmt"
)

// ImportAs instantiates module with args, running its constructor, and stores
// the result as member name, replacing any previous value.
func (i *Instance) ImportAs(ctx context.Context, module Constructor, name string, args ...any) error {
	if module == nil || name == "" {
		return ErrInvalidImport
	}
	imported, err := module.New(ctx, args...)
	if err != nil {
		return fmt.Errorf("import %s: %w", name, err)
	}
	i.Set(name, imported)
	return nil
}
