// Package templatefile loads data-only templates from YAML documents. The top
// level of the document is the member mapping; a plugins sequence declares
// capability tags as it does in code.
package templatefile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"koi/internal/core"
)

var (
	// ErrEmpty is returned for a document without members.
	ErrEmpty = errors.New("templatefile: empty document")
	// ErrReservedMember is returned when the document sets a member that only
	// code can provide.
	ErrReservedMember = errors.New("templatefile: reserved member")
)

// Load decodes one YAML document from r into a template.
func Load(r io.Reader) (*core.Template, error) {
	var members map[string]any
	if err := yaml.NewDecoder(r).Decode(&members); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("decode template: %w", err)
	}
	if len(members) == 0 {
		return nil, ErrEmpty
	}
	for _, name := range []string{core.InitMember, core.ParentMember} {
		if _, ok := members[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrReservedMember, name)
		}
	}
	if err := checkPlugins(members[core.PluginsMember]); err != nil {
		return nil, err
	}
	return core.NewTemplate(members), nil
}

// LoadFile reads a template from path.
func LoadFile(path string) (*core.Template, error) {
	f, err := os.Open(path) // #nosec G304 -- caller chooses the template file.
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer func() { _ = f.Close() }()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func checkPlugins(v any) error {
	switch tags := v.(type) {
	case nil, string:
		return nil
	case []any:
		for i, tag := range tags {
			if _, ok := tag.(string); !ok {
				return fmt.Errorf("templatefile: plugins[%d] is %T, want string", i, tag)
			}
		}
		return nil
	default:
		return fmt.Errorf("templatefile: plugins is %T, want string or sequence", v)
	}
}
