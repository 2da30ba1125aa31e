// Package player provides the capabilities shared by playable characters.
package player

import "koi/pkg/koi"

// Tag is the capability tag templates declare to receive player members.
const Tag = "player"

// Default member values.
const (
	DefaultName   = "Character Name"
	DefaultGold   = 100
	DefaultSilver = 10
)

// Plugin registers the stats and info capabilities under Tag.
type Plugin struct{}

// New constructs a player plugin instance.
func New() Plugin {
	return Plugin{}
}

// Name returns the plugin identifier.
func (Plugin) Name() string { return "player" }

// Version returns the plugin semantic version.
func (Plugin) Version() string { return "0.1.0" }

// Register adds the player capabilities.
func (Plugin) Register(registry *koi.Registry) error {
	registry.Register(Tag, "stats", stats)
	registry.Register(Tag, "info", info)
	return nil
}

func stats(t *koi.Template) {
	t.Set("hp", 0)
	t.Set("mp", 0)
}

func info(t *koi.Template) {
	t.Set("name", DefaultName)
	t.Set("gold", DefaultGold)
	t.Set("silver", DefaultSilver)
}
