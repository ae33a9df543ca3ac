package config

import (
	"sort"

	"github.com/san-kum/springpend/internal/animator"
	"github.com/san-kum/springpend/internal/spring"
)

// Presets trade spring fidelity for speed.
var Presets = map[string]func(*Config){
	"render": func(c *Config) {
		c.Resolution = spring.DefaultResolution()
		c.Springs = animator.Regenerate
	},
	"draft": func(c *Config) {
		c.Resolution = spring.Resolution{U: 64, V: 32}
		c.Springs = animator.Reuse
	},
	"preview": func(c *Config) {
		c.Resolution = spring.Resolution{U: 40, V: 16}
		c.Springs = animator.Omit
	},
}

// GetPreset returns the defaults with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// Apply overlays a preset onto cfg, leaving constants and logging alone.
func Apply(cfg *Config, name string) bool {
	apply, ok := Presets[name]
	if ok {
		apply(cfg)
	}
	return ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
