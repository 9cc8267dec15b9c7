package melody

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPreset names the cantus firmus used when none is given.
const DefaultPreset = "fux-dorian"

//go:embed presets/*.yaml
var presetFS embed.FS

// Preset is a named cantus firmus shipped with the binary.
type Preset struct {
	Name         string       `yaml:"name"`
	Description  string       `yaml:"description"`
	CantusFirmus CantusFirmus `yaml:"cantus_firmus"`
}

// LoadPreset reads a preset by name from the embedded YAML files.
func LoadPreset(name string) (*Preset, error) {
	data, err := presetFS.ReadFile("presets/" + name + ".yaml")
	if err != nil {
		return nil, &ConfigError{
			Field:   "preset",
			Message: fmt.Sprintf("preset %q not found (available: %s)", name, strings.Join(PresetNames(), ", ")),
		}
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse preset %q: %w", name, err)
	}
	if err := p.CantusFirmus.Validate(); err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	return &p, nil
}

// PresetNames returns the names of all embedded presets, sorted.
func PresetNames() []string {
	entries, _ := presetFS.ReadDir("presets")
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".yaml") {
			names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
		}
	}
	sort.Strings(names)
	return names
}
