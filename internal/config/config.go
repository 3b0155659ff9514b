// Package config loads the YAML config file described in spec §6: theme
// styles per widget component, and pod column selection/presets. Grounded
// on the original source's config/theme/* modules (simplified from
// ratatui's full Style/BorderType surface to the fg/bg/modifier triple the
// widget layer actually consumes) and on the teacher's own
// default-filling-over-zero-value convention (utils/redis.RedisConfig).
package config

import (
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

// Style is a single component's rendering style: foreground/background
// color names and a modifier (e.g. "bold", "dim"). The actual SGR/glyph
// emission is the external Screen collaborator's job (spec §4.6); Style is
// pure data.
type Style struct {
	FgColor  string `json:"fg_color,omitempty"`
	BgColor  string `json:"bg_color,omitempty"`
	Modifier string `json:"modifier,omitempty"`
}

// ComponentTheme holds the active/inactive/mouse-over styles spec §6 lists
// per widget component.
type ComponentTheme struct {
	Active    Style `json:"active,omitempty"`
	Inactive  Style `json:"inactive,omitempty"`
	MouseOver Style `json:"mouse_over,omitempty"`
}

// ComponentStyles is spec §6's `theme.component.*` block: one
// ComponentTheme per named widget category.
type ComponentStyles struct {
	Border    ComponentTheme `json:"border,omitempty"`
	Input     ComponentTheme `json:"input,omitempty"`
	List      ComponentTheme `json:"list,omitempty"`
	Table     ComponentTheme `json:"table,omitempty"`
	Text      ComponentTheme `json:"text,omitempty"`
	Tabs      ComponentTheme `json:"tabs,omitempty"`
	Dialog    ComponentTheme `json:"dialog,omitempty"`
	Help      ComponentTheme `json:"help,omitempty"`
	CheckList ComponentTheme `json:"check_list,omitempty"`
	Search    ComponentTheme `json:"search,omitempty"`
	Event     ComponentTheme `json:"event,omitempty"`
	Pod       ComponentTheme `json:"pod,omitempty"`
}

// Theme wraps ComponentStyles under the `component` key spec §6 specifies.
type Theme struct {
	Component ComponentStyles `json:"component,omitempty"`
}

// PodConfig is spec §6's `pod.*` block.
type PodConfig struct {
	DefaultColumns string            `json:"default_columns,omitempty"`
	ColumnPresets  map[string]string `json:"column_presets,omitempty"`
}

// Config is the top-level YAML config file shape.
type Config struct {
	Theme Theme     `json:"theme,omitempty"`
	Pod   PodConfig `json:"pod,omitempty"`
}

// DefaultPath resolves ${XDG_CONFIG_HOME}/kubetui/config.yaml, falling back
// to ~/.config/kubetui/config.yaml (spec §6).
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kubetui", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "kubetui", "config.yaml")
	}
	return filepath.Join(home, ".config", "kubetui", "config.yaml")
}

// Load reads and parses path. A missing file is not an error (empty Config
// with defaults applied by callers); a present-but-malformed file is,
// matching spec §7's "Configuration ... fatal at startup" classification.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ResolvePodColumns applies spec §6/§8's precedence: an explicit preset
// name, else `pod.default_columns`, else the built-in default.
func (c Config) ResolvePodColumns(presetName string) ([]PodColumn, error) {
	if presetName != "" {
		if raw, ok := c.Pod.ColumnPresets[presetName]; ok {
			return ParsePodColumns(raw)
		}
	}
	if c.Pod.DefaultColumns != "" {
		return ParsePodColumns(c.Pod.DefaultColumns)
	}
	return DefaultPodColumns(), nil
}
