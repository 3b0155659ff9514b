package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsEmptyConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pod.DefaultColumns != "" {
		t.Fatalf("expected zero-value config, got %+v", cfg)
	}
}

func TestLoadParsesThemeAndPodSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `
theme:
  component:
    border:
      active:
        fg_color: yellow
pod:
  default_columns: "name,ready,status"
  column_presets:
    wide: "full"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pod.DefaultColumns != "name,ready,status" {
		t.Fatalf("expected default_columns to be parsed, got %+v", cfg.Pod)
	}
	if cfg.Pod.ColumnPresets["wide"] != "full" {
		t.Fatalf("expected wide preset, got %+v", cfg.Pod.ColumnPresets)
	}
}

func TestResolvePodColumnsPrecedence(t *testing.T) {
	cfg := Config{Pod: PodConfig{
		DefaultColumns: "name,ready",
		ColumnPresets:  map[string]string{"wide": "full"},
	}}

	cols, err := cfg.ResolvePodColumns("wide")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cols) != len(allPodColumns) {
		t.Fatalf("expected preset to win, got %v", cols)
	}

	cols, err = cfg.ResolvePodColumns("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cols) != 2 {
		t.Fatalf("expected default_columns to apply when no preset given, got %v", cols)
	}

	empty := Config{}
	cols, err = empty.ResolvePodColumns("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cols) != len(DefaultPodColumns()) {
		t.Fatalf("expected built-in default, got %v", cols)
	}
}
