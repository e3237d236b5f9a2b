package config

import (
	"os"
	"path/filepath"
	"testing"

	evbus "github.com/dshills/neoview/internal/event"
	"github.com/dshills/neoview/internal/logger"
)

func init() {
	logger.InitNop()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
cterm_colors = true

[font]
family = "JetBrains Mono"
size = 14.5
features = ["liga", "calt=0"]
linespace = 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Font.Family != "JetBrains Mono" {
		t.Errorf("family = %q, want %q", cfg.Font.Family, "JetBrains Mono")
	}
	if cfg.Font.Size != 14.5 {
		t.Errorf("size = %v, want 14.5", cfg.Font.Size)
	}
	if len(cfg.Font.Features) != 2 || cfg.Font.Features[0] != "liga" {
		t.Errorf("features = %v, want [liga calt=0]", cfg.Font.Features)
	}
	if cfg.Font.Linespace != 2 {
		t.Errorf("linespace = %v, want 2", cfg.Font.Linespace)
	}
	if !cfg.CtermColors {
		t.Error("cterm_colors = false, want true")
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
font:
  family: Hack
  size: 11
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Font.Family != "Hack" {
		t.Errorf("family = %q, want %q", cfg.Font.Family, "Hack")
	}
	if cfg.Font.Size != 11 {
		t.Errorf("size = %v, want 11", cfg.Font.Size)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Equal(Default()) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadMalformedFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[font\nsize = ")

	cfg, err := Load(path)
	if err == nil {
		t.Fatal("Load: want parse error")
	}
	if !cfg.Equal(Default()) {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestDirEnvOverrides(t *testing.T) {
	t.Setenv("NEOVIEW_CONFIG_HOME", "/tmp/nv")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := Dir(); got != "/tmp/nv" {
		t.Errorf("Dir() = %q, want %q", got, "/tmp/nv")
	}

	t.Setenv("NEOVIEW_CONFIG_HOME", "")
	want := filepath.Join("/tmp/xdg", "neoview")
	if got := Dir(); got != want {
		t.Errorf("Dir() = %q, want %q", got, want)
	}
}

func TestDefaultPathPrefersExistingFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEOVIEW_CONFIG_HOME", dir)

	want := filepath.Join(dir, "config.toml")
	if got := DefaultPath(); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}

	writeFile(t, filepath.Join(dir, "config.yml"), "font:\n  size: 10\n")
	want = filepath.Join(dir, "config.yml")
	if got := DefaultPath(); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}

func TestEqual(t *testing.T) {
	base := Config{Font: FontConfig{Family: "Hack", Size: 12, Features: []string{"liga"}}}

	same := Config{Font: FontConfig{Family: "Hack", Size: 12, Features: []string{"liga"}}}
	if !base.Equal(same) {
		t.Error("identical configs compare unequal")
	}

	diff := same
	diff.Font.Features = []string{"calt"}
	if base.Equal(diff) {
		t.Error("configs with different features compare equal")
	}
}

func TestReloadPublishesOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[font]\nsize = 12\n")

	bus := evbus.NewBus()
	var published []Config
	bus.Subscribe(evbus.TopicConfigReload, func(payload any) {
		published = append(published, payload.(Config))
	})

	m := NewManager(path, bus)

	writeFile(t, path, "[font]\nsize = 16\n")
	m.reload()
	if len(published) != 1 {
		t.Fatalf("published %d configs, want 1", len(published))
	}
	if published[0].Font.Size != 16 {
		t.Errorf("size = %v, want 16", published[0].Font.Size)
	}

	// Same content again: no change, no publish.
	m.reload()
	if len(published) != 1 {
		t.Errorf("published %d configs after no-op reload, want 1", len(published))
	}
}

func TestReloadKeepsSettingsOnParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[font]\nsize = 13\n")

	m := NewManager(path, evbus.NewBus())
	writeFile(t, path, "not [valid")
	m.reload()

	if got := m.Config().Font.Size; got != 13 {
		t.Errorf("size = %v, want 13 after failed reload", got)
	}
}
