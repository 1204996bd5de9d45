package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults != Builtin().Defaults {
		t.Fatalf("defaults=%+v want built-in", cfg.Defaults)
	}
	if cfg.Defaults.Width != 400 || cfg.Defaults.Height != 400 {
		t.Errorf("size=%dx%d want 400x400", cfg.Defaults.Width, cfg.Defaults.Height)
	}
	if cfg.Defaults.Color != "steelblue" || cfg.Defaults.Opacity != 1.0 {
		t.Errorf("style=%q/%v", cfg.Defaults.Color, cfg.Defaults.Opacity)
	}
}

func TestLoad_Overlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	src := `
defaults:
  color: red
  width: 640
  tile_layer_url: "https://tiles.example.com/{z}/{x}/{y}.png"
  minify: true
server:
  title: Preview
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	d := cfg.Defaults
	if d.Color != "red" || d.Width != 640 || !d.Minify {
		t.Errorf("overlay not applied: %+v", d)
	}
	if d.TileLayerURL != "https://tiles.example.com/{z}/{x}/{y}.png" {
		t.Errorf("tile url=%q", d.TileLayerURL)
	}
	if d.Height != DefaultHeight || d.Opacity != DefaultOpacity || d.LeafletJSURL != DefaultLeafletJSURL {
		t.Errorf("unset keys lost their defaults: %+v", d)
	}
	if cfg.Server.Title != "Preview" || cfg.Server.MaxBodyKB != 4096 {
		t.Errorf("server=%+v", cfg.Server)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("defaults: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestLoad_ZeroValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	src := `
defaults:
  opacity: 0
server:
  max_body_kb: 0
`
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Defaults.Opacity != 0 {
		t.Errorf("opacity=%v want 0", cfg.Defaults.Opacity)
	}
	if cfg.Defaults.Color != DefaultColor || cfg.Defaults.Width != DefaultWidth {
		t.Errorf("unset keys lost their defaults: %+v", cfg.Defaults)
	}
	if cfg.Server.MaxBodyKB != 4096 {
		t.Errorf("max body=%d want 4096", cfg.Server.MaxBodyKB)
	}
}

func TestLoad_InvalidDefaults(t *testing.T) {
	for name, src := range map[string]string{
		"Opacity": "defaults:\n  opacity: 1.5\n",
		"Width":   "defaults:\n  width: 0\n",
		"Tiles":   "defaults:\n  tile_layer_url: \"\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(src), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
