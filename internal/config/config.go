// Package config handles configuration loading and the default map options.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in option values used when neither the config file nor the caller set them.
const (
	DefaultWidth         = 400
	DefaultHeight        = 400
	DefaultLeafletJSURL  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
	DefaultLeafletCSSURL = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	DefaultTileLayerURL  = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultColor         = "steelblue"
	DefaultOpacity       = 1.0
)

// Config represents the root configuration file structure.
type Config struct {
	Defaults Defaults `yaml:"defaults" json:"defaults"`
	Server   Server   `yaml:"server,omitempty" json:"server,omitempty"`
}

// Defaults are the map options applied for every key a caller leaves unset.
type Defaults struct {
	LeafletJSURL  string  `yaml:"leaflet_js_url,omitempty" json:"leaflet-js-url,omitempty"`
	LeafletCSSURL string  `yaml:"leaflet_css_url,omitempty" json:"leaflet-css-url,omitempty"`
	TileLayerURL  string  `yaml:"tile_layer_url,omitempty" json:"tile-layer-url,omitempty"`
	Color         string  `yaml:"color,omitempty" json:"color,omitempty"`
	Width         int     `yaml:"width,omitempty" json:"width,omitempty"`
	Height        int     `yaml:"height,omitempty" json:"height,omitempty"`
	Opacity       float64 `yaml:"opacity" json:"opacity"`

	// Minify compacts the static loader script of every rendered map.
	Minify bool `yaml:"minify,omitempty" json:"minify,omitempty"`
}

// Server holds the preview server settings.
type Server struct {
	Title     string `yaml:"title,omitempty" json:"title,omitempty"`
	MaxBodyKB int    `yaml:"max_body_kb,omitempty" json:"max_body_kb,omitempty"`
}

// Builtin returns the configuration used when no file is given.
func Builtin() *Config {
	return &Config{
		Defaults: Defaults{
			Width:         DefaultWidth,
			Height:        DefaultHeight,
			LeafletJSURL:  DefaultLeafletJSURL,
			LeafletCSSURL: DefaultLeafletCSSURL,
			TileLayerURL:  DefaultTileLayerURL,
			Color:         DefaultColor,
			Opacity:       DefaultOpacity,
		},
		Server: Server{
			Title:     "leafview",
			MaxBodyKB: 4096,
		},
	}
}

// Load reads the YAML configuration file from path and decodes it over
// Builtin, so keys missing from the file keep their built-in values and keys
// present in it win, zero values included. An empty path returns Builtin.
func Load(path string) (*Config, error) {
	cfg := Builtin()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Defaults.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Server.MaxBodyKB <= 0 {
		cfg.Server.MaxBodyKB = Builtin().Server.MaxBodyKB
	}

	return cfg, nil
}

// Validate reports the first default that no map could be rendered with.
func (d Defaults) Validate() error {
	switch {
	case d.Width <= 0 || d.Height <= 0:
		return fmt.Errorf("defaults: size %dx%d must be positive", d.Width, d.Height)
	case d.Opacity < 0 || d.Opacity > 1:
		return fmt.Errorf("defaults: opacity %v must be within [0, 1]", d.Opacity)
	case d.LeafletJSURL == "" || d.LeafletCSSURL == "" || d.TileLayerURL == "":
		return fmt.Errorf("defaults: leaflet and tile layer urls must not be empty")
	}
	return nil
}
