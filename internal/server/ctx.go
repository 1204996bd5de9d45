package server

import (
	"github.com/woozymasta/leafview/internal/config"
	"github.com/woozymasta/leafview/internal/render"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Renderer  *render.Renderer
	IndexHTML []byte
	MaxBody   int64
}

// NewServerContext builds the renderer from the configured defaults.
func NewServerContext(cfg *config.Config) *ServerContext {
	maxBody := int64(cfg.Server.MaxBodyKB) << 10
	if maxBody <= 0 {
		maxBody = 4 << 20
	}

	log.Info().
		Int("width", cfg.Defaults.Width).
		Int("height", cfg.Defaults.Height).
		Str("tile_layer_url", cfg.Defaults.TileLayerURL).
		Bool("minify", cfg.Defaults.Minify).
		Msg("Server context initialized")

	return &ServerContext{
		Config:    cfg,
		Renderer:  render.New(cfg.Defaults),
		IndexHTML: []byte(indexPage(cfg.Server.Title)),
		MaxBody:   maxBody,
	}
}
