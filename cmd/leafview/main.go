package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/woozymasta/leafview/internal/config"
	"github.com/woozymasta/leafview/internal/logger"
	"github.com/woozymasta/leafview/internal/render"
	"github.com/woozymasta/leafview/internal/view"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`
	Map    MapOptions    `group:"Map options"`

	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file"`
	Input      string `short:"i" long:"in"     description:"Input file path (JSON or YAML). Reads from stdin if empty"`
	Output     string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Mode       string `short:"M" long:"mode"   description:"Output mode" choice:"html" choice:"page" choice:"bundle" default:"bundle"`
	Title      string `short:"t" long:"title"  description:"Page title for --mode=page"`
	Minify     bool   `short:"m" long:"minify" description:"Minify rendered markup"`
}

// MapOptions override the document options; unset flags are skipped.
type MapOptions struct {
	Width         int    `long:"width"           description:"Container width in pixels"`
	Height        int    `long:"height"          description:"Container height in pixels"`
	Color         string `long:"color"           description:"Feature color"`
	Opacity       string `long:"opacity"         description:"Feature opacity (0..1)"`
	TileLayerURL  string `long:"tile-layer-url"  description:"Tile layer URL template"`
	LeafletJSURL  string `long:"leaflet-js-url"  description:"Leaflet script URL"`
	LeafletCSSURL string `long:"leaflet-css-url" description:"Leaflet stylesheet URL"`
	View          string `long:"view"            description:"Explicit center and zoom as lat,lon,zoom"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	inputData, err := readInput(opts.Input)
	if err != nil {
		log.Fatal().Err(err).Str("input", opts.Input).Msg("Failed to read input")
	}

	doc, err := view.ParseDocument(inputData)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse input")
	}

	flagArgs, err := opts.Map.args()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid map options")
	}

	// document first, flags after: later options win
	args := append(doc.Args(), flagArgs...)

	v, err := view.New(args...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build view")
	}

	renderer := render.New(cfg.Defaults, render.WithMinify(cfg.Defaults.Minify || opts.Minify))

	var output []byte
	switch opts.Mode {
	case "html":
		res, err := renderer.Render(v)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to render map")
		}
		output = []byte(res.Markup)

	case "page":
		title := opts.Title
		if title == "" {
			title = doc.Title
		}
		if title == "" {
			title = cfg.Server.Title
		}
		page, err := renderer.Page(v, title)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to render page")
		}
		output = []byte(page)

	default:
		res, err := renderer.Render(v)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to render map")
		}
		output, err = json.MarshalIndent(res.MIMEBundle(), "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to encode bundle")
		}
	}

	if opts.Output == "" {
		fmt.Println(string(output))
		return
	}

	if err := os.WriteFile(opts.Output, output, 0644); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output")
	}

	log.Info().
		Str("path", opts.Output).
		Str("mode", opts.Mode).
		Int("geometries", len(v.Geometries())).
		Msg("Map written")
}

func readInput(path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func (m MapOptions) args() ([]any, error) {
	var args []any

	if m.Width > 0 {
		args = append(args, view.Width, m.Width)
	}
	if m.Height > 0 {
		args = append(args, view.Height, m.Height)
	}
	if m.Color != "" {
		args = append(args, view.Color, m.Color)
	}
	if m.Opacity != "" {
		f, err := strconv.ParseFloat(m.Opacity, 64)
		if err != nil {
			return nil, fmt.Errorf("--opacity: %w", err)
		}
		args = append(args, view.Opacity, f)
	}
	if m.TileLayerURL != "" {
		args = append(args, view.TileLayerURL, m.TileLayerURL)
	}
	if m.LeafletJSURL != "" {
		args = append(args, view.LeafletJSURL, m.LeafletJSURL)
	}
	if m.LeafletCSSURL != "" {
		args = append(args, view.LeafletCSSURL, m.LeafletCSSURL)
	}
	if m.View != "" {
		parts := strings.Split(m.View, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("--view: want lat,lon,zoom, got %q", m.View)
		}
		center := make([]float64, 0, 3)
		for _, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("--view: %w", err)
			}
			center = append(center, f)
		}
		args = append(args, view.Center, center)
	}

	return args, nil
}
