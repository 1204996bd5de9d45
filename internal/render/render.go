// Package render turns a view into a self-contained Leaflet map fragment.
package render

import (
	"bytes"
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"

	"github.com/woozymasta/leafview/internal/config"
	"github.com/woozymasta/leafview/internal/geo"
	"github.com/woozymasta/leafview/internal/view"

	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

// Element ids and the window property shared by every map on a page.
const (
	CSSElementID = "leafview-leaflet-css"
	JSElementID  = "leafview-leaflet-js"
	LoaderName   = "leafviewLoader"
)

// ContentTypeHTML is the content kind of every Result.
const ContentTypeHTML = "text/html"

var (
	//go:embed map.html.tpl
	mapSource string
	//go:embed page.html.tpl
	pageSource string
	//go:embed loader.js.tpl
	loaderSource string

	mapTemplate  = template.Must(template.New("map").Parse(mapSource))
	pageTemplate = htmltemplate.Must(htmltemplate.New("page").Parse(pageSource))

	// loaderScript is the static part of every map script. It only reads
	// containerId, settings and data, which the map template passes in.
	loaderScript = mustLoader()
)

func mustLoader() string {
	var buf bytes.Buffer
	err := template.Must(template.New("loader").Parse(loaderSource)).Execute(&buf, struct {
		CSSElementID string
		JSElementID  string
		LoaderName   string
	}{CSSElementID, JSElementID, LoaderName})
	if err != nil {
		panic(err)
	}
	return buf.String()
}

// Result is the value handed to the display host.
type Result struct {
	ContentType string `json:"content_type"`
	Markup      string `json:"markup"`
	Text        string `json:"text"`
	ID          string `json:"id"`
}

// MIMEBundle returns the notebook display mapping for the result.
func (r Result) MIMEBundle() map[string]string {
	return map[string]string{
		r.ContentType: r.Markup,
		"text/plain":  r.Text,
	}
}

type mapData struct {
	ID            string
	Loader        string
	LeafletJSURL  string
	LeafletCSSURL string
	TileLayerURL  string
	Color         string
	Opacity       string
	View          string
	GeoJSON       string
	Width         int
	Height        int
}

type pageData struct {
	Title    string
	Source   string
	Fragment htmltemplate.HTML
}

// Renderer renders views against a fixed set of defaults.
type Renderer struct {
	newID    func() string
	loader   string
	defaults config.Defaults
	minify   bool
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithMinify overrides the minify flag from the defaults.
// Only the static loader script is minified; substituted values stay verbatim.
func WithMinify(enabled bool) RendererOption {
	return func(r *Renderer) {
		r.minify = enabled
	}
}

// WithIDFunc replaces the container id generator.
func WithIDFunc(fn func() string) RendererOption {
	return func(r *Renderer) {
		r.newID = fn
	}
}

// New returns a Renderer using defaults for every option a view leaves unset.
func New(defaults config.Defaults, opts ...RendererOption) *Renderer {
	r := &Renderer{
		defaults: defaults,
		newID:    NewID,
		loader:   loaderScript,
		minify:   defaults.Minify,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.minify {
		small, err := minifyScript(loaderScript)
		if err != nil {
			log.Warn().Err(err).Msg("Loader script not minified")
		} else {
			r.loader = small
		}
	}

	return r
}

func minifyScript(src string) (string, error) {
	m := minify.New()
	m.AddFunc("text/javascript", js.Minify)
	return m.String("text/javascript", src)
}

// NewID returns a fresh container id.
func NewID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return "leafview-" + hex.EncodeToString(b[:])
}

// Render converts the view geometries and fills the map template.
// Every call uses a new container id; the rest of the markup depends only on v.
func (r *Renderer) Render(v *view.View) (Result, error) {
	settings, err := v.Settings(r.defaults)
	if err != nil {
		return Result{}, err
	}

	fc, err := geo.Convert(v.Geometries())
	if err != nil {
		return Result{}, err
	}

	data, err := r.mapData(settings, fc)
	if err != nil {
		return Result{}, err
	}

	var buf bytes.Buffer
	if err := mapTemplate.Execute(&buf, data); err != nil {
		return Result{}, fmt.Errorf("execute map template: %w", err)
	}

	markup := buf.String()

	ev := log.Debug().
		Str("id", data.ID).
		Int("features", len(fc.Features)).
		Bool("explicit_view", settings.Center != nil).
		Int("bytes", len(markup))
	if b, ok := fc.Bound(); ok {
		ev = ev.Floats64("bounds", []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]})
	}
	ev.Msg("Map rendered")

	return Result{
		ContentType: ContentTypeHTML,
		Markup:      markup,
		Text:        v.String(),
		ID:          data.ID,
	}, nil
}

// Page renders v and wraps the fragment in a standalone HTML document.
func (r *Renderer) Page(v *view.View, title string) (string, error) {
	res, err := r.Render(v)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = pageTemplate.Execute(&buf, pageData{
		Title:    title,
		Source:   res.Text,
		Fragment: htmltemplate.HTML(res.Markup),
	})
	if err != nil {
		return "", fmt.Errorf("execute page template: %w", err)
	}

	return buf.String(), nil
}

func (r *Renderer) mapData(s view.Settings, fc geo.Collection) (mapData, error) {
	geoJSON, err := fc.JSON()
	if err != nil {
		return mapData{}, fmt.Errorf("encode geojson: %w", err)
	}

	var center any
	if s.Center != nil {
		center = []float64{s.Center.Lat, s.Center.Lon, s.Center.Zoom}
	}

	d := mapData{
		ID:      r.newID(),
		Loader:  r.loader,
		Width:   s.Width,
		Height:  s.Height,
		GeoJSON: string(geoJSON),
	}

	literals := []struct {
		dst *string
		val any
	}{
		{&d.LeafletJSURL, s.LeafletJSURL},
		{&d.LeafletCSSURL, s.LeafletCSSURL},
		{&d.TileLayerURL, s.TileLayerURL},
		{&d.Color, s.Color},
		{&d.Opacity, s.Opacity},
		{&d.View, center},
	}
	for _, l := range literals {
		if *l.dst, err = scriptLiteral(l.val); err != nil {
			return mapData{}, err
		}
	}

	return d, nil
}

// scriptLiteral encodes v as a JavaScript literal for a <script> body.
// Strings keep their characters as written; only "</" is escaped.
func scriptLiteral(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode %v: %w", v, err)
	}

	s := strings.TrimSuffix(buf.String(), "\n")
	return strings.ReplaceAll(s, "</", `<\/`), nil
}
