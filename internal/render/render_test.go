package render

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/woozymasta/leafview/internal/config"
	"github.com/woozymasta/leafview/internal/geo"
	"github.com/woozymasta/leafview/internal/view"
)

func testView(t *testing.T, args ...any) *view.View {
	t.Helper()

	v, err := view.New(args...)
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	return v
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("leafview-test%d", n)
	}
}

func TestRender_IDOnlyDifference(t *testing.T) {
	r := New(config.Builtin().Defaults)
	v := testView(t, geo.Points(geo.Pair{1, 2}), view.Color, "red")

	first, err := r.Render(v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	second, err := r.Render(v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if first.ID == second.ID {
		t.Fatalf("ids collide: %s", first.ID)
	}
	if !strings.HasPrefix(first.ID, "leafview-") || len(first.ID) != len("leafview-")+16 {
		t.Errorf("id=%q", first.ID)
	}
	if first.Markup == second.Markup {
		t.Fatal("markup identical, expected different container ids")
	}
	if got := strings.ReplaceAll(first.Markup, first.ID, second.ID); got != second.Markup {
		t.Fatal("renders differ beyond the container id")
	}
}

func TestRender_SubstitutesSettings(t *testing.T) {
	r := New(config.Builtin().Defaults, WithIDFunc(sequentialIDs()))
	tiles := "https://tiles.example.com/{z}/{x}/{y}.png?key=a&style=b"
	v := testView(t,
		geo.Line(geo.Pair{1, 2}, geo.Pair{3, 4}),
		view.TileLayerURL, tiles,
		view.Color, "#ff0000",
		view.Opacity, 0.5,
		view.Width, 640,
	)

	res, err := r.Render(v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		tiles,
		`"#ff0000"`,
		`opacity: 0.5,`,
		`id="leafview-test1"`,
		`width: 640px; height: 400px;`,
		`"type":"LineString"`,
		`[[2,1],[4,3]]`,
		config.DefaultLeafletJSURL,
		config.DefaultLeafletCSSURL,
		`view: null`,
		`map.fitBounds(layer.getBounds())`,
	} {
		if !strings.Contains(res.Markup, want) {
			t.Errorf("markup does not contain %q", want)
		}
	}

	if res.ContentType != "text/html" {
		t.Errorf("content type=%q", res.ContentType)
	}
	if res.Text != v.String() {
		t.Errorf("text=%q want %q", res.Text, v.String())
	}
}

func TestRender_ExplicitView(t *testing.T) {
	r := New(config.Builtin().Defaults, WithIDFunc(sequentialIDs()))
	v := testView(t, geo.Points(geo.Pair{1, 2}), view.Center, []any{51.5, -0.1, 12.0})

	res, err := r.Render(v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(res.Markup, `view: [51.5,-0.1,12]`) {
		t.Fatalf("explicit view missing:\n%s", res.Markup)
	}
}

func TestRender_LoaderGuard(t *testing.T) {
	r := New(config.Builtin().Defaults, WithIDFunc(sequentialIDs()))
	res, err := r.Render(testView(t))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		`document.getElementById("leafview-leaflet-css")`,
		`window.leafviewLoader = window.leafviewLoader || { isLoading: false, loaded: false, callbacks: [] }`,
		`loader.callbacks.push(createMap)`,
		`loader.isLoading = true;`,
		`loader.loaded = true;`,
		`}, {"features":[]});`,
	} {
		if !strings.Contains(res.Markup, want) {
			t.Errorf("markup does not contain %q", want)
		}
	}

	// Queue is drained in order, then cleared, then marked loaded.
	drain := strings.Index(res.Markup, "loader.callbacks[i]();")
	reset := strings.Index(res.Markup, "loader.callbacks = [];")
	loaded := strings.Index(res.Markup, "loader.loaded = true;")
	if drain < 0 || drain >= reset || reset >= loaded {
		t.Fatalf("onload order wrong: drain=%d reset=%d loaded=%d", drain, reset, loaded)
	}
}

func TestRender_EscapesScriptClose(t *testing.T) {
	r := New(config.Builtin().Defaults, WithIDFunc(sequentialIDs()))
	res, err := r.Render(testView(t, view.Color, "</script><b>"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Count(res.Markup, "</script>") != 1 {
		t.Fatalf("injected value closes the script element:\n%s", res.Markup)
	}
	if !strings.Contains(res.Markup, `"<\/script><b>"`) {
		t.Fatal("escaped color literal missing")
	}
}

func TestRender_Errors(t *testing.T) {
	r := New(config.Builtin().Defaults)

	_, err := r.Render(testView(t, view.Width, "wide"))
	if !errors.Is(err, view.ErrOptionValue) {
		t.Fatalf("err=%v want ErrOptionValue", err)
	}

	_, err = r.Render(testView(t, view.Opacity, 2))
	if !errors.Is(err, view.ErrOptionValue) {
		t.Fatalf("err=%v want ErrOptionValue", err)
	}

	_, err = view.New(geo.Descriptor{Kind: geo.KindLine, Coords: []geo.Pair{{1, 2}}, Rings: [][]geo.Pair{}})
	if !errors.Is(err, geo.ErrInvalidGeometry) {
		t.Fatalf("err=%v want ErrInvalidGeometry", err)
	}
}

func TestRender_Minify(t *testing.T) {
	tiles := "https://tiles.example.com/{z}/{x}/{y}.png?key=a&style=b"
	v := testView(t,
		geo.Points(geo.Pair{1, 2}),
		view.TileLayerURL, tiles,
		view.Color, "red",
		view.Opacity, 0.5,
		view.Center, []any{51.5, -0.1, 12.0},
	)

	plain, err := New(config.Builtin().Defaults, WithIDFunc(sequentialIDs())).Render(v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	small, err := New(config.Builtin().Defaults, WithMinify(true), WithIDFunc(sequentialIDs())).Render(v)
	if err != nil {
		t.Fatalf("Render minified: %v", err)
	}

	if len(small.Markup) >= len(plain.Markup) {
		t.Errorf("minified=%d bytes, plain=%d bytes", len(small.Markup), len(plain.Markup))
	}

	for _, want := range []string{
		`id="leafview-test1"`,
		tiles,
		`color: "red",`,
		`opacity: 0.5,`,
		`view: [51.5,-0.1,12]`,
		`[[2,1]]`,
		"leafviewLoader",
		CSSElementID,
		JSElementID,
	} {
		if !strings.Contains(small.Markup, want) {
			t.Errorf("minified markup does not contain %q:\n%s", want, small.Markup)
		}
	}
}

func TestRender_MinifyFromDefaults(t *testing.T) {
	defaults := config.Builtin().Defaults
	defaults.Minify = true

	v := testView(t, view.Opacity, 0.25)
	res, err := New(defaults, WithIDFunc(sequentialIDs())).Render(v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(res.Markup, "// Shared by every map") {
		t.Error("loader script kept its comments")
	}
	if !strings.Contains(res.Markup, `opacity: 0.25,`) {
		t.Errorf("opacity not verbatim:\n%s", res.Markup)
	}

	res, err = New(defaults, WithMinify(false), WithIDFunc(sequentialIDs())).Render(v)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(res.Markup, "// Shared by every map") {
		t.Error("WithMinify(false) did not override the defaults")
	}
}

func TestResult_MIMEBundle(t *testing.T) {
	res := Result{ContentType: ContentTypeHTML, Markup: "<div></div>", Text: "leafview()"}
	b := res.MIMEBundle()
	if b["text/html"] != "<div></div>" || b["text/plain"] != "leafview()" || len(b) != 2 {
		t.Fatalf("bundle=%v", b)
	}
}

func TestPage(t *testing.T) {
	r := New(config.Builtin().Defaults, WithIDFunc(sequentialIDs()))
	page, err := r.Page(testView(t, geo.Points(geo.Pair{1, 2}), view.Color, "red"), "Map <1>")
	if err != nil {
		t.Fatalf("Page: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Map &lt;1&gt;</title>",
		`<div id="leafview-test1"`,
		`leafview([&#34;points&#34;,[[1,2]]] :color &#34;red&#34;)`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page does not contain %q", want)
		}
	}
}
