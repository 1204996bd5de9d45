package view

import (
	"testing"

	"github.com/woozymasta/leafview/internal/config"
	"github.com/woozymasta/leafview/internal/geo"
)

func TestParseDocument_List(t *testing.T) {
	doc, err := ParseDocument([]byte(`[["line", [[1, 2], [3, 4]]], [[5, 6]]]`))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(doc.Geometries) != 2 || doc.Geometries[0].Kind != geo.KindLine || doc.Geometries[1].Kind != geo.KindPoints {
		t.Fatalf("doc=%+v", doc)
	}
}

func TestParseDocument_Mapping(t *testing.T) {
	src := `
title: Harbour
geometries:
  - [polygon, [[[0, 0], [0, 1], [1, 1], [0, 0]]]]
options:
  color: red
  width: 500
  view: [59.9, 10.7, 11]
`
	doc, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if doc.Title != "Harbour" || len(doc.Geometries) != 1 {
		t.Fatalf("doc=%+v", doc)
	}

	v, err := doc.View()
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	s, err := v.Settings(config.Builtin().Defaults)
	if err != nil {
		t.Fatalf("Settings: %v", err)
	}
	if s.Color != "red" || s.Width != 500 || s.Center == nil || s.Center.Zoom != 11 {
		t.Fatalf("settings=%+v", s)
	}
}

func TestParseDocument_Errors(t *testing.T) {
	for name, src := range map[string]string{
		"Empty":        ``,
		"Scalar":       `42`,
		"Bad Geometry": `[["line", [[1, 2, 3]]]]`,
		"Bad YAML":     `[1, 2`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseDocument([]byte(src)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
