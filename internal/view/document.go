package view

import (
	"errors"
	"fmt"

	"github.com/woozymasta/leafview/internal/geo"

	"gopkg.in/yaml.v3"
)

// Document is a view stored in a JSON or YAML file.
type Document struct {
	Options    map[string]any   `yaml:"options,omitempty" json:"options,omitempty"`
	Title      string           `yaml:"title,omitempty" json:"title,omitempty"`
	Geometries []geo.Descriptor `yaml:"geometries" json:"geometries"`
}

// ParseDocument reads either a bare list of descriptors or a mapping with
// geometries, options and title keys. JSON input is read as YAML.
func ParseDocument(data []byte) (Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Document{}, err
	}
	if root.Kind == 0 {
		return Document{}, errors.New("empty document")
	}

	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}

	var doc Document
	switch node.Kind {
	case yaml.SequenceNode:
		if err := node.Decode(&doc.Geometries); err != nil {
			return Document{}, err
		}
	case yaml.MappingNode:
		if err := node.Decode(&doc); err != nil {
			return Document{}, err
		}
	default:
		return Document{}, fmt.Errorf("document must be a list or a mapping, got %s", node.ShortTag())
	}

	return doc, nil
}

// Args returns the document as an argument list for New.
func (d Document) Args() []any {
	return MapArgs(d.Geometries, d.Options)
}

// View builds the view described by the document.
func (d Document) View() (*View, error) {
	return New(d.Args()...)
}
