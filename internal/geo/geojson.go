package geo

import (
	"bytes"
	"encoding/json"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Collection is the flat feature list handed to the map layer.
// It serializes with a single key: {"features": [...]}.
type Collection struct {
	Features []Feature `json:"features"`
}

// Feature wraps a single MultiPoint, LineString or Polygon geometry.
// Coordinates are stored in GeoJSON order (lon, lat).
type Feature struct {
	Geometry orb.Geometry
}

type featureJSON struct {
	Type     string            `json:"type"`
	Geometry *geojson.Geometry `json:"geometry"`
}

// MarshalJSON writes {"type":"Feature","geometry":{...}}.
func (f Feature) MarshalJSON() ([]byte, error) {
	return json.Marshal(featureJSON{
		Type:     "Feature",
		Geometry: geojson.NewGeometry(f.Geometry),
	})
}

// Convert maps descriptors to features, one per descriptor, in input order.
func Convert(descriptors []Descriptor) (Collection, error) {
	fc := Collection{Features: make([]Feature, 0, len(descriptors))}

	for i, d := range descriptors {
		f, err := ToFeature(d)
		if err != nil {
			return Collection{}, AtIndex(err, i)
		}
		fc.Features = append(fc.Features, f)
	}

	return fc, nil
}

// ToFeature converts a single descriptor.
func ToFeature(d Descriptor) (Feature, error) {
	if err := d.Validate(); err != nil {
		return Feature{}, err
	}

	switch d.Kind {
	case KindPoints:
		return Feature{Geometry: orb.MultiPoint(transposeAll(d.Coords))}, nil

	case KindLine:
		return Feature{Geometry: orb.LineString(transposeAll(d.Coords))}, nil

	case KindPolygon:
		poly := make(orb.Polygon, len(d.Rings))
		for i, ring := range d.Rings {
			poly[i] = orb.Ring(transposeAll(ring))
		}
		return Feature{Geometry: poly}, nil
	}

	return Feature{}, invalidf("unknown geometry kind %q", d.Kind)
}

// JSON returns the compact encoding of the collection. The result is valid
// both as JSON and as a JavaScript expression inside a <script> element.
func (c Collection) JSON() ([]byte, error) {
	if c.Features == nil {
		c.Features = []Feature{}
	}

	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}

	return bytes.ReplaceAll(b, []byte("</"), []byte(`<\/`)), nil
}
