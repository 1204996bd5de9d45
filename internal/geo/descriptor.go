// Package geo handles geometry descriptors and their conversion to GeoJSON.
package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the tag of a geometry descriptor.
type Kind string

const (
	KindPoints  Kind = "points"
	KindLine    Kind = "line"
	KindPolygon Kind = "polygon"
)

// ParseKind maps a descriptor tag to its Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindPoints:
		return KindPoints, nil
	case KindLine:
		return KindLine, nil
	case KindPolygon:
		return KindPolygon, nil
	}

	return "", invalidf("unknown geometry tag %q", s)
}

// Pair is a single coordinate in caller order: [latitude, longitude].
type Pair [2]float64

// Descriptor is a caller-supplied geometry before GeoJSON conversion.
// Points and Line use Coords, Polygon uses Rings.
type Descriptor struct {
	Kind   Kind
	Coords []Pair
	Rings  [][]Pair
}

// Points returns a points descriptor.
func Points(coords ...Pair) Descriptor {
	return Descriptor{Kind: KindPoints, Coords: coords}
}

// Line returns a line descriptor; coords form an ordered path.
func Line(coords ...Pair) Descriptor {
	return Descriptor{Kind: KindLine, Coords: coords}
}

// Polygon returns a polygon descriptor, the first ring is the outer boundary.
func Polygon(rings ...[]Pair) Descriptor {
	return Descriptor{Kind: KindPolygon, Rings: rings}
}

// ParseDescriptor decodes a dynamic value into a Descriptor.
//
// Accepted shapes are ["points", coords], ["line", coords],
// ["polygon", rings] and a bare coordinate list, which is read as points.
// The bare-list fallback is tried once; anything else is an InvalidGeometryError.
func ParseDescriptor(v any) (Descriptor, error) {
	if d, ok := v.(Descriptor); ok {
		return d, d.Validate()
	}

	list, ok := asList(v)
	if ok && len(list) > 0 {
		if tag, ok := list[0].(string); ok {
			kind, err := ParseKind(tag)
			if err != nil {
				return Descriptor{}, err
			}
			if len(list) != 2 {
				return Descriptor{}, invalidf("%s descriptor takes exactly one coordinate list, got %d values", kind, len(list)-1)
			}
			return decodeTagged(kind, list[1])
		}
	}

	return decodeTagged(KindPoints, v)
}

func decodeTagged(kind Kind, v any) (Descriptor, error) {
	switch kind {
	case KindPoints, KindLine:
		coords, err := decodePairs(v)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%s: %w", kind, err)
		}
		d := Descriptor{Kind: kind, Coords: coords}
		return d, d.Validate()

	case KindPolygon:
		list, ok := ringList(v)
		if !ok {
			return Descriptor{}, invalidf("polygon: rings must be a list, got %T", v)
		}
		rings := make([][]Pair, 0, len(list))
		for i, raw := range list {
			ring, err := decodePairs(raw)
			if err != nil {
				return Descriptor{}, fmt.Errorf("polygon ring %d: %w", i, err)
			}
			rings = append(rings, ring)
		}
		d := Descriptor{Kind: KindPolygon, Rings: rings}
		return d, d.Validate()
	}

	return Descriptor{}, invalidf("unknown geometry kind %q", kind)
}

// ringList spreads typed ring slices into a list decodePairs understands.
func ringList(v any) ([]any, bool) {
	switch t := v.(type) {
	case [][]Pair:
		return spread(t), true
	case [][][2]float64:
		return spread(t), true
	case [][][]float64:
		return spread(t), true
	}
	return asList(v)
}

func spread[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func decodePairs(v any) ([]Pair, error) {
	switch t := v.(type) {
	case []Pair:
		out := make([]Pair, len(t))
		copy(out, t)
		return out, nil
	case [][2]float64:
		out := make([]Pair, len(t))
		for i, p := range t {
			out[i] = Pair(p)
		}
		return out, nil
	case [][]float64:
		out := make([]Pair, 0, len(t))
		for i, p := range t {
			if len(p) != 2 {
				return nil, invalidf("coordinate %d has %d values, want 2", i, len(p))
			}
			out = append(out, Pair{p[0], p[1]})
		}
		return out, nil
	}

	list, ok := asList(v)
	if !ok {
		return nil, invalidf("coordinates must be a list, got %T", v)
	}

	out := make([]Pair, 0, len(list))
	for i, raw := range list {
		p, err := decodePair(raw)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
		out = append(out, p)
	}

	return out, nil
}

func decodePair(v any) (Pair, error) {
	switch t := v.(type) {
	case Pair:
		return t, nil
	case [2]float64:
		return Pair(t), nil
	}

	list, ok := asList(v)
	if !ok {
		return Pair{}, invalidf("pair must be a list, got %T", v)
	}
	if len(list) != 2 {
		return Pair{}, invalidf("pair has %d values, want 2", len(list))
	}

	var p Pair
	for i, raw := range list {
		f, ok := number(raw)
		if !ok {
			return Pair{}, invalidf("pair value %d is not a finite number: %v", i, raw)
		}
		p[i] = f
	}

	return p, nil
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []float64:
		return spread(t), true
	case []int:
		return spread(t), true
	case [][]any:
		return spread(t), true
	case [][]float64:
		return spread(t), true
	}

	return nil, false
}

func number(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		var err error
		if f, err = t.Float64(); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// Validate checks that the descriptor carries data matching its kind.
func (d Descriptor) Validate() error {
	switch d.Kind {
	case KindPoints, KindLine:
		if d.Rings != nil {
			return invalidf("%s descriptor must not carry rings", d.Kind)
		}
		return validatePairs(d.Coords)
	case KindPolygon:
		if d.Coords != nil {
			return invalidf("polygon descriptor must not carry a bare coordinate list")
		}
		for i, ring := range d.Rings {
			if err := validatePairs(ring); err != nil {
				return fmt.Errorf("polygon ring %d: %w", i, err)
			}
		}
		return nil
	}

	return invalidf("unknown geometry kind %q", d.Kind)
}

func validatePairs(coords []Pair) error {
	for i, p := range coords {
		for _, f := range p {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return invalidf("coordinate %d is not finite", i)
			}
		}
	}
	return nil
}

// MarshalJSON writes the tagged form, e.g. ["line",[[1,2],[3,4]]].
func (d Descriptor) MarshalJSON() ([]byte, error) {
	if d.Kind == KindPolygon {
		rings := d.Rings
		if rings == nil {
			rings = [][]Pair{}
		}
		return json.Marshal([]any{d.Kind, rings})
	}

	coords := d.Coords
	if coords == nil {
		coords = []Pair{}
	}
	return json.Marshal([]any{d.Kind, coords})
}

// UnmarshalJSON accepts every shape ParseDescriptor does.
func (d *Descriptor) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	parsed, err := ParseDescriptor(raw)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// UnmarshalYAML accepts every shape ParseDescriptor does.
func (d *Descriptor) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}

	parsed, err := ParseDescriptor(raw)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}

// String returns the tagged JSON form.
func (d Descriptor) String() string {
	b, err := d.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%s(invalid)", d.Kind)
	}
	return string(b)
}
