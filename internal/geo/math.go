package geo

import "github.com/paulmach/orb"

// Transpose converts a caller pair (lat, lon) into a GeoJSON position (lon, lat).
func Transpose(p Pair) orb.Point {
	return orb.Point{p[1], p[0]}
}

// Untranspose is the inverse of Transpose.
func Untranspose(p orb.Point) Pair {
	return Pair{p[1], p[0]}
}

func transposeAll(coords []Pair) []orb.Point {
	out := make([]orb.Point, len(coords))
	for i, p := range coords {
		out[i] = Transpose(p)
	}
	return out
}

// Bound returns the bounding box of every position in the collection in
// (lon, lat) order. ok is false when the collection holds no positions.
func (c Collection) Bound() (b orb.Bound, ok bool) {
	for _, f := range c.Features {
		if f.Geometry == nil {
			continue
		}
		gb := f.Geometry.Bound()
		if gb.IsEmpty() {
			continue
		}
		if !ok {
			b, ok = gb, true
			continue
		}
		b = b.Union(gb)
	}

	return b, ok
}
