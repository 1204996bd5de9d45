package view

import (
	"encoding/json"
	"math"

	"github.com/woozymasta/leafview/internal/config"
)

// CenterZoom is an explicit map center and zoom.
type CenterZoom struct {
	Lat  float64
	Lon  float64
	Zoom float64
}

// Settings are the caller options merged over the configured defaults.
type Settings struct {
	// Center is nil when the map should fit the feature bounds.
	Center *CenterZoom
	// Extra holds options with no built-in meaning.
	Extra Options

	LeafletJSURL  string
	LeafletCSSURL string
	TileLayerURL  string
	Color         string
	Width         int
	Height        int
	Opacity       float64
}

// Settings resolves the view options against defaults.
func (v *View) Settings(defaults config.Defaults) (Settings, error) {
	s := Settings{
		Width:         defaults.Width,
		Height:        defaults.Height,
		LeafletJSURL:  defaults.LeafletJSURL,
		LeafletCSSURL: defaults.LeafletCSSURL,
		TileLayerURL:  defaults.TileLayerURL,
		Color:         defaults.Color,
		Opacity:       defaults.Opacity,
		Extra:         Options{},
	}

	for opt, val := range v.options {
		var err error
		switch opt {
		case Width:
			s.Width, err = pixels(opt, val)
		case Height:
			s.Height, err = pixels(opt, val)
		case LeafletJSURL:
			s.LeafletJSURL, err = text(opt, val)
		case LeafletCSSURL:
			s.LeafletCSSURL, err = text(opt, val)
		case TileLayerURL:
			s.TileLayerURL, err = text(opt, val)
		case Color:
			s.Color, err = text(opt, val)
		case Opacity:
			s.Opacity, err = float(opt, val)
			if err == nil && (s.Opacity < 0 || s.Opacity > 1) {
				err = &OptionValueError{Option: opt, Value: val, Reason: "must be between 0 and 1"}
			}
		case Center:
			s.Center, err = centerZoom(val)
		default:
			s.Extra[opt] = val
		}
		if err != nil {
			return Settings{}, err
		}
	}

	return s, nil
}

func text(opt Option, val any) (string, error) {
	s, ok := val.(string)
	if !ok || s == "" {
		return "", &OptionValueError{Option: opt, Value: val, Reason: "must be a non-empty string"}
	}
	return s, nil
}

func float(opt Option, val any) (float64, error) {
	var f float64
	switch t := val.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		var err error
		if f, err = t.Float64(); err != nil {
			return 0, &OptionValueError{Option: opt, Value: val, Reason: "must be a number"}
		}
	default:
		return 0, &OptionValueError{Option: opt, Value: val, Reason: "must be a number"}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &OptionValueError{Option: opt, Value: val, Reason: "must be finite"}
	}
	return f, nil
}

func pixels(opt Option, val any) (int, error) {
	f, err := float(opt, val)
	if err != nil {
		return 0, err
	}
	if f <= 0 || f != math.Trunc(f) {
		return 0, &OptionValueError{Option: opt, Value: val, Reason: "must be a positive whole number of pixels"}
	}
	return int(f), nil
}

// centerZoom accepts [lat, lon, zoom], [[lat, lon], zoom] or a CenterZoom.
func centerZoom(val any) (*CenterZoom, error) {
	bad := &OptionValueError{Option: Center, Value: val, Reason: "must be [lat, lon, zoom]"}

	switch t := val.(type) {
	case CenterZoom:
		return &t, nil
	case *CenterZoom:
		if t == nil {
			return nil, bad
		}
		c := *t
		return &c, nil
	case []float64:
		if len(t) != 3 {
			return nil, bad
		}
		return &CenterZoom{Lat: t[0], Lon: t[1], Zoom: t[2]}, nil
	case []any:
		items := t
		if len(t) == 2 {
			latLon, ok := pairItems(t[0])
			if !ok {
				return nil, bad
			}
			items = []any{latLon[0], latLon[1], t[1]}
		}
		if len(items) != 3 {
			return nil, bad
		}

		var nums [3]float64
		for i, item := range items {
			f, err := float(Center, item)
			if err != nil {
				return nil, bad
			}
			nums[i] = f
		}
		return &CenterZoom{Lat: nums[0], Lon: nums[1], Zoom: nums[2]}, nil
	}

	return nil, bad
}

// pairItems returns the two values of a [lat, lon] list.
func pairItems(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, len(t) == 2
	case []float64:
		if len(t) == 2 {
			return []any{t[0], t[1]}, true
		}
	}
	return nil, false
}
