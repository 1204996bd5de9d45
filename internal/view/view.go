// Package view builds map views from a mixed list of geometries and options.
package view

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/woozymasta/leafview/internal/geo"
)

// Option marks the next argument of New as an option value.
type Option string

// Recognized options. Other Option values are kept in the view untouched.
const (
	Width         Option = "width"
	Height        Option = "height"
	LeafletJSURL  Option = "leaflet-js-url"
	LeafletCSSURL Option = "leaflet-css-url"
	TileLayerURL  Option = "tile-layer-url"
	Color         Option = "color"
	Opacity       Option = "opacity"
	Center        Option = "view"
)

// Options maps an option to the value the caller passed for it.
type Options map[Option]any

// View is an immutable pairing of geometries and caller options.
type View struct {
	geometries []geo.Descriptor
	options    Options
	text       string
}

// New scans args left to right. An Option consumes the argument after it;
// a repeated Option overwrites the earlier value. Every other argument is a
// geometry descriptor, decoded with geo.ParseDescriptor.
func New(args ...any) (*View, error) {
	v := &View{options: Options{}}
	echo := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		if opt, ok := args[i].(Option); ok {
			if i+1 >= len(args) {
				return nil, &MissingOptionValueError{Option: opt}
			}
			v.options[opt] = args[i+1]
			echo = append(echo, ":"+string(opt), formatValue(args[i+1]))
			i++
			continue
		}

		d, err := geo.ParseDescriptor(args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, geo.AtIndex(err, len(v.geometries)))
		}
		v.geometries = append(v.geometries, d)
		echo = append(echo, d.String())
	}

	v.text = "leafview(" + strings.Join(echo, " ") + ")"
	return v, nil
}

// FromMap builds a view from decoded request data.
func FromMap(geometries []geo.Descriptor, options map[string]any) (*View, error) {
	return New(MapArgs(geometries, options)...)
}

// MapArgs flattens geometries and options into an argument list for New.
// Options follow the geometries in key order so the textual form is stable.
func MapArgs(geometries []geo.Descriptor, options map[string]any) []any {
	args := make([]any, 0, len(geometries)+2*len(options))
	for _, d := range geometries {
		args = append(args, d)
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		args = append(args, Option(k), options[k])
	}

	return args
}

// Geometries returns a copy of the descriptors in call order.
func (v *View) Geometries() []geo.Descriptor {
	out := make([]geo.Descriptor, len(v.geometries))
	copy(out, v.geometries)
	return out
}

// Options returns a copy of the caller options.
func (v *View) Options() Options {
	out := make(Options, len(v.options))
	for k, val := range v.options {
		out[k] = val
	}
	return out
}

// Lookup returns the caller value for opt.
func (v *View) Lookup(opt Option) (any, bool) {
	val, ok := v.options[opt]
	return val, ok
}

// String echoes the call that built the view.
func (v *View) String() string {
	return v.text
}

func formatValue(val any) string {
	if b, err := json.Marshal(val); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", val)
}
