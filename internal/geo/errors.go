package geo

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is matched by every InvalidGeometryError.
var ErrInvalidGeometry = errors.New("invalid geometry")

// InvalidGeometryError reports a descriptor with a malformed pair, ring or tag.
// Index is the position of the descriptor in its geometry list, -1 if unknown.
type InvalidGeometryError struct {
	Reason string
	Index  int
}

func (e *InvalidGeometryError) Error() string {
	return "invalid geometry: " + e.Reason
}

// Is reports whether target is ErrInvalidGeometry.
func (e *InvalidGeometryError) Is(target error) bool {
	return target == ErrInvalidGeometry
}

func invalidf(format string, args ...any) error {
	return &InvalidGeometryError{Reason: fmt.Sprintf(format, args...), Index: -1}
}

// AtIndex records the descriptor position i in the InvalidGeometryError
// wrapped by err and prefixes err with it.
func AtIndex(err error, i int) error {
	var ige *InvalidGeometryError
	if errors.As(err, &ige) {
		ige.Index = i
	}
	return fmt.Errorf("geometry %d: %w", i, err)
}
