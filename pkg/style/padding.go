package style

import (
	"fmt"
	"strconv"
	"strings"
)

// Padding is a four-sided inset in pixels.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns Left + Right.
func (p Padding) Horizontal() float64 { return p.Left + p.Right }

// Vertical returns Top + Bottom.
func (p Padding) Vertical() float64 { return p.Top + p.Bottom }

// Scale multiplies every side by f.
func (p Padding) Scale(f float64) Padding {
	return Padding{Top: p.Top * f, Right: p.Right * f, Bottom: p.Bottom * f, Left: p.Left * f}
}

// ParsePadding parses a CSS-like padding shorthand with one ("all"), two
// ("vertical horizontal") or four ("top right bottom left") values.
func ParsePadding(s string) (Padding, error) {
	fields := strings.Fields(s)
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Padding{}, fmt.Errorf("padding %q: %w", s, err)
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return Padding{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Padding{vals[0], vals[1], vals[0], vals[1]}, nil
	case 4:
		return Padding{vals[0], vals[1], vals[2], vals[3]}, nil
	default:
		return Padding{}, fmt.Errorf("padding %q: want 1, 2 or 4 values, got %d", s, len(vals))
	}
}
