package style

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

var themes = map[string][]string{
	"default": {
		"#3498db", "#e74c3c", "#2ecc71", "#9b59b6",
		"#f39c12", "#1abc9c", "#e91e63", "#00bcd4",
	},
	"monochrome": {
		"#333333", "#555555", "#777777", "#999999",
		"#444444", "#666666", "#888888", "#aaaaaa",
	},
	"engineering": {
		"#2980b9", "#34495e", "#7f8c8d", "#2c3e50",
		"#3498db", "#95a5a6", "#1a5276", "#566573",
	},
	"warm": {
		"#e74c3c", "#e67e22", "#f1c40f", "#d35400",
		"#c0392b", "#f39c12", "#e74c3c", "#e67e22",
	},
	"cool": {
		"#3498db", "#2ecc71", "#9b59b6", "#1abc9c",
		"#2980b9", "#27ae60", "#8e44ad", "#16a085",
	},
	"high-contrast": {
		"#ff0000", "#00ff00", "#0000ff", "#ffff00",
		"#ff00ff", "#00ffff", "#ff8800", "#8800ff",
	},
}

// Dash patterns for SVG stroke-dasharray, solid first.
var linePatterns = []string{
	"",
	"10,5",
	"5,5",
	"2,3",
	"10,3,3,3",
	"10,3,3,3,3,3",
}

// ThemeNames returns the available theme names, sorted.
func ThemeNames() []string {
	return slices.Sorted(maps.Keys(themes))
}

// Palette returns the colors of a theme, falling back to "default".
func Palette(theme string) []string {
	if p, ok := themes[theme]; ok {
		return p
	}
	return themes["default"]
}

// SegmentColor resolves the color of a segment. A color key that is a
// literal "#rrggbb" is used as is, an integer key indexes the palette, and
// anything else falls back to the segment's positional index.
func (c *Config) SegmentColor(index int, key string) string {
	p := Palette(c.Theme)
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "#") {
		return key
	}
	if n, err := strconv.Atoi(key); err == nil {
		index = n
	}
	return p[((index%len(p))+len(p))%len(p)]
}

// LinePattern returns the dash pattern at index i, wrapping around.
func LinePattern(i int) string {
	if i < 0 {
		i = -i
	}
	return linePatterns[i%len(linePatterns)]
}

// DashedPattern is the pattern used for dashed connections.
func DashedPattern() string { return linePatterns[1] }
