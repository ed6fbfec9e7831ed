package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Geometry Serialization
// =============================================================================

// Layout is the serialization format of a rendered diagram: every
// coordinate a drawing layer needs, in pixels, origin top-left.
type Layout struct {
	ID     string  `json:"id,omitempty" bson:"id,omitempty"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Theme  string  `json:"theme,omitempty" bson:"theme,omitempty"`

	Segments []Segment `json:"segments" bson:"segments"`
	Nodes    []Box     `json:"nodes" bson:"nodes"`
	Wires    []Wire    `json:"wires" bson:"wires"`
	Merges   []Merge   `json:"merges,omitempty" bson:"merges,omitempty"`
	Stats    Stats     `json:"stats" bson:"stats"`
}

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Segment is the resolved bounds of one segment of the layout tree.
type Segment struct {
	Name   string  `json:"name,omitempty" bson:"name,omitempty"`
	Color  string  `json:"color" bson:"color"`
	Depth  int     `json:"depth" bson:"depth"`
	Leaf   bool    `json:"leaf,omitempty" bson:"leaf,omitempty"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Box is a positioned node. CenterX and Top locate the box; X is its left
// edge.
type Box struct {
	ID      string  `json:"id" bson:"id"`
	Label   string  `json:"label" bson:"label"`
	Hint    string  `json:"hint,omitempty" bson:"hint,omitempty"`
	Section string  `json:"section" bson:"section"`
	Row     int     `json:"row" bson:"row"`
	Column  float64 `json:"column" bson:"column"`
	CenterX float64 `json:"center_x" bson:"center_x"`
	Top     float64 `json:"top" bson:"top"`
	X       float64 `json:"x" bson:"x"`
	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
}

// Arrow is an arrowhead whose tip touches a node edge.
type Arrow struct {
	Tip      Point  `json:"tip" bson:"tip"`
	Pointing string `json:"pointing" bson:"pointing"` // "down" or "up"
}

// Wire is one routed connection. Merged wires end on the bus of a Merge and
// carry no arrows of their own.
type Wire struct {
	ID         int         `json:"id" bson:"id"`
	From       string      `json:"from" bson:"from"`
	To         string      `json:"to" bson:"to"`
	Kind       string      `json:"kind" bson:"kind"`
	Dashed     bool        `json:"dashed,omitempty" bson:"dashed,omitempty"`
	Cross      bool        `json:"cross,omitempty" bson:"cross,omitempty"`
	Straight   bool        `json:"straight,omitempty" bson:"straight,omitempty"`
	Merged     bool        `json:"merged,omitempty" bson:"merged,omitempty"`
	Direction  string      `json:"direction" bson:"direction"`
	SourceSide string      `json:"source_side" bson:"source_side"`
	TargetSide string      `json:"target_side" bson:"target_side"`
	Channels   map[int]int `json:"channels,omitempty" bson:"-"`
	Color      string      `json:"color,omitempty" bson:"color,omitempty"`
	Points     []Point     `json:"points" bson:"points"`
	Arrows     []Arrow     `json:"arrows,omitempty" bson:"arrows,omitempty"`
}

// Merge joins unidirectional wires into one target edge.
type Merge struct {
	Target    string   `json:"target" bson:"target"`
	Side      string   `json:"side" bson:"side"`
	Sources   []string `json:"sources" bson:"sources"`
	Cross     bool     `json:"cross,omitempty" bson:"cross,omitempty"`
	Dashed    bool     `json:"dashed,omitempty" bson:"dashed,omitempty"`
	Color     string   `json:"color,omitempty" bson:"color,omitempty"`
	Bus       [2]Point `json:"bus" bson:"bus"`
	Drop      [2]Point `json:"drop" bson:"drop"`
	Junctions []Point  `json:"junctions" bson:"junctions"`
	Arrow     Arrow    `json:"arrow" bson:"arrow"`
}

// Stats summarizes a layout.
type Stats struct {
	Nodes     int `json:"nodes" bson:"nodes"`
	Sections  int `json:"sections" bson:"sections"`
	Wires     int `json:"wires" bson:"wires"`
	Cross     int `json:"cross" bson:"cross"`
	Straight  int `json:"straight" bson:"straight"`
	Merges    int `json:"merges" bson:"merges"`
	Skipped   int `json:"skipped" bson:"skipped"`
	Crossings int `json:"crossings" bson:"crossings"`
}

// Node returns the box of a node.
func (l *Layout) Node(id string) (Box, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Box{}, false
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// A layout must have a positive size.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, fmt.Errorf("layout must have a positive size, got %gx%g", l.Width, l.Height)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
