package flow

import "strings"

// Direction is the axis along which an element lays out its children.
type Direction int

const (
	// Row places children side by side, left to right.
	Row Direction = iota
	// Column stacks children top to bottom.
	Column
)

// String returns "row" or "column".
func (d Direction) String() string {
	if d == Column {
		return "column"
	}
	return "row"
}

// ParseDirection converts "row" or "column" into a Direction.
// Anything else is treated as Row.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "column") {
		return Column
	}
	return Row
}

// Element is a node of the segment tree. It is implemented only by
// [*Container] and [*Segment].
type Element interface {
	element()
	// Kids returns the element's children in layout order.
	Kids() []Element
	// Axis returns the direction the children are laid out in.
	Axis() Direction
}

// Container is an anonymous grouping of child elements.
type Container struct {
	Direction Direction
	Children  []Element
}

// Segment is a named region. A segment without children is a leaf and
// holds the node content of the section with the same name.
type Segment struct {
	Name      string
	ColorKey  string
	Direction Direction
	Children  []Element
}

func (*Container) element() {}
func (*Segment) element()   {}

func (c *Container) Kids() []Element { return c.Children }
func (c *Container) Axis() Direction { return c.Direction }
func (s *Segment) Kids() []Element   { return s.Children }
func (s *Segment) Axis() Direction   { return s.Direction }

// IsLeaf reports whether the segment holds node content.
func (s *Segment) IsLeaf() bool { return len(s.Children) == 0 }

// Leaf is a leaf segment together with the name of its closest named
// ancestor segment, which qualifies its section lookup.
type Leaf struct {
	Segment *Segment
	Parent  string
}

// Leaves returns every leaf segment of the tree in depth-first order.
func Leaves(root Element) []Leaf {
	var out []Leaf
	var walk func(e Element, parent string)
	walk = func(e Element, parent string) {
		switch el := e.(type) {
		case *Container:
			for _, c := range el.Children {
				walk(c, parent)
			}
		case *Segment:
			if el.IsLeaf() {
				out = append(out, Leaf{Segment: el, Parent: parent})
				return
			}
			next := parent
			if el.Name != "" {
				next = el.Name
			}
			for _, c := range el.Children {
				walk(c, next)
			}
		}
	}
	if root != nil {
		walk(root, "")
	}
	return out
}

// Depth returns the maximum nesting depth of the tree. A single leaf has
// depth 1.
func Depth(root Element) int {
	if root == nil {
		return 0
	}
	max := 0
	for _, c := range root.Kids() {
		if d := Depth(c); d > max {
			max = d
		}
	}
	return max + 1
}
