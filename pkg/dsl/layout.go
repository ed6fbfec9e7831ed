package dsl

import (
	"strings"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/flow"
)

// parseLayout parses the bracket expression of the @layout block. Lines
// are joined, so an expression may span several lines.
//
//	[a][b]              a and b side by side
//	[a]/[b]             a above b
//	[top:2[x][y]]       segment "top", color key 2, holding x and y
//	[[x]/[y]][z]        anonymous container beside z
func parseLayout(lines []line) (flow.Element, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l.text)
	}
	p := &layoutParser{src: sb.String(), line: lines[0].n}
	root, err := p.sequence(0)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos])
	}
	if root == nil {
		return nil, p.errorf("layout has no segments")
	}
	return root, nil
}

type layoutParser struct {
	src  string
	pos  int
	line int
}

func (p *layoutParser) errorf(format string, args ...any) error {
	return fserr.New(fserr.ErrCodeInvalidLayout, "line %d: "+format, append([]any{p.line}, args...)...)
}

// sequence parses bracket groups up to a closing bracket or the end of
// input. '/' starts a new row of groups stacked below the previous one.
func (p *layoutParser) sequence(depth int) (flow.Element, error) {
	var rows [][]flow.Element
	var current []flow.Element
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; c {
		case '[':
			p.pos++
			el, err := p.group(depth + 1)
			if err != nil {
				return nil, err
			}
			current = append(current, el)
		case '/':
			p.pos++
			rows = append(rows, current)
			current = nil
		case ']':
			if depth == 0 {
				return nil, p.errorf("unbalanced ']' at offset %d", p.pos)
			}
			rows = append(rows, current)
			return stack(rows), nil
		case ' ', '\t':
			p.pos++
		default:
			return nil, p.errorf("unexpected %q at offset %d, expected '[' or '/'", c, p.pos)
		}
	}
	if depth > 0 {
		return nil, p.errorf("unbalanced '[': missing %d closing bracket(s)", depth)
	}
	rows = append(rows, current)
	return stack(rows), nil
}

// group parses the inside of one bracket pair, after its '['.
func (p *layoutParser) group(depth int) (flow.Element, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '[' && p.src[p.pos] != ']' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return nil, p.errorf("unbalanced '[': missing %d closing bracket(s)", depth)
	}
	name, colorKey := nameAndColor(p.src[start:p.pos])

	if p.src[p.pos] == ']' {
		p.pos++
		return &flow.Segment{Name: name, ColorKey: colorKey}, nil
	}

	inner, err := p.sequence(depth)
	if err != nil {
		return nil, err
	}
	p.pos++ // closing ']'
	if name == "" && colorKey == "" {
		if inner == nil {
			return &flow.Segment{}, nil
		}
		return inner, nil
	}
	seg := &flow.Segment{Name: name, ColorKey: colorKey}
	switch e := inner.(type) {
	case *flow.Container:
		seg.Direction, seg.Children = e.Direction, e.Children
	case *flow.Segment:
		seg.Direction, seg.Children = flow.Row, []flow.Element{e}
	}
	return seg, nil
}

// stack turns rows of side-by-side elements into a tree. Rows with one
// element and containers with one child collapse.
func stack(rows [][]flow.Element) flow.Element {
	var children []flow.Element
	for _, row := range rows {
		switch len(row) {
		case 0:
		case 1:
			children = append(children, row[0])
		default:
			children = append(children, &flow.Container{Direction: flow.Row, Children: row})
		}
	}
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}
	return &flow.Container{Direction: flow.Column, Children: children}
}

func nameAndColor(s string) (name, colorKey string) {
	name, colorKey, _ = strings.Cut(s, ":")
	return strings.TrimSpace(name), strings.TrimSpace(colorKey)
}
