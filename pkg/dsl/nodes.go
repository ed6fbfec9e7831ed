package dsl

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/flow"
)

// sectionHeaderRE matches "name-N" and "parent:name-N".
var sectionHeaderRE = regexp.MustCompile(`^(?:([A-Za-z_][A-Za-z0-9_]*):)?([A-Za-z_][A-Za-z0-9_]*)-(\d+)$`)

var nonIDRE = regexp.MustCompile(`[^a-z0-9]`)

// operator is a connection symbol. Longer symbols come first so "<->" is
// not read as "<".
type operator struct {
	symbol string
	kind   flow.Kind
	dashed bool
}

var operators = []operator{
	{"<->", flow.KindBidirectional, true},
	{"<>", flow.KindBidirectional, false},
	{"->", flow.KindTo, true},
	{"<-", flow.KindFrom, true},
	{">", flow.KindTo, false},
	{"<", flow.KindFrom, false},
}

// NodeID returns the ID of a node declared in a section: the section key and
// the lowercased name, with every other character replaced by '_'.
func NodeID(section, name string) string {
	base := nonIDRE.ReplaceAllString(strings.ToLower(name), "_")
	if section == "" {
		return base
	}
	return strings.ReplaceAll(section, ":", "_") + "_" + base
}

type label struct {
	name, hint string
}

func parseLabel(s string) label {
	name, hint, _ := strings.Cut(s, "/")
	return label{strings.TrimSpace(name), strings.TrimSpace(hint)}
}

// declaration is a node placed in a section row by a source line.
type declaration struct {
	id      string
	section string
	row     int
	label   label
}

// reference is a connection target as written.
type reference struct {
	section string // section of the line it appears on
	label   label
}

type pendingConnection struct {
	from   string
	to     *reference
	kind   flow.Kind
	dashed bool
}

// parseNodes parses the @nodes block. Targets are resolved after the whole
// block is read: a declaration in the same section first, then the only
// declaration of that name anywhere. Anything else becomes an unresolved
// node placed in no section.
func parseNodes(lines []line) (*flow.Graph, error) {
	g := flow.NewGraph()
	var (
		decls   = make(map[string]*declaration)
		byName  = make(map[string][]*declaration) // lowercased name -> declarations
		order   []any                             // *declaration or *reference, by first appearance
		pending []pendingConnection
		section string
		row     int
	)

	for _, l := range lines {
		if m := sectionHeaderRE.FindStringSubmatch(l.text); m != nil {
			n, err := strconv.Atoi(m[3])
			if err != nil || n < 1 {
				return nil, fserr.New(fserr.ErrCodeInvalidNodes, "line %d: row must be a positive number, got %q", l.n, m[3])
			}
			g.AddSection(m[1], m[2])
			section, row = flow.SectionKey(m[1], m[2]), n
			continue
		}
		if section == "" {
			return nil, fserr.New(fserr.ErrCodeInvalidNodes, "line %d: node %q outside a section header", l.n, l.text)
		}

		src, targets, op, err := splitConnection(l)
		if err != nil {
			return nil, err
		}
		lbl := parseLabel(src)
		if lbl.name == "" {
			return nil, fserr.New(fserr.ErrCodeInvalidNodes, "line %d: missing node name", l.n)
		}
		id := NodeID(section, lbl.name)
		d, ok := decls[id]
		if !ok {
			d = &declaration{id: id, section: section, row: row, label: lbl}
			decls[id] = d
			key := strings.ToLower(lbl.name)
			byName[key] = append(byName[key], d)
			order = append(order, d)
		} else if d.label.hint == "" {
			d.label.hint = lbl.hint
		}

		for _, t := range targets {
			ref := &reference{section: section, label: parseLabel(t)}
			if ref.label.name == "" {
				return nil, fserr.New(fserr.ErrCodeInvalidNodes, "line %d: empty connection target", l.n)
			}
			order = append(order, ref)
			pending = append(pending, pendingConnection{from: id, to: ref, kind: op.kind, dashed: op.dashed})
		}
	}

	resolve := func(ref *reference) string {
		if d, ok := decls[NodeID(ref.section, ref.label.name)]; ok {
			return d.id
		}
		if ds := byName[strings.ToLower(ref.label.name)]; len(ds) == 1 {
			return ds[0].id
		}
		return NodeID("", ref.label.name)
	}

	for _, item := range order {
		var n flow.Node
		switch it := item.(type) {
		case *declaration:
			n = flow.Node{ID: it.id, Name: it.label.name, Hint: it.label.hint, Section: it.section, Row: it.row}
		case *reference:
			id := resolve(it)
			if _, exists := g.Node(id); exists {
				continue
			}
			if d, ok := decls[id]; ok {
				n = flow.Node{ID: d.id, Name: d.label.name, Hint: d.label.hint, Section: d.section, Row: d.row}
			} else {
				n = flow.Node{ID: id, Name: it.label.name, Hint: it.label.hint}
			}
		}
		if _, err := g.AddNode(n); err != nil && !errors.Is(err, flow.ErrDuplicateNodeID) {
			return nil, fserr.Wrap(fserr.ErrCodeInvalidNodes, err, "node %q", n.ID)
		}
	}
	for _, pc := range pending {
		g.Connect(flow.Connection{From: pc.from, To: resolve(pc.to), Kind: pc.kind, Dashed: pc.dashed})
	}
	return g, nil
}

// splitConnection splits a node line at its connection operator. A line
// without an operator declares a standalone node.
func splitConnection(l line) (source string, targets []string, op operator, err error) {
	for _, o := range operators {
		src, rest, ok := strings.Cut(l.text, o.symbol)
		if !ok {
			continue
		}
		for _, t := range strings.Split(rest, ",") {
			if t = strings.TrimSpace(t); t != "" {
				targets = append(targets, t)
			}
		}
		if len(targets) == 0 {
			return "", nil, o, fserr.New(fserr.ErrCodeInvalidNodes, "line %d: %q has no target", l.n, o.symbol)
		}
		return strings.TrimSpace(src), targets, o, nil
	}
	return l.text, nil, operator{}, nil
}
