package dsl

import (
	"bufio"
	"bytes"
	"os"
	"strings"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/flow"
	"github.com/matzehuels/flowschem/pkg/style"
)

// Block headers.
const (
	HeaderStyle  = "@style"
	HeaderLayout = "@layout"
	HeaderNodes  = "@nodes"
)

// Document is a parsed .flow document.
type Document struct {
	Style  *style.Config
	Layout flow.Element // nil when the document has no @layout block
	Graph  *flow.Graph
}

// line is one meaningful source line with its 1-based number.
type line struct {
	n    int
	text string
}

// Parse parses a .flow document. Blocks may appear in any order; a missing
// block is treated as empty. Errors carry the line number they refer to.
func Parse(src []byte) (*Document, error) {
	if err := fserr.ValidateSource(src); err != nil {
		return nil, err
	}
	blocks, err := split(src)
	if err != nil {
		return nil, err
	}

	doc := &Document{Style: style.Default()}
	if err := parseStyle(blocks[HeaderStyle], doc.Style); err != nil {
		return nil, err
	}
	if err := doc.Style.Validate(); err != nil {
		return nil, err
	}
	if doc.Layout, err = parseLayout(blocks[HeaderLayout]); err != nil {
		return nil, err
	}
	if doc.Graph, err = parseNodes(blocks[HeaderNodes]); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFile reads and parses a .flow file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fserr.Wrap(fserr.ErrCodeFileNotFound, err, "flow file not found: %s", path)
		}
		return nil, fserr.Wrap(fserr.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Parse(data)
}

// split groups the lines of src by block. Blank lines and # comments are
// dropped. A header may carry content on the same line ("@layout [a][b]").
func split(src []byte) (map[string][]line, error) {
	blocks := make(map[string][]line)
	current := ""
	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), fserr.MaxSourceSize)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		if header, rest, ok := cutHeader(text); ok {
			if _, seen := blocks[header]; seen {
				return nil, fserr.New(fserr.ErrCodeInvalidInput, "line %d: duplicate %s block", n, header)
			}
			blocks[header] = nil
			current = header
			if rest != "" {
				blocks[header] = append(blocks[header], line{n, rest})
			}
			continue
		}
		if current == "" {
			return nil, fserr.New(fserr.ErrCodeInvalidInput, "line %d: content before the first block header", n)
		}
		blocks[current] = append(blocks[current], line{n, text})
	}
	if err := scanner.Err(); err != nil {
		return nil, fserr.Wrap(fserr.ErrCodeInvalidInput, err, "read source")
	}
	return blocks, nil
}

func cutHeader(text string) (header, rest string, ok bool) {
	for _, h := range []string{HeaderStyle, HeaderLayout, HeaderNodes} {
		if text == h {
			return h, "", true
		}
		if strings.HasPrefix(text, h+" ") || strings.HasPrefix(text, h+"\t") {
			return h, strings.TrimSpace(text[len(h):]), true
		}
	}
	return "", "", false
}

// parseStyle applies "key: value" lines to cfg.
func parseStyle(lines []line, cfg *style.Config) error {
	for _, l := range lines {
		key, value, ok := strings.Cut(l.text, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return fserr.New(fserr.ErrCodeInvalidStyle, "line %d: expected key: value, got %q", l.n, l.text)
		}
		if err := cfg.Set(key, strings.TrimSpace(value)); err != nil {
			return fserr.Wrap(fserr.ErrCodeInvalidStyle, err, "line %d", l.n)
		}
	}
	return nil
}
