package pipeline

import (
	"github.com/matzehuels/flowschem/pkg/dsl"
	fserr "github.com/matzehuels/flowschem/pkg/errors"
)

// Parse parses the source document and applies the TOML style overrides on
// top of its @style block.
func Parse(opts Options) (*dsl.Document, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}
	doc, err := dsl.Parse(opts.Source)
	if err != nil {
		return nil, err
	}
	if len(opts.StyleTOML) > 0 {
		if err := doc.Style.DecodeTOML(opts.StyleTOML); err != nil {
			return nil, err
		}
	}
	if doc.Layout == nil {
		return nil, fserr.New(fserr.ErrCodeInvalidLayout, "%s: document has no @layout block", opts.Name)
	}
	return doc, nil
}
