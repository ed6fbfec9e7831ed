package style

import (
	"math"
	"os"

	"github.com/BurntSushi/toml"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
)

// MMToPx converts millimetres to pixels at 96 DPI.
const MMToPx = 3.78

// PageCustom selects page-width/page-height instead of a named size.
const PageCustom = "custom"

// Page sizes in millimetres, landscape.
var pageSizes = map[string][2]float64{
	"A4":     {297, 210},
	"A3":     {420, 297},
	"letter": {279, 216},
	"legal":  {356, 216},
}

// PagePixels returns the page width and height in pixels. Unknown sizes fall
// back to A4; a custom size with missing dimensions uses the A4 ones.
func (c *Config) PagePixels() (width, height float64) {
	dim, ok := pageSizes[c.PageSize]
	if !ok {
		dim = pageSizes["A4"]
	}
	if c.PageSize == PageCustom {
		if c.PageWidth > 0 {
			dim[0] = c.PageWidth
		}
		if c.PageHeight > 0 {
			dim[1] = c.PageHeight
		}
	}
	if c.PageOrientation == "portrait" {
		dim[0], dim[1] = dim[1], dim[0]
	}
	return math.Round(dim[0] * MMToPx), math.Round(dim[1] * MMToPx)
}

// MarginPixels returns the page margin in pixels. The configured value is
// in millimetres; an unparsable value gives 38px on every side.
func (c *Config) MarginPixels() Padding {
	p, err := ParsePadding(c.PageMargin)
	if err != nil {
		return Padding{38, 38, 38, 38}
	}
	return p.Scale(MMToPx)
}

// DecodeTOML overlays the keys present in a TOML document onto c. Keys
// absent from the document keep their current values.
func (c *Config) DecodeTOML(data []byte) error {
	next := c.Clone()
	md, err := toml.Decode(string(data), next)
	if err != nil {
		return fserr.Wrap(fserr.ErrCodeInvalidStyle, err, "decode style")
	}
	for _, k := range md.Undecoded() {
		if next.Extra == nil {
			next.Extra = make(map[string]string)
		}
		next.Extra[k.String()] = ""
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = *next
	return nil
}

// LoadFile reads a TOML style file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fserr.Wrap(fserr.ErrCodeFileNotFound, err, "style file %s", path)
		}
		return nil, fserr.Wrap(fserr.ErrCodeInvalidStyle, err, "read %s", path)
	}
	c := Default()
	if err := c.DecodeTOML(data); err != nil {
		return nil, err
	}
	return c, nil
}
