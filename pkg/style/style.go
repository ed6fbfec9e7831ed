// Package style holds the style configuration of a FlowSchem diagram.
//
// A [Config] starts from [Default], is updated key by key from the @style
// block of a document ([Config.Set]) and may be overridden by a TOML file
// ([Config.DecodeTOML], [LoadFile]). Keys use the same kebab-case names in
// both places:
//
//	node-min-width: 140
//	node-padding: 8 12
//	theme: engineering
//
// The layout engine reads the sizing keys (node padding, minimum sizes,
// font sizes, page geometry); the remaining keys are consumed by the SVG
// sink.
package style

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	fserr "github.com/matzehuels/flowschem/pkg/errors"
)

// Config is the full set of style options.
type Config struct {
	SectionRadius   float64 `toml:"section-radius" json:"section-radius"`
	NodeRadius      float64 `toml:"node-radius" json:"node-radius"`
	NodeBorder      float64 `toml:"node-border" json:"node-border"`
	LineThickness   float64 `toml:"line-thickness" json:"line-thickness"`
	Font            string  `toml:"font" json:"font"`
	FontWeight      int     `toml:"font-weight" json:"font-weight"`
	FontSize        float64 `toml:"font-size" json:"font-size"`
	HintFont        string  `toml:"hint-font" json:"hint-font"`
	HintWeight      int     `toml:"hint-weight" json:"hint-weight"`
	HintSize        float64 `toml:"hint-size" json:"hint-size"`
	SectionPadding  string  `toml:"section-padding" json:"section-padding"`
	NodePadding     string  `toml:"node-padding" json:"node-padding"`
	Flow            string  `toml:"flow" json:"flow"`
	Uppercase       bool    `toml:"uppercase" json:"uppercase"`
	Theme           string  `toml:"theme" json:"theme"`
	LineTheme       bool    `toml:"line-theme" json:"line-theme"`
	PageSize        string  `toml:"page-size" json:"page-size"`
	PageOrientation string  `toml:"page-orientation" json:"page-orientation"`
	PageMargin      string  `toml:"page-margin" json:"page-margin"`
	PageWidth       float64 `toml:"page-width" json:"page-width,omitempty"`
	PageHeight      float64 `toml:"page-height" json:"page-height,omitempty"`
	NodeMinWidth    float64 `toml:"node-min-width" json:"node-min-width"`
	NodeMinHeight   float64 `toml:"node-min-height" json:"node-min-height"`
	NodeUniform     bool    `toml:"node-uniform" json:"node-uniform"`

	// Extra keeps keys this version does not know about, verbatim.
	Extra map[string]string `toml:"-" json:"extra,omitempty"`
}

// Default returns the default style.
func Default() *Config {
	return &Config{
		SectionRadius:   6,
		NodeRadius:      4,
		NodeBorder:      2,
		LineThickness:   2,
		Font:            "Roboto Mono",
		FontWeight:      500,
		FontSize:        14,
		HintFont:        "Roboto Mono",
		HintWeight:      300,
		HintSize:        11,
		SectionPadding:  "16 12 16 12",
		NodePadding:     "8 12 8 12",
		Flow:            "down",
		Uppercase:       true,
		Theme:           "default",
		PageSize:        "A4",
		PageOrientation: "landscape",
		PageMargin:      "10 10 10 10",
		NodeMinWidth:    120,
		NodeMinHeight:   60,
		NodeUniform:     true,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Extra = maps.Clone(c.Extra)
	return &out
}

type setter func(c *Config, raw string) error

func floatKey(field func(*Config) *float64) setter {
	return func(c *Config, raw string) error {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("must not be negative")
		}
		*field(c) = v
		return nil
	}
}

func intKey(field func(*Config) *int) setter {
	return func(c *Config, raw string) error {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		*field(c) = int(v)
		return nil
	}
}

func boolKey(field func(*Config) *bool) setter {
	return func(c *Config, raw string) error {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		*field(c) = v
		return nil
	}
}

func stringKey(field func(*Config) *string) setter {
	return func(c *Config, raw string) error {
		*field(c) = raw
		return nil
	}
}

func paddingKey(field func(*Config) *string) setter {
	return func(c *Config, raw string) error {
		if _, err := ParsePadding(raw); err != nil {
			return err
		}
		*field(c) = raw
		return nil
	}
}

var setters = map[string]setter{
	"section-radius":   floatKey(func(c *Config) *float64 { return &c.SectionRadius }),
	"node-radius":      floatKey(func(c *Config) *float64 { return &c.NodeRadius }),
	"node-border":      floatKey(func(c *Config) *float64 { return &c.NodeBorder }),
	"line-thickness":   floatKey(func(c *Config) *float64 { return &c.LineThickness }),
	"font":             stringKey(func(c *Config) *string { return &c.Font }),
	"font-weight":      intKey(func(c *Config) *int { return &c.FontWeight }),
	"font-size":        floatKey(func(c *Config) *float64 { return &c.FontSize }),
	"hint-font":        stringKey(func(c *Config) *string { return &c.HintFont }),
	"hint-weight":      intKey(func(c *Config) *int { return &c.HintWeight }),
	"hint-size":        floatKey(func(c *Config) *float64 { return &c.HintSize }),
	"section-padding":  paddingKey(func(c *Config) *string { return &c.SectionPadding }),
	"node-padding":     paddingKey(func(c *Config) *string { return &c.NodePadding }),
	"flow":             stringKey(func(c *Config) *string { return &c.Flow }),
	"uppercase":        boolKey(func(c *Config) *bool { return &c.Uppercase }),
	"theme":            stringKey(func(c *Config) *string { return &c.Theme }),
	"line-theme":       boolKey(func(c *Config) *bool { return &c.LineTheme }),
	"page-size":        stringKey(func(c *Config) *string { return &c.PageSize }),
	"page-orientation": stringKey(func(c *Config) *string { return &c.PageOrientation }),
	"page-margin":      paddingKey(func(c *Config) *string { return &c.PageMargin }),
	"page-width":       floatKey(func(c *Config) *float64 { return &c.PageWidth }),
	"page-height":      floatKey(func(c *Config) *float64 { return &c.PageHeight }),
	"node-min-width":   floatKey(func(c *Config) *float64 { return &c.NodeMinWidth }),
	"node-min-height":  floatKey(func(c *Config) *float64 { return &c.NodeMinHeight }),
	"node-uniform":     boolKey(func(c *Config) *bool { return &c.NodeUniform }),
}

// Keys returns every known style key, sorted.
func Keys() []string {
	return slices.Sorted(maps.Keys(setters))
}

// Set assigns a single key from its textual value. Unknown keys are stored
// in Extra. A value that does not convert to the key's type is an
// ErrCodeInvalidStyle error and leaves the config unchanged.
func (c *Config) Set(key, raw string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	raw = strings.TrimSpace(raw)
	set, ok := setters[key]
	if !ok {
		if c.Extra == nil {
			c.Extra = make(map[string]string)
		}
		c.Extra[key] = raw
		return nil
	}
	if err := set(c, raw); err != nil {
		return fserr.Wrap(fserr.ErrCodeInvalidStyle, err, "invalid value %q for %s", raw, key)
	}
	return nil
}

// Validate checks the values that have a closed set of options.
func (c *Config) Validate() error {
	if _, ok := themes[c.Theme]; !ok {
		return fserr.New(fserr.ErrCodeInvalidStyle, "unknown theme %q (available: %s)", c.Theme, strings.Join(ThemeNames(), ", "))
	}
	if _, ok := pageSizes[c.PageSize]; !ok && c.PageSize != PageCustom {
		return fserr.New(fserr.ErrCodeInvalidStyle, "unknown page-size %q", c.PageSize)
	}
	switch c.PageOrientation {
	case "landscape", "portrait":
	default:
		return fserr.New(fserr.ErrCodeInvalidStyle, "page-orientation must be landscape or portrait, got %q", c.PageOrientation)
	}
	if c.Flow != "down" {
		return fserr.New(fserr.ErrCodeUnsupported, "flow %q is not supported", c.Flow)
	}
	for key, v := range map[string]string{"section-padding": c.SectionPadding, "node-padding": c.NodePadding, "page-margin": c.PageMargin} {
		if _, err := ParsePadding(v); err != nil {
			return fserr.Wrap(fserr.ErrCodeInvalidStyle, err, "invalid %s", key)
		}
	}
	if c.FontSize <= 0 || c.HintSize <= 0 {
		return fserr.New(fserr.ErrCodeInvalidStyle, "font sizes must be positive")
	}
	return nil
}

// NodeInsets returns the parsed node padding, or the default on error.
func (c *Config) NodeInsets() Padding {
	return paddingOr(c.NodePadding, Default().NodePadding)
}

// SectionInsets returns the parsed section padding, or the default on error.
func (c *Config) SectionInsets() Padding {
	return paddingOr(c.SectionPadding, Default().SectionPadding)
}

func paddingOr(s, fallback string) Padding {
	if p, err := ParsePadding(s); err == nil {
		return p
	}
	p, _ := ParsePadding(fallback)
	return p
}
