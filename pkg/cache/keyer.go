package cache

// keyVersion is bumped when the format of a cached value changes.
const keyVersion = "v1"

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// LayoutKey is the key of a layout computed from a document.
	LayoutKey(sourceHash string, opts LayoutKeyOpts) string
	// ArtifactKey is the key of one rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the document that change a layout.
type LayoutKeyOpts struct {
	// StyleHash is the hash of the effective style, after overrides.
	StyleHash string `json:"style"`
	// Measurer names the text measurement used for node sizing.
	Measurer string `json:"measurer"`
}

// ArtifactKeyOpts are the inputs besides the layout that change an output.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	StyleHash string  `json:"style"`
	Detailed  bool    `json:"detailed,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey hashes the source hash together with the options.
func (DefaultKeyer) LayoutKey(sourceHash string, opts LayoutKeyOpts) string {
	return hashKey("layout:"+keyVersion, sourceHash, opts)
}

// ArtifactKey hashes the layout hash together with the options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+keyVersion, layoutHash, opts)
}
