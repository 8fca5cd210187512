package cache

// GraphKeyOpts are the assembly options that change an assembled graph.
type GraphKeyOpts struct {
	MaxGenerated      int      `json:"max_generated"`
	DefaultLinkLength float64  `json:"default_link_length"`
	Palette           []string `json:"palette,omitempty"`
	ValidateSchema    bool     `json:"validate_schema"`
}

// ExportKeyOpts are the options that change an exported artifact.
type ExportKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
	Hidden   bool   `json:"hidden"`
}

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// GraphKey identifies the assembled graph of a model.
	GraphKey(modelHash string, opts GraphKeyOpts) string
	// ExportKey identifies an artifact rendered from an assembled graph.
	ExportKey(graphHash string, opts ExportKeyOpts) string
}

// DefaultKeyer hashes the stage inputs into fixed length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey returns graph:hash(modelHash, opts).
func (DefaultKeyer) GraphKey(modelHash string, opts GraphKeyOpts) string {
	return hashKey("graph", modelHash, opts)
}

// ExportKey returns export:hash(graphHash, opts).
func (DefaultKeyer) ExportKey(graphHash string, opts ExportKeyOpts) string {
	return hashKey("export", graphHash, opts)
}
