package cache

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of a chart rendered from the table with
	// hash tableHash.
	ArtifactKey(tableHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts lists every setting that changes a rendered chart.
type ArtifactKeyOpts struct {
	Kind      string  `json:"kind"`
	Title     string  `json:"title"`
	FixBounds bool    `json:"fix_bounds"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	DPI       int     `json:"dpi"`
	Resamples int     `json:"resamples,omitempty"`
	Level     float64 `json:"level,omitempty"`
	Seed      uint64  `json:"seed,omitempty"`
}

// DefaultKeyer hashes its inputs into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(tableHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", tableHash, opts)
}
