package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer generates cache keys for each kind of cached value.
type Keyer interface {
	// LayoutKey names the positioned graph for one dataset and view.
	LayoutKey(datasetHash string, opts LayoutKeyOpts) string
	// ArtifactKey names a rendered artifact (DOT, SVG) of a positioned graph.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the inputs that change a layout besides the dataset.
type LayoutKeyOpts struct {
	Kind      string `json:"kind"`
	Direction string `json:"direction"`
}

// ArtifactKeyOpts holds the inputs that change a rendered artifact besides
// the layout.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Search    string `json:"search,omitempty"`
	Highlight string `json:"highlight,omitempty"`
}

// DefaultKeyer is the standard [Keyer]. Keys read "layout:<kind>:<digest>"
// and "artifact:<format>:<digest>", the digest covering every option.
type DefaultKeyer struct{}

func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return "layout:" + opts.Kind + ":" + digest(datasetHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return "artifact:" + opts.Format + ":" + digest(layoutHash, opts)
}

// ScopedKeyer prefixes another keyer's keys, letting several deployments
// share one Redis database.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "codescope:prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(datasetHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// Hash is the hex SHA-256 of data. Datasets and views are identified by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func digest(base string, opts any) string {
	b, _ := json.Marshal([]any{base, opts})
	return Hash(b)
}
