package engine

import (
	"time"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/stgraph"
)

// Result holds the outcome of a single engine execution.
type Result struct {
	// Graph is the augmented graph the operation ran on.
	Graph *stgraph.Graph `json:"-"`

	// GraphID is the id from the input block header.
	GraphID string `json:"graph_id"`

	// GraphHash is the content hash of the input block.
	GraphHash string `json:"graph_hash"`

	// Operation is the operation that produced this result.
	Operation string `json:"operation"`

	// Exactly one of the following is set, matching Operation.
	Width     *WidthResult     `json:"width,omitempty"`
	Antichain *AntichainResult `json:"antichain,omitempty"`
	Safety    *SafetyResult    `json:"safety,omitempty"`
	Decompose *DecomposeResult `json:"decompose,omitempty"`

	// Artifact is the rendered output when a format was requested.
	Artifact []byte `json:"-"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo `json:"cache_info"`
}

// WidthResult reports a width computation.
type WidthResult struct {
	Width int64 `json:"width"`

	// Condensation statistics, set when the computation ran on the
	// cyclic condensation.
	Condensed      bool `json:"condensed,omitempty"`
	NontrivialSCCs int  `json:"nontrivial_sccs,omitempty"`
	LargestSCCSize int  `json:"largest_scc_size,omitempty"`
}

// AntichainResult reports a maximum edge antichain.
type AntichainResult struct {
	Weight int64         `json:"weight"`
	Chain  []digraph.Key `json:"chain"`
}

// SafetyResult reports safety certificates.
type SafetyResult struct {
	Mode      string             `json:"mode"`
	Sequences []stgraph.Sequence `json:"sequences"`

	// Incompatibility statistics over the certificates, set when the
	// options requested condensation.
	Incompatible      []stgraph.Sequence `json:"incompatible,omitempty"`
	IncompatibleCount int                `json:"incompatible_count,omitempty"`
}

// DecomposeResult reports a max-bottleneck flow decomposition.
type DecomposeResult struct {
	Paths   [][]string `json:"paths"`
	Weights []int64    `json:"weights"`
}

// Stats contains engine execution statistics.
type Stats struct {
	NodeCount   int           `json:"node_count"`
	EdgeCount   int           `json:"edge_count"`
	LoadTime    time.Duration `json:"load_time"`
	AnalyzeTime time.Duration `json:"analyze_time"`
	RenderTime  time.Duration `json:"render_time"`
}

// CacheInfo tracks cache hits for each engine stage.
type CacheInfo struct {
	AnalyzeHit bool `json:"analyze_hit"` // Whether the analysis result came from cache
	RenderHit  bool `json:"render_hit"`  // Whether the artifact came from cache
}
