package engine

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
)

// Valid values for the enumerated options.
var (
	ValidOperations = map[string]bool{
		"width":     true,
		"antichain": true,
		"safety":    true,
		"decompose": true,
		"render":    true,
	}

	ValidSafetyModes = map[string]bool{
		"paths":      true,
		"sequences":  true,
		"dominators": true,
	}

	ValidFormats = map[string]bool{
		"dot": true,
		"svg": true,
		"png": true,
	}
)

// Options configures a single engine execution.
type Options struct {
	// Input options
	Source           string   `json:"source,omitempty"` // Local path or http(s) URL
	Text             string   `json:"text,omitempty"`   // Raw graph text; takes precedence over Source
	Index            int      `json:"index,omitempty"`  // Block index within multi-graph input
	AdditionalStarts []string `json:"additional_starts,omitempty"`
	AdditionalEnds   []string `json:"additional_ends,omitempty"`
	Refresh          bool     `json:"refresh,omitempty"` // Bypass remote response caching

	// Analysis options
	Operation  string                `json:"operation"`
	Ignore     []digraph.Key         `json:"ignore,omitempty"`      // Demand edges excluded from width
	Condense   bool                  `json:"condense,omitempty"`    // Run width on the cyclic condensation
	Weights    map[digraph.Key]int64 `json:"-"`                     // Antichain edge weights (nil = unit)
	SafetyMode string                `json:"safety_mode,omitempty"` // paths, sequences, or dominators
	Edges      []digraph.Key         `json:"edges,omitempty"`       // Safety targets (empty = all base edges)
	Workers    int                   `json:"workers,omitempty"`     // Safety concurrency

	// Render options
	Format       string        `json:"format,omitempty"`
	ShowFlow     bool          `json:"show_flow,omitempty"`
	HideBoundary bool          `json:"hide_boundary,omitempty"`
	Highlight    []digraph.Key `json:"highlight,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent and called automatically by Execute.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Text == "" && o.Source == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "no input: set Source or Text")
	}
	if o.Index < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "index %d is negative", o.Index)
	}

	if o.Operation == "" {
		o.Operation = "width"
	}
	if !ValidOperations[o.Operation] {
		return errors.New(errors.ErrCodeInvalidArgument,
			"invalid operation %q (must be one of: width, antichain, safety, decompose, render)", o.Operation)
	}

	if o.Operation == "safety" {
		if o.SafetyMode == "" {
			o.SafetyMode = "sequences"
		}
		if !ValidSafetyModes[o.SafetyMode] {
			return errors.New(errors.ErrCodeInvalidArgument,
				"invalid safety mode %q (must be one of: paths, sequences, dominators)", o.SafetyMode)
		}
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "workers %d is negative", o.Workers)
	}

	if o.Operation == "render" && o.Format == "" {
		o.Format = "svg"
	}
	if o.Format != "" && !ValidFormats[o.Format] {
		return errors.New(errors.ErrCodeInvalidArgument,
			"invalid format %q (must be one of: dot, svg, png)", o.Format)
	}

	o.validated = true
	return nil
}

// IsRemote reports whether the source is an http(s) URL.
func (o *Options) IsRemote() bool {
	return strings.HasPrefix(o.Source, "http://") || strings.HasPrefix(o.Source, "https://")
}

func keyStrings(keys []digraph.Key) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.From + " -> " + k.To
	}
	return out
}
