package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/pathcover/pkg/cache"
	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
)

const diamondText = `# diamond
5
s a 5
a b 2
a c 3
b t 2
c t 3
`

// threeBranchText has two non-trivial cycles (c<->d and e->f->g->e).
const threeBranchText = `# threebranch
8
s t 1
s a 1
a t 1
s c 1
c d 1
d c 1
d t 1
s e 1
e f 1
f g 1
g e 1
g t 1
f d 1
`

func newEngine(t *testing.T) *Engine {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return New(c, nil, nil)
}

func TestExecuteWidth(t *testing.T) {
	e := newEngine(t)
	defer e.Close()
	ctx := context.Background()

	opts := Options{Text: diamondText, Operation: "width"}
	result, err := e.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.GraphID != "diamond" {
		t.Errorf("GraphID = %q, want %q", result.GraphID, "diamond")
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}
	if result.Width == nil || result.Width.Width != 2 {
		t.Fatalf("Width = %+v, want 2", result.Width)
	}
	if result.Stats.NodeCount != 5 || result.Stats.EdgeCount != 5 {
		t.Errorf("Stats = %+v, want 5 nodes / 5 edges", result.Stats)
	}
	if result.CacheInfo.AnalyzeHit {
		t.Error("first execution should miss the cache")
	}

	// Second execution hits the cache
	result2, err := e.Execute(ctx, Options{Text: diamondText, Operation: "width"})
	if err != nil {
		t.Fatalf("Execute (second): %v", err)
	}
	if !result2.CacheInfo.AnalyzeHit {
		t.Error("second execution should hit the cache")
	}
	if result2.Width.Width != 2 {
		t.Errorf("cached Width = %d, want 2", result2.Width.Width)
	}
}

func TestExecuteWidthCondensed(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	result, err := e.Execute(context.Background(), Options{
		Text:      threeBranchText,
		Operation: "width",
		Condense:  true,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	w := result.Width
	if w == nil || !w.Condensed {
		t.Fatalf("Width = %+v, want condensed result", w)
	}
	if w.Width != 5 {
		t.Errorf("Width = %d, want 5", w.Width)
	}
	if w.NontrivialSCCs != 2 {
		t.Errorf("NontrivialSCCs = %d, want 2", w.NontrivialSCCs)
	}
	if w.LargestSCCSize != 3 {
		t.Errorf("LargestSCCSize = %d, want 3", w.LargestSCCSize)
	}
}

func TestExecuteAntichain(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	result, err := e.Execute(context.Background(), Options{
		Text:      diamondText,
		Operation: "antichain",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	a := result.Antichain
	if a == nil {
		t.Fatal("Antichain result missing")
	}
	if a.Weight != 2 {
		t.Errorf("Weight = %d, want 2", a.Weight)
	}
	if len(a.Chain) != 2 {
		t.Errorf("Chain = %v, want 2 edges", a.Chain)
	}
}

func TestExecuteSafety(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	result, err := e.Execute(context.Background(), Options{
		Text:       diamondText,
		Operation:  "safety",
		SafetyMode: "sequences",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	s := result.Safety
	if s == nil {
		t.Fatal("Safety result missing")
	}
	if s.Mode != "sequences" {
		t.Errorf("Mode = %q, want %q", s.Mode, "sequences")
	}
	if len(s.Sequences) != 5 {
		t.Errorf("got %d sequences, want 5 (one per base edge)", len(s.Sequences))
	}
}

func TestExecuteSafetyExplicitEdges(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	result, err := e.Execute(context.Background(), Options{
		Text:       diamondText,
		Operation:  "safety",
		SafetyMode: "paths",
		Edges:      []digraph.Key{{From: "a", To: "b"}},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := len(result.Safety.Sequences); got != 1 {
		t.Errorf("got %d sequences, want 1", got)
	}
}

func TestExecuteDecompose(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	result, err := e.Execute(context.Background(), Options{
		Text:      diamondText,
		Operation: "decompose",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	d := result.Decompose
	if d == nil {
		t.Fatal("Decompose result missing")
	}
	if len(d.Paths) != 2 {
		t.Fatalf("got %d paths, want 2: %v", len(d.Paths), d.Paths)
	}
	if d.Weights[0] != 3 || d.Weights[1] != 2 {
		t.Errorf("Weights = %v, want [3 2]", d.Weights)
	}
}

func TestExecuteRenderDOT(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	result, err := e.Execute(context.Background(), Options{
		Text:      diamondText,
		Operation: "render",
		Format:    "dot",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	dot := string(result.Artifact)
	if !strings.Contains(dot, "digraph G {") {
		t.Errorf("artifact is not DOT:\n%s", dot)
	}
	if !strings.Contains(dot, `"a" -> "b";`) {
		t.Errorf("DOT missing edge:\n%s", dot)
	}
	if result.CacheInfo.RenderHit {
		t.Error("first render should miss the cache")
	}

	// Second render hits the artifact cache
	result2, err := e.Execute(context.Background(), Options{
		Text:      diamondText,
		Operation: "render",
		Format:    "dot",
	})
	if err != nil {
		t.Fatalf("Execute (second): %v", err)
	}
	if !result2.CacheInfo.RenderHit {
		t.Error("second render should hit the cache")
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	e := New(nil, nil, nil)
	defer e.Close()
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
	}{
		{"no input", Options{Operation: "width"}},
		{"bad operation", Options{Text: diamondText, Operation: "nonsense"}},
		{"bad safety mode", Options{Text: diamondText, Operation: "safety", SafetyMode: "nonsense"}},
		{"bad format", Options{Text: diamondText, Operation: "render", Format: "gif"}},
		{"negative index", Options{Text: diamondText, Operation: "width", Index: -1}},
		{"negative workers", Options{Text: diamondText, Operation: "safety", Workers: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Execute(ctx, tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadGraphIndexOutOfRange(t *testing.T) {
	e := New(nil, nil, nil)
	defer e.Close()

	_, _, err := e.LoadGraph(context.Background(), Options{Text: diamondText, Index: 3})
	if !errors.Is(err, errors.ErrCodeInvalidArgument) {
		t.Errorf("error = %v, want INVALID_ARGUMENT", err)
	}
}

func TestExecuteSafetyCyclicSequencesRejected(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	_, err := e.Execute(context.Background(), Options{
		Text:       threeBranchText,
		Operation:  "safety",
		SafetyMode: "sequences",
	})
	if !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("error = %v, want STRUCTURAL", err)
	}
}

func TestExecuteSafetyDominatorsCyclic(t *testing.T) {
	e := newEngine(t)
	defer e.Close()

	result, err := e.Execute(context.Background(), Options{
		Text:       threeBranchText,
		Operation:  "safety",
		SafetyMode: "dominators",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Safety.Sequences) == 0 {
		t.Error("dominator mode should produce certificates on cyclic graphs")
	}
}
