package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/engine"
)

const sampleManifest = `
workers = 2

[[job]]
source = "graphs/chr1.txt"
operation = "width"
condense = true

[[job]]
source = "graphs/chr1.txt"
operation = "safety"
mode = "dominators"
edges = ["a->b"]

[[job]]
text = "# g\n2\ns t 1\ns t 1\n"
operation = "antichain"
weights = ["s->t=3"]
`

func TestBatchManifestDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.toml")
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatal(err)
	}

	var manifest batchManifest
	if _, err := toml.DecodeFile(path, &manifest); err != nil {
		t.Fatalf("DecodeFile() error: %v", err)
	}

	if manifest.Workers != 2 {
		t.Errorf("Workers = %d, want 2", manifest.Workers)
	}
	if len(manifest.Jobs) != 3 {
		t.Fatalf("len(Jobs) = %d, want 3", len(manifest.Jobs))
	}
	if !manifest.Jobs[0].Condense {
		t.Error("Jobs[0].Condense should be true")
	}
	if manifest.Jobs[1].Mode != "dominators" {
		t.Errorf("Jobs[1].Mode = %q, want %q", manifest.Jobs[1].Mode, "dominators")
	}
}

func TestBatchJobOptions(t *testing.T) {
	job := batchJob{
		Source:    "graphs/chr1.txt",
		Operation: "safety",
		Mode:      "dominators",
		Edges:     []string{"a->b", "b -> c"},
		Weights:   []string{"a->b=3"},
	}

	opts, err := job.options()
	if err != nil {
		t.Fatalf("options() error: %v", err)
	}

	if opts.Operation != "safety" {
		t.Errorf("Operation = %q, want %q", opts.Operation, "safety")
	}
	if opts.SafetyMode != "dominators" {
		t.Errorf("SafetyMode = %q, want %q", opts.SafetyMode, "dominators")
	}
	wantEdges := []digraph.Key{{From: "a", To: "b"}, {From: "b", To: "c"}}
	if len(opts.Edges) != len(wantEdges) {
		t.Fatalf("len(Edges) = %d, want %d", len(opts.Edges), len(wantEdges))
	}
	for i, k := range wantEdges {
		if opts.Edges[i] != k {
			t.Errorf("Edges[%d] = %v, want %v", i, opts.Edges[i], k)
		}
	}
	if opts.Weights[digraph.Key{From: "a", To: "b"}] != 3 {
		t.Errorf("Weights[a->b] = %d, want 3", opts.Weights[digraph.Key{From: "a", To: "b"}])
	}
}

func TestBatchJobOptionsInvalidEdge(t *testing.T) {
	job := batchJob{Source: "g.txt", Operation: "safety", Edges: []string{"ab"}}
	if _, err := job.options(); err == nil {
		t.Error("options() should fail on a malformed edge")
	}
}

func TestDescribeResult(t *testing.T) {
	tests := []struct {
		name   string
		result *engine.Result
		want   string
	}{
		{
			name:   "width",
			result: &engine.Result{Width: &engine.WidthResult{Width: 4}},
			want:   "width 4",
		},
		{
			name:   "antichain",
			result: &engine.Result{Antichain: &engine.AntichainResult{Weight: 7}},
			want:   "antichain weight 7",
		},
		{
			name:   "safety",
			result: &engine.Result{Safety: &engine.SafetyResult{Mode: "sequences"}},
			want:   "0 sequences",
		},
		{
			name:   "decompose",
			result: &engine.Result{Decompose: &engine.DecomposeResult{Paths: [][]string{{"s", "t"}}}},
			want:   "1 paths",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeResult(tt.result); got != tt.want {
				t.Errorf("describeResult() = %q, want %q", got, tt.want)
			}
		})
	}
}
