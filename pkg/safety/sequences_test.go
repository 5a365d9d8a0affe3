package safety

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
	"github.com/matzehuels/pathcover/pkg/stgraph"
)

func TestSafeSequencesDiamond(t *testing.T) {
	g := buildGraph(t, [][2]string{
		{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"},
	}, stgraph.Options{})

	got, err := SafeSequences(g, keys([2]string{"a", "b"}, [2]string{"c", "d"}), Options{Workers: 2})
	if err != nil {
		t.Fatalf("SafeSequences: %v", err)
	}
	want := []stgraph.Sequence{
		{
			{From: g.Source(), To: "a"},
			{From: "a", To: "b"},
			{From: "b", To: "d"},
			{From: "d", To: g.Sink()},
		},
		{
			{From: g.Source(), To: "a"},
			{From: "a", To: "c"},
			{From: "c", To: "d"},
			{From: "d", To: g.Sink()},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("safe sequences = %v, want %v", got, want)
	}
}

func TestSafeSequencesCyclicRejected(t *testing.T) {
	g := buildGraph(t, [][2]string{
		{"s", "a"}, {"a", "b"}, {"b", "a"}, {"a", "t"},
	}, stgraph.Options{})
	if _, err := SafeSequences(g, keys([2]string{"s", "a"}), Options{}); !errors.Is(err, errors.ErrCodeStructural) {
		t.Errorf("error = %v, want STRUCTURAL_ERROR", err)
	}
}

func TestSafeSequencesUnknownEdge(t *testing.T) {
	g := buildGraph(t, [][2]string{{"a", "b"}}, stgraph.Options{})
	if _, err := SafeSequences(g, keys([2]string{"x", "y"}), Options{}); !errors.Is(err, errors.ErrCodeEdgeNotFound) {
		t.Errorf("error = %v, want EDGE_NOT_FOUND", err)
	}
}

// enumeratePaths lists every source-to-sink path of an acyclic working
// graph as an edge sequence.
func enumeratePaths(work *digraph.Graph, source, sink string) []stgraph.Sequence {
	var paths []stgraph.Sequence
	var cur stgraph.Sequence
	var walk func(u string)
	walk = func(u string) {
		if u == sink {
			paths = append(paths, append(stgraph.Sequence(nil), cur...))
			return
		}
		for _, e := range work.OutEdges(u) {
			cur = append(cur, e.Key())
			walk(e.To)
			cur = cur[:len(cur)-1]
		}
	}
	walk(source)
	return paths
}

func isSubsequence(seq, path stgraph.Sequence) bool {
	i := 0
	for _, e := range path {
		if i < len(seq) && seq[i] == e {
			i++
		}
	}
	return i == len(seq)
}

// minimumCovers enumerates every multiset of k paths covering all
// demand edges, growing k until covers exist.
func minimumCovers(paths []stgraph.Sequence, demand []digraph.Key) [][]stgraph.Sequence {
	need := make(map[digraph.Key]bool, len(demand))
	for _, k := range demand {
		need[k] = true
	}
	for k := 1; k <= len(demand)+1; k++ {
		var covers [][]stgraph.Sequence
		pick := make([]int, 0, k)
		var choose func(start, left int)
		choose = func(start, left int) {
			if left == 0 {
				missing := make(map[digraph.Key]bool, len(need))
				for e := range need {
					missing[e] = true
				}
				for _, pi := range pick {
					for _, e := range paths[pi] {
						delete(missing, e)
					}
				}
				if len(missing) == 0 {
					cover := make([]stgraph.Sequence, len(pick))
					for i, pi := range pick {
						cover[i] = paths[pi]
					}
					covers = append(covers, cover)
				}
				return
			}
			for i := start; i < len(paths); i++ {
				pick = append(pick, i)
				choose(i, left-1)
				pick = pick[:len(pick)-1]
			}
		}
		choose(0, k)
		if len(covers) > 0 {
			return covers
		}
	}
	return nil
}

// enumerateWalks lists every source-to-sink walk of a working graph
// that reuses no edge more than twice. The reuse bound keeps the
// enumeration finite on cyclic graphs while still admitting walks that
// close a cycle to pick up a back edge or self-loop.
func enumerateWalks(work *digraph.Graph, source, sink string) []stgraph.Sequence {
	var walks []stgraph.Sequence
	var cur stgraph.Sequence
	used := make(map[int]int)
	var walk func(u string)
	walk = func(u string) {
		if u == sink {
			walks = append(walks, append(stgraph.Sequence(nil), cur...))
			return
		}
		for _, e := range work.OutEdges(u) {
			if used[e.ID] == 2 {
				continue
			}
			used[e.ID]++
			cur = append(cur, e.Key())
			walk(e.To)
			cur = cur[:len(cur)-1]
			used[e.ID]--
		}
	}
	walk(source)
	return walks
}

// randomGraph builds a small graph around a backbone path, sprinkled
// with up to two extra edges: forward skips, back edges (2-cycles) and
// self-loops. The backbone keeps every node reachable from the source
// and co-reachable to the sink, so every edge lies on some walk.
func randomGraph(t *testing.T, rng *rand.Rand) *stgraph.Graph {
	t.Helper()
	n := 3 + rng.Intn(3)
	nodes := make([]string, n)
	for i := range nodes {
		nodes[i] = fmt.Sprintf("n%d", i)
	}

	base := digraph.New()
	for i := 0; i+1 < n; i++ {
		base.AddEdge(nodes[i], nodes[i+1], nil)
	}
	extras := 0
	for i := 0; i < n && extras < 2; i++ {
		for j := 0; j < n && extras < 2; j++ {
			if j == i+1 {
				continue
			}
			var p float64
			switch {
			case i == j:
				p = 0.15
			case j < i:
				p = 0.25
			default:
				p = 0.2
			}
			if rng.Float64() < p {
				base.AddEdge(nodes[i], nodes[j], nil)
				extras++
			}
		}
	}

	g, err := stgraph.Build(base, stgraph.Options{
		AdditionalStarts: []string{nodes[0]},
		AdditionalEnds:   []string{nodes[n-1]},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

// Dominator certificates on random cyclic graphs must occur inside
// some walk of every minimum cover, and no certificate may repeat.
func TestSafetySoundnessRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 25; trial++ {
		g := randomGraph(t, rng)
		work := g.Working()

		inDemand := make(map[digraph.Key]bool)
		var demand []digraph.Key
		for _, e := range work.Edges() {
			k := e.Key()
			if g.IsBoundary(e) || inDemand[k] {
				continue
			}
			inDemand[k] = true
			demand = append(demand, k)
		}

		walks := enumerateWalks(work, g.Source(), g.Sink())
		covers := minimumCovers(walks, demand)
		if len(covers) == 0 {
			t.Fatalf("trial %d: no covers found", trial)
		}

		sequences, err := SafeSequencesViaDominators(g, demand)
		if err != nil {
			t.Fatalf("trial %d: SafeSequencesViaDominators: %v", trial, err)
		}

		seen := make(map[string]bool, len(sequences))
		for _, seq := range sequences {
			s := fmt.Sprint(seq)
			if seen[s] {
				t.Errorf("trial %d: duplicate certificate %v", trial, seq)
			}
			seen[s] = true
		}

		for si, seq := range sequences {
			for ci, cover := range covers {
				found := false
				for _, w := range cover {
					if isSubsequence(seq, w) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("trial %d: certificate %d (%v) missing from minimum cover %d", trial, si, seq, ci)
				}
			}
		}
	}
}

// Every certificate must occur inside some walk of every minimum cover.
func TestSafetySoundnessBruteForce(t *testing.T) {
	graphs := [][][2]string{
		{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
		{{"s", "a"}, {"s", "b"}, {"a", "c"}, {"b", "c"}, {"c", "t"}, {"s", "t"}},
		{{"s", "a"}, {"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}, {"d", "t"}, {"s", "t"}},
	}
	for gi, edges := range graphs {
		g := buildGraph(t, edges, stgraph.Options{})
		demand := keys(edges...)

		paths := enumeratePaths(g.Working(), g.Source(), g.Sink())
		covers := minimumCovers(paths, demand)
		if len(covers) == 0 {
			t.Fatalf("graph %d: no covers found", gi)
		}

		sequences, err := SafeSequences(g, demand, Options{})
		if err != nil {
			t.Fatalf("graph %d: SafeSequences: %v", gi, err)
		}
		domSequences, err := SafeSequencesViaDominators(g, demand)
		if err != nil {
			t.Fatalf("graph %d: SafeSequencesViaDominators: %v", gi, err)
		}
		safePaths, err := SafePaths(g, demand, Options{})
		if err != nil {
			t.Fatalf("graph %d: SafePaths: %v", gi, err)
		}

		var all []stgraph.Sequence
		all = append(all, sequences...)
		all = append(all, domSequences...)
		all = append(all, safePaths...)

		for si, seq := range all {
			for ci, cover := range covers {
				found := false
				for _, walk := range cover {
					if isSubsequence(seq, walk) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("graph %d: certificate %d (%v) missing from minimum cover %d", gi, si, seq, ci)
				}
			}
		}
	}
}
