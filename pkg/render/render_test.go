package render

import (
	"strings"
	"testing"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/graphio"
	"github.com/matzehuels/pathcover/pkg/stgraph"
)

func buildGraph(t *testing.T, edges [][2]string, flows []int64) *stgraph.Graph {
	t.Helper()
	base := digraph.New()
	for i, e := range edges {
		var attrs digraph.Attrs
		if flows != nil {
			attrs = digraph.Attrs{graphio.FlowAttr: flows[i]}
		}
		if _, err := base.AddEdge(e[0], e[1], attrs); err != nil {
			t.Fatalf("AddEdge(%s,%s): %v", e[0], e[1], err)
		}
	}
	g, err := stgraph.Build(base, stgraph.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	g := buildGraph(t, [][2]string{{"a", "b"}, {"b", "c"}}, nil)
	dot := ToDOT(g, Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		`"a" -> "b";`,
		`"b" -> "c";`,
		`label="source", shape=point`,
		`label="sink", shape=point`,
		"style=dashed, color=grey",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTHideBoundary(t *testing.T) {
	g := buildGraph(t, [][2]string{{"a", "b"}}, nil)
	dot := ToDOT(g, Options{HideBoundary: true})

	if strings.Contains(dot, "shape=point") {
		t.Errorf("DOT should not contain boundary nodes:\n%s", dot)
	}
	if strings.Contains(dot, g.Source()) || strings.Contains(dot, g.Sink()) {
		t.Errorf("DOT should not reference source/sink ids:\n%s", dot)
	}
	if !strings.Contains(dot, `"a" -> "b";`) {
		t.Errorf("DOT missing base edge:\n%s", dot)
	}
}

func TestToDOTHighlight(t *testing.T) {
	g := buildGraph(t, [][2]string{{"a", "b"}, {"b", "c"}}, nil)
	dot := ToDOT(g, Options{Highlight: []digraph.Key{{From: "a", To: "b"}}})

	if !strings.Contains(dot, `"a" -> "b" [color=red, penwidth=3];`) {
		t.Errorf("DOT missing highlighted edge:\n%s", dot)
	}
	if !strings.Contains(dot, `"b" -> "c";`) {
		t.Errorf("non-highlighted edge should stay plain:\n%s", dot)
	}
}

func TestToDOTShowFlow(t *testing.T) {
	g := buildGraph(t, [][2]string{{"a", "b"}}, []int64{7})
	dot := ToDOT(g, Options{ShowFlow: true})

	if !strings.Contains(dot, `"a" -> "b" [label="7"];`) {
		t.Errorf("DOT missing flow label:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	svg := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.40 50.25" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(svg))

	if !strings.Contains(got, `viewBox="0 0 100.40 50.25"`) {
		t.Errorf("viewBox not normalized: %s", got)
	}
	if !strings.Contains(got, `width="100" height="50"`) {
		t.Errorf("width/height not rewritten: %s", got)
	}

	// SVGs without a viewBox pass through unchanged
	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("SVG without viewBox should pass through")
	}
}
