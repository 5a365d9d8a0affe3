package graphio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/pathcover/pkg/digraph"
)

type jsonGraph struct {
	ID    string     `json:"id,omitempty"`
	Nodes []string   `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonEdge struct {
	From  string           `json:"from"`
	To    string           `json:"to"`
	Attrs map[string]int64 `json:"attrs,omitempty"`
}

// WriteJSON encodes a graph as JSON and writes it to w. The output lists
// every node (including isolated ones) and every edge with its attribute
// map, so it can be re-imported with [ReadJSON] without loss.
func WriteJSON(g *Graph, w io.Writer) error {
	out := jsonGraph{
		ID:    g.ID,
		Nodes: g.G.Nodes(),
		Edges: make([]jsonEdge, 0, g.G.EdgeCount()),
	}
	for _, e := range g.G.Edges() {
		out.Edges = append(out.Edges, jsonEdge{From: e.From, To: e.To, Attrs: e.Attrs})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a JSON graph from r. Each edge must reference node ids;
// unknown ids are created on the fly, matching [digraph.Graph.AddEdge].
func ReadJSON(r io.Reader) (*Graph, error) {
	var data jsonGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := digraph.New()
	for _, id := range data.Nodes {
		if err := g.AddNode(id); err != nil {
			return nil, fmt.Errorf("node %s: %w", id, err)
		}
	}
	for _, e := range data.Edges {
		if _, err := g.AddEdge(e.From, e.To, e.Attrs); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return &Graph{ID: data.ID, G: g}, nil
}

// ExportJSON writes a graph to a JSON file at path.
func ExportJSON(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// ImportJSON reads a JSON graph file at path.
func ImportJSON(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
