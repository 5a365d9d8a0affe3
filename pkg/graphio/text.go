package graphio

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
)

// FlowAttr is the edge attribute under which the text format's integer
// weight is stored.
const FlowAttr = "flow"

// Graph pairs a parsed graph with the id from its block header.
type Graph struct {
	ID string
	G  *digraph.Graph
}

// ReadGraphs parses every graph block from r. Returns an error if the
// input contains no block, a block is truncated, or an edge line is
// malformed.
func ReadGraphs(r io.Reader) ([]*Graph, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var (
		graphs []*Graph
		start  = -1
	)
	for i, line := range lines {
		if !strings.HasPrefix(line, "#") {
			continue
		}
		if start >= 0 {
			g, err := parseBlock(lines[start:i])
			if err != nil {
				return nil, err
			}
			graphs = append(graphs, g)
		}
		start = i
	}
	if start < 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no graph block found (expected a line starting with '#')")
	}
	g, err := parseBlock(lines[start:])
	if err != nil {
		return nil, err
	}
	return append(graphs, g), nil
}

// ReadFile parses every graph block from the file at path.
func ReadFile(path string) ([]*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraphs(f)
}

// parseBlock parses one "# id / n / u v w ..." block.
func parseBlock(lines []string) (*Graph, error) {
	if len(lines) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "graph block too short (need id and node count lines)")
	}

	id := strings.TrimSpace(strings.TrimLeft(lines[0], "# "))
	if id == "" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "graph block has an empty id")
	}

	// The node count is informational; validate it parses, nothing more.
	if _, err := strconv.Atoi(strings.TrimSpace(lines[1])); err != nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "graph %s: bad node count line %q", id, lines[1])
	}

	g := digraph.New()
	for _, line := range lines[2:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "graph %s: bad edge line %q (want 'u v w')", id, line)
		}
		w, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "graph %s: bad edge weight %q", id, fields[2])
		}
		if _, err := g.AddEdge(fields[0], fields[1], digraph.Attrs{FlowAttr: w}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "graph %s: edge %s -> %s", id, fields[0], fields[1])
		}
	}
	return &Graph{ID: id, G: g}, nil
}

// WriteGraphs writes graphs to w in the text block format. Edges missing
// the "flow" attribute are written with weight 0. Nodes without incident
// edges are not representable in this format and are dropped.
func WriteGraphs(w io.Writer, graphs []*Graph) error {
	bw := bufio.NewWriter(w)
	for _, ng := range graphs {
		fmt.Fprintf(bw, "# %s\n", ng.ID)
		fmt.Fprintf(bw, "%d\n", ng.G.NodeCount())
		for _, e := range ng.G.Edges() {
			flow, _ := e.Attr(FlowAttr)
			fmt.Fprintf(bw, "%s %s %d\n", e.From, e.To, flow)
		}
	}
	return bw.Flush()
}

// WriteFile writes graphs to the file at path in the text block format.
func WriteFile(path string, graphs []*Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGraphs(f, graphs)
}

// Marshal renders a single graph to its canonical text form. The result
// is deterministic for a given graph (insertion-ordered edges), which
// makes it suitable as cache key material.
func Marshal(g *Graph) ([]byte, error) {
	var b strings.Builder
	if err := WriteGraphs(&b, []*Graph{g}); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
