package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathcover/pkg/engine"
)

// decomposeCommand creates the decompose command.
func (c *CLI) decomposeCommand() *cobra.Command {
	var in inputOpts

	cmd := &cobra.Command{
		Use:   "decompose [file|url]",
		Short: "Decompose the flow into max-bottleneck paths",
		Long: `Decompose the flow carried on the "flow" edge attribute into source-sink
paths, repeatedly peeling the path with the largest bottleneck. The input
flow must satisfy conservation at every non-boundary node.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDecompose(cmd.Context(), args[0], in)
		},
	}

	addInputFlags(cmd, &in)

	return cmd
}

func (c *CLI) runDecompose(ctx context.Context, source string, in inputOpts) error {
	opts := engine.Options{Operation: "decompose"}
	in.apply(&opts, source)

	result, err := c.execute(ctx, opts, in.noCache, "Decomposing flow...")
	if err != nil {
		return fmt.Errorf("decompose: %w", err)
	}

	printSuccess("%d paths in %s", len(result.Decompose.Paths), result.GraphID)
	for i, path := range result.Decompose.Paths {
		printDetail("weight %d: %s", result.Decompose.Weights[i], strings.Join(path, " -> "))
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.AnalyzeHit)
	return nil
}
