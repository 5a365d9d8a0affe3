package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathcover/pkg/engine"
)

// condenseCommand creates the condense command.
func (c *CLI) condenseCommand() *cobra.Command {
	var (
		in      inputOpts
		workers int
	)

	cmd := &cobra.Command{
		Use:   "condense [file|url]",
		Short: "Analyze a cyclic graph via its SCC condensation",
		Long: `Analyze a cyclic graph via its strongly connected component condensation:
report the condensed width with SCC statistics, then certify dominator
sequences and extract a maximum pairwise-incompatible subset of them.

On acyclic inputs this matches 'width' and 'safety --mode dominators'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCondense(cmd.Context(), args[0], in, workers)
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().IntVar(&workers, "workers", c.Config.Workers, "extraction concurrency (0 = one per CPU)")

	return cmd
}

func (c *CLI) runCondense(ctx context.Context, source string, in inputOpts, workers int) error {
	widthOpts := engine.Options{
		Operation: "width",
		Condense:  true,
	}
	in.apply(&widthOpts, source)

	widthRes, err := c.execute(ctx, widthOpts, in.noCache, "Condensing...")
	if err != nil {
		return fmt.Errorf("condense: %w", err)
	}

	safetyOpts := engine.Options{
		Operation:  "safety",
		SafetyMode: "dominators",
		Condense:   true,
		Workers:    workers,
	}
	in.apply(&safetyOpts, source)

	safetyRes, err := c.execute(ctx, safetyOpts, in.noCache, "Extracting sequences...")
	if err != nil {
		return fmt.Errorf("condense: %w", err)
	}

	printSuccess("Condensation of %s", widthRes.GraphID)
	printKeyValue("width", fmt.Sprintf("%d", widthRes.Width.Width))
	printKeyValue("sccs", fmt.Sprintf("%d nontrivial", widthRes.Width.NontrivialSCCs))
	printKeyValue("largest", fmt.Sprintf("%d edges", widthRes.Width.LargestSCCSize))
	printKeyValue("sequences", fmt.Sprintf("%d", len(safetyRes.Safety.Sequences)))
	printKeyValue("incompatible", fmt.Sprintf("%d", safetyRes.Safety.IncompatibleCount))
	for _, seq := range safetyRes.Safety.Incompatible {
		printDetail("%s", formatSequence(seq))
	}
	printStats(widthRes.Stats.NodeCount, widthRes.Stats.EdgeCount,
		widthRes.CacheInfo.AnalyzeHit && safetyRes.CacheInfo.AnalyzeHit)
	return nil
}
