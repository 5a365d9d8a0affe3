package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathcover/pkg/engine"
)

// widthCommand creates the width command.
func (c *CLI) widthCommand() *cobra.Command {
	var (
		in       inputOpts
		ignore   []string
		condense bool
	)

	cmd := &cobra.Command{
		Use:   "width [file|url]",
		Short: "Compute the minimum number of covering source-sink walks",
		Long: `Compute the width of a flow network: the minimum number of source-sink
walks needed to cover every edge at least once.

Edges given with --ignore keep their capacity but lose their demand, so
walks may still use them without being required to. On cyclic inputs,
pass --condense to run the computation on the SCC condensation.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWidth(cmd.Context(), args[0], in, ignore, condense)
		},
	}

	addInputFlags(cmd, &in)
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "edge(s) to exclude from demand, form u->v")
	cmd.Flags().BoolVar(&condense, "condense", false, "compute on the SCC condensation (required for cyclic graphs)")

	return cmd
}

func (c *CLI) runWidth(ctx context.Context, source string, in inputOpts, ignore []string, condense bool) error {
	ignoreKeys, err := engine.ParseKeys(ignore)
	if err != nil {
		return err
	}

	opts := engine.Options{
		Operation: "width",
		Ignore:    ignoreKeys,
		Condense:  condense,
	}
	in.apply(&opts, source)

	result, err := c.execute(ctx, opts, in.noCache, "Computing width...")
	if err != nil {
		return fmt.Errorf("width: %w", err)
	}

	printSuccess("Width of %s: %s", result.GraphID, StyleNumber.Render(fmt.Sprintf("%d", result.Width.Width)))
	if result.Width.Condensed {
		printDetail("condensed: %d nontrivial SCCs, largest has %d edges",
			result.Width.NontrivialSCCs, result.Width.LargestSCCSize)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.AnalyzeHit)
	printNextStep("Inspect the flow", fmt.Sprintf("pathcover render %s --show-flow", source))
	return nil
}
