package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pathcover/internal/server"
	"github.com/matzehuels/pathcover/pkg/runstore"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Serve the analysis API over HTTP. Graphs are POSTed to the /v1/graphs
endpoints as plain text (or by URL) and every analysis is persisted as a
run fetchable at /v1/runs/{id}.

The run store backend comes from the config file unless --store is set:
memory (default), file, or mongo.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, backend, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&backend, "store", "", "run store backend: memory, file, mongo")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, backend string, noCache bool) error {
	eng, err := c.newEngine(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer eng.Close()

	store, err := c.newStore(ctx, backend)
	if err != nil {
		return fmt.Errorf("initialize run store: %w", err)
	}
	defer store.Close(context.Background())

	printInfo("Serving on %s", addr)
	return server.New(eng, store, c.Logger).Serve(ctx, addr)
}

// newStore creates the run store the flag or config selects.
func (c *CLI) newStore(ctx context.Context, backend string) (runstore.Store, error) {
	if backend == "" {
		backend = c.Config.Store.Backend
	}
	switch backend {
	case "", "memory":
		return runstore.NewMemoryStore(), nil
	case "file":
		return runstore.NewFileStore(c.Config.Store.Dir)
	case "mongo":
		return runstore.NewMongoStore(ctx, runstore.MongoConfig{URI: c.Config.Store.MongoURI})
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
