package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/shopdex/internal/app"
	"github.com/kailas-cloud/shopdex/internal/usecase/catalog"
)

func (c *cli) newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample products into an empty catalog",
		Long: `Load a JSON array of products into the configured store. Nothing is
written when the catalog already holds products.`,
		Args: cobra.NoArgs,
		RunE: c.runSeed,
	}
	cmd.Flags().String(flagFile, "", "Seed file (default: catalog.seed_file)")
	return cmd
}

func (c *cli) runSeed(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := c.setup()
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString(flagFile)
	if path == "" {
		path = cfg.Catalog.SeedFile
	}
	if path == "" {
		return errors.New("no seed file: pass --file or set catalog.seed_file")
	}
	records, err := catalog.LoadSeedFile(path)
	if err != nil {
		return err
	}

	backend, err := app.OpenBackend(cmd.Context(), &cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	report, err := catalog.New(backend.Repo, logger).Seed(cmd.Context(), records)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), report)
}
