package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/shopdex/internal/app"
	"github.com/kailas-cloud/shopdex/internal/domain/search/request"
	searchuc "github.com/kailas-cloud/shopdex/internal/usecase/search"
)

func (c *cli) newIntentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "intent <query...>",
		Short: "Extract the search intent of a query",
		Long: `Run the intent extractor on a query and print the outcome: the intent,
which extractor produced it and, for the rule tables, why the model was skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: c.runIntent,
	}
}

func (c *cli) runIntent(cmd *cobra.Command, args []string) error {
	cfg, logger, err := c.setup()
	if err != nil {
		return err
	}
	intents, err := app.NewIntents(&cfg.Intent, logger)
	if err != nil {
		return err
	}
	out := intents.Service.Resolve(cmd.Context(), strings.Join(args, " "))
	return printJSON(cmd.OutOrStdout(), out)
}

func (c *cli) newCompileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <query...>",
		Short: "Show the catalog query a natural-language search runs",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.runCompile,
	}
	cmd.Flags().Int(flagPage, 1, "Page number (1-based)")
	cmd.Flags().Int(flagLimit, 0, "Page size (default: catalog.default_page_size)")
	return cmd
}

func (c *cli) runCompile(cmd *cobra.Command, args []string) error {
	cfg, logger, err := c.setup()
	if err != nil {
		return err
	}
	intents, err := app.NewIntents(&cfg.Intent, logger)
	if err != nil {
		return err
	}

	page, _ := cmd.Flags().GetInt(flagPage)
	limit, _ := cmd.Flags().GetInt(flagLimit)

	out := intents.Service.Resolve(cmd.Context(), strings.Join(args, " "))
	compiled, err := searchuc.Compile(out.Intent,
		request.NewPage(page, limit, cfg.Catalog.DefaultPageSize, cfg.Catalog.MaxPageSize))
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), compiled)
}
