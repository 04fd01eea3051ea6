package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopdex/internal/config"
	logpkg "github.com/kailas-cloud/shopdex/internal/logger"
	"github.com/kailas-cloud/shopdex/internal/version"
)

// Flag names.
const (
	flagConfig  = "config"
	flagVerbose = "verbose"
	flagPage    = "page"
	flagLimit   = "limit"
	flagFile    = "file"
)

// cli carries state shared by every subcommand.
type cli struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "shopdexctl",
		Short:        "Inspect the shopdex search pipeline and manage the catalog",
		Version:      version.Version,
		SilenceUsage: true,
	}
	root.SetVersionTemplate(version.String() + "\n")
	root.PersistentFlags().StringVar(&c.configPath, flagConfig, "",
		"Config file (default: config/$ENV.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, flagVerbose, "v", false, "Log to stderr")

	root.AddCommand(c.newIntentCmd(), c.newCompileCmd(), c.newSeedCmd())
	return root
}

func (c *cli) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		return config.LoadFile(c.configPath)
	}
	return config.Load(config.GetEnv())
}

// logger is silent unless --verbose is set.
func (c *cli) logger(cfg *config.Config) (*zap.Logger, error) {
	if !c.verbose {
		return zap.NewNop(), nil
	}
	return logpkg.NewLogger("local", cfg.Logging.Level)
}

// setup loads configuration and builds the logger.
func (c *cli) setup() (config.Config, *zap.Logger, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := c.logger(&cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
