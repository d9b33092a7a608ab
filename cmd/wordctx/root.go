package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/wordctx/pkg/wordctx"
	"github.com/cognicore/wordctx/pkg/wordctx/config"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	driver     string
	dsn        string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "wordctx",
		Short: "Positional word co-occurrence model",
		Long: `wordctx learns which words appear near each other, and at what distance,
from a text corpus. It then fills masked tokens in sentences: "_" stands
for one character and "%" for any run of characters.

Examples:
  wordctx ingest corpus.txt articles.jsonl
  wordctx recognize "the % sat on the mat"
  wordctx runs --limit 5`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to YAML config")
	pf.StringVar(&flags.driver, "driver", "", "Store driver: sqlite, memory or postgres")
	pf.StringVar(&flags.dsn, "dsn", "", "Store DSN (sqlite path or postgres URL)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	root.AddCommand(
		newIngestCmd(flags),
		newRecognizeCmd(flags),
		newRunsCmd(flags),
	)
	return root
}

// loadConfig reads the config file and applies flag overrides
func (f *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if f.driver != "" {
		cfg.Store.Driver = f.driver
	}
	if f.dsn != "" {
		cfg.Store.DSN = f.dsn
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openEngine builds an engine from the effective config
func (f *globalFlags) openEngine(ctx context.Context) (*wordctx.Engine, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	loader := config.Loader{Config: cfg}
	return loader.Engine(ctx)
}
