package main

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lgbarn/pgntree/internal/config"
	"github.com/lgbarn/pgntree/internal/parser"
	"github.com/lgbarn/pgntree/internal/processing"
	"github.com/lgbarn/pgntree/internal/rules"
	"github.com/lgbarn/pgntree/internal/rules/notnilrules"
	"github.com/lgbarn/pgntree/internal/source"
	"github.com/lgbarn/pgntree/internal/stats"
	statslogger "github.com/lgbarn/pgntree/internal/stats/logger"
	statsprom "github.com/lgbarn/pgntree/internal/stats/prometheus"
)

const programVersion = "0.1.0"

// app carries global flags and the state built from them before a command
// runs.
type app struct {
	configPath string
	logLevel   string
	workers    int
	statsMode  string

	cfg      *config.Config
	rules    rules.Rules
	stats    stats.Collector
	registry *prometheus.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{rules: notnilrules.New()}

	root := &cobra.Command{
		Use:   "pgntree",
		Short: "Load, check and edit PGN game trees",
		Long: `pgntree reads PGN files into game trees with variations, comments,
evaluations and NAGs, and writes them back out.

Files ending in .gz or .zst are decompressed on the fly; "-" reads stdin.

Examples:
  # Report which games fail to parse
  pgntree check games.pgn.zst

  # Re-wrap movetext at 60 columns, seven tag roster only
  pgntree format games.pgn --width 60 --tags seven -o clean.pgn

  # Make the second reply to 1. e4 the mainline of game 3
  pgntree variation promote games.pgn --game 3 --at e4 --index 1`,
		Version:           programVersion,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.finish(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "configuration file (YAML, TOML or JSON)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.IntVarP(&a.workers, "workers", "j", 0, "parser goroutines (default from config)")
	flags.StringVar(&a.statsMode, "stats", "none", "metrics: none, log or prometheus")

	root.AddCommand(
		newCheckCmd(a),
		newFormatCmd(a),
		newJSONCmd(a),
		newMainlineCmd(a),
		newVariationCmd(a),
	)
	return root
}

// setup builds the configuration, logger and metrics collector.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadFile(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		logger, err := config.NewLogger(a.logLevel, false)
		if err != nil {
			return err
		}
		cfg.Logger = logger
	}
	if cmd.Flags().Changed("workers") {
		cfg.Load.Workers = a.workers
		if err := cfg.Load.Validate(); err != nil {
			return err
		}
	}
	cfg.SetOutput(cmd.OutOrStdout())
	a.cfg = cfg

	switch a.statsMode {
	case "", "none":
		a.stats = stats.Noop{}
	case "log":
		a.stats = statslogger.New(cfg.Log())
	case "prometheus":
		a.registry = prometheus.NewRegistry()
		a.stats = statsprom.New(a.registry)
	default:
		return fmt.Errorf("unknown --stats mode %q", a.statsMode)
	}
	return nil
}

// finish dumps Prometheus metrics, if collected, and flushes the logger.
func (a *app) finish(w io.Writer) error {
	if a.cfg != nil {
		_ = a.cfg.Log().Sync()
	}
	if a.registry == nil {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// load reads every game of path.
func (a *app) load(ctx context.Context, path string) (*parser.LoadReport, error) {
	r, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	cfg := *a.cfg
	cfg.Parse.SourceName = source.Name(path)
	a.cfg.Log().Debug("loading", zap.String("path", path), zap.Int("workers", cfg.Load.Workers))
	return processing.NewLoader(a.rules, &cfg, a.stats).Load(ctx, r)
}
