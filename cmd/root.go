// cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/repohub/repohub/internal/config"
	"github.com/repohub/repohub/internal/logging"
	"github.com/repohub/repohub/internal/printer"
	"github.com/repohub/repohub/internal/scan"
	"github.com/repohub/repohub/tui"
)

var (
	cfgFile      string
	flagPath     string
	flagDepth    int
	flagJobs     int
	flagTimeout  time.Duration
	flagVerbose  bool
	flagFetch    bool
	flagNoTUI    bool
	flagNested   bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "repohub",
	Short: "Working-tree status for every git repository under a directory",
	Long: `
  repohub scans a directory tree for git repositories and shows,
  in one glance, which ones have uncommitted work.

  By default it opens a live TUI that fills in as repositories are
  scanned; --no-tui prints a report to stdout instead.`,
	SilenceUsage: true,
	RunE:         run,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/repohub/config.yaml)")
	rootCmd.Flags().StringVarP(&flagPath, "path", "p", "", "directory to scan (default is the current directory)")
	rootCmd.Flags().IntVarP(&flagDepth, "depth", "d", 0, "max depth to search for repositories (0 = root only)")
	rootCmd.Flags().IntVarP(&flagJobs, "jobs", "j", 0, "max concurrent status queries (default derived from CPU count)")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 0, "per-repository git timeout")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "expressive output with full per-repository breakdown")
	rootCmd.Flags().BoolVar(&flagFetch, "fetch", false, "run git fetch per repository before collecting status")
	rootCmd.Flags().BoolVar(&flagNoTUI, "no-tui", false, "disable the TUI and print to stdout instead")
	rootCmd.Flags().BoolVar(&flagNested, "nested", false, "also report repositories nested inside other repositories")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func run(cmd *cobra.Command, args []string) error {
	req, err := buildRequest(cmd)
	if err != nil {
		return err
	}

	if !flagNoTUI {
		return tui.Run(req, flagVerbose)
	}

	logger, err := logging.New(flagLogLevel, true)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := scan.New(req, logger).Run(ctx)
	if err != nil {
		return err
	}

	printer.New(os.Stdout, flagVerbose).Print(report)

	switch {
	case report.NoUsableGit:
		return errors.New("no usable git binary found in PATH")
	case report.FailedCount() > 0:
		return fmt.Errorf("%d repositories reported errors", report.FailedCount())
	case len(report.Records) == 0 && !report.Interrupted:
		return errors.New("no repositories found")
	}
	return nil
}

// buildRequest merges the config file with whichever flags were set on the
// command line; flags win.
func buildRequest(cmd *cobra.Command) (scan.Request, error) {
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath()
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return scan.Request{}, fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("depth") {
		cfg.MaxDepth = flagDepth
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Concurrency = flagJobs
	}
	if cmd.Flags().Changed("timeout") {
		cfg.RepoTimeout = flagTimeout
	}
	if cmd.Flags().Changed("nested") {
		cfg.IncludeNested = flagNested
	}

	root := config.ExpandHome(flagPath)
	if root == "" {
		root, err = os.Getwd()
		if err != nil {
			return scan.Request{}, err
		}
	}

	return scan.Request{
		Root:          root,
		MaxDepth:      cfg.MaxDepth,
		Concurrency:   cfg.Concurrency,
		Timeout:       cfg.RepoTimeout,
		IncludeNested: cfg.IncludeNested,
		Fetch:         flagFetch,
		Ignore:        cfg.ShouldIgnore,
	}, nil
}
