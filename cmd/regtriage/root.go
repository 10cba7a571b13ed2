package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/regtriage/internal/api"
	"github.com/JaimeStill/regtriage/internal/config"
	"github.com/JaimeStill/regtriage/internal/infrastructure"
	"github.com/JaimeStill/regtriage/pkg/process"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	verbose    bool
	markdown   bool

	// runner replaces the process runner when set.
	runner process.Runner
}

// session is the wiring a command works against.
type session struct {
	cfg    *config.Config
	infra  *infrastructure.Infrastructure
	domain *api.Domain
}

func newRootCmd(runner process.Runner) *cobra.Command {
	opts := &options{runner: runner}

	root := &cobra.Command{
		Use:           "regtriage",
		Short:         "Cluster regression testcase failures by failing command and error tag",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "path to the base config file (default config.toml)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")
	f.BoolVar(&opts.markdown, "markdown", false, "render tables as Markdown")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newClustersCmd(opts),
		newTableCmd(opts),
		newDetailsCmd(opts),
		newAskCmd(opts),
		newMsgHelpCmd(opts),
		newWatchCmd(opts),
	)

	return root
}

func (o *options) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := infrastructure.NewLogger(cmd.ErrOrStderr(), level)

	infra, err := infrastructure.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if o.runner != nil {
		infra.Runner = o.runner
	}

	runtime := api.NewRuntime(cfg, infra)
	return &session{
		cfg:    cfg,
		infra:  infra,
		domain: api.NewDomain(runtime),
	}, nil
}

func (o *options) table() *tableWriter {
	if o.markdown {
		return newTable(markdown)
	}
	return newTable(ascii)
}
