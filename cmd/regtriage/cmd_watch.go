package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/regtriage/internal/analysis"
)

func newWatchCmd(opts *options) *cobra.Command {
	debounce := analysis.DefaultDebounce

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the analysis whenever the manifest or category lists change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			run := func(ctx context.Context) {
				report, err := s.domain.Analysis.Run(ctx)
				switch {
				case errors.Is(err, analysis.ErrNoTestcases):
					fmt.Fprintln(out, "No testcases found; waiting for the manifest.")
				case err != nil:
					s.infra.Logger.Error("analysis failed", "error", err)
				default:
					printReport(opts, cmd, report)
				}
			}

			run(cmd.Context())

			files := analysis.InputFiles(s.cfg.Analysis.Manifest, s.cfg.Analysis.ListsDir)
			fmt.Fprintf(out, "Watching %s and the category lists in %s\n",
				s.cfg.Analysis.Manifest, s.cfg.Analysis.ListsDir)

			return analysis.Watch(cmd.Context(), files, debounce, s.infra.Logger, run)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "quiet period before re-running")
	return cmd
}
