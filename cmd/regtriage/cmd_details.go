package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/regtriage/internal/analysis"
	"github.com/JaimeStill/regtriage/internal/clusters"
)

type detailsFlags struct {
	command   string
	tag       string
	errorType string
}

func newDetailsCmd(opts *options) *cobra.Command {
	flags := &detailsFlags{}

	cmd := &cobra.Command{
		Use:   "details",
		Short: "List the testcases of a command, narrowed by tag or category",
		Long: "List the testcases of a failing command. With --tag the (command, tag) cluster\n" +
			"is printed; with --type one of core, nc_diff, simulate_diff, others or all the\n" +
			"matching category bucket is printed.",
		Args: cobra.NoArgs,
		RunE: runDetails(opts, flags),
	}

	f := cmd.Flags()
	f.StringVar(&flags.command, "command", "", "failing command (required)")
	f.StringVar(&flags.tag, "tag", "", "error tag")
	f.StringVar(&flags.errorType, "type", "", "category bucket, or all")
	_ = cmd.MarkFlagRequired("command")
	cmd.MarkFlagsMutuallyExclusive("tag", "type")

	return cmd
}

func runDetails(opts *options, flags *detailsFlags) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		s, err := opts.open(cmd)
		if err != nil {
			return err
		}

		views, err := s.domain.Analysis.Views(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		command := flags.command

		if flags.tag != "" {
			cl, ok := views.Clusters.Cluster(command, flags.tag)
			if !ok {
				return fmt.Errorf("%w: %s / %s", analysis.ErrClusterNotFound, command, flags.tag)
			}
			fmt.Fprintf(out, "%s %s: %s\n", command, flags.tag, cl.ErrorMessage)
			for _, id := range cl.Testcases {
				fmt.Fprintln(out, id)
			}
			return nil
		}

		errorType := flags.errorType
		if errorType == "" {
			errorType = clusters.SelectAll
		}
		if errorType == clusters.SelectTag {
			return fmt.Errorf("%w: use --tag to select a cluster", clusters.ErrUnknownSelector)
		}
		if !clusters.ValidSelector(errorType) {
			return fmt.Errorf("%w: %s", clusters.ErrUnknownSelector, errorType)
		}

		for _, id := range clusters.ErrorTestcases(views.Clusters, views.Membership, command, errorType, "") {
			fmt.Fprintln(out, id)
		}
		return nil
	}
}
