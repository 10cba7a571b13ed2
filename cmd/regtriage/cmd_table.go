package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/regtriage/internal/clusters"
)

func newTableCmd(opts *options) *cobra.Command {
	var combined bool

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the error table, or the combined table with --combined",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			views, err := s.domain.Analysis.Views(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(views.Summary) == 0 {
				fmt.Fprintln(out, "No classified failures.")
				return nil
			}

			t := opts.table()
			if combined {
				t.header("S.No", "Failing Command", "Total", "Unique Tags", "Core", "NC Diff", "Simulate Diff", "Make", "Others", "Top Tags")
				t.rightAlign(1, 3, 4, 5, 6, 7, 9)
				for _, r := range clusters.CombinedTable(views.Clusters, views.Summary, views.Membership) {
					t.row(r.SNo, r.FailingCommand, r.TotalFailures, r.UniqueTags,
						r.CoreError, r.NCDiffError, r.SimulateDiffError, r.MakeError, r.Others,
						formatTopTags(r.TopTags))
				}
			} else {
				t.header("S.No", "Failing Command", "Core", "NC Diff", "Simulate Diff", "Make", "Others")
				t.rightAlign(1)
				for _, r := range clusters.ErrorTable(views.Clusters, views.Summary, views.Membership) {
					t.row(r.SNo, r.FailingCommand,
						bucketCell(r.CoreError, r.CoreErrorTestcases),
						bucketCell(r.NCDiffError, r.NCDiffErrorTestcases),
						bucketCell(r.SimulateDiffError, r.SimulateDiffErrorTestcases),
						r.MakeError,
						bucketCell(r.Others, r.OthersErrorTestcases))
				}
			}
			t.render(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&combined, "combined", false, "print the combined summary and category table")
	return cmd
}

func bucketCell(count int, examples []string) string {
	if count == 0 {
		return "0"
	}
	return fmt.Sprintf("%d\n%s", count, strings.Join(examples, "\n"))
}

func formatTopTags(tags []clusters.TagCount) string {
	parts := make([]string, 0, len(tags))
	for _, tc := range tags {
		parts = append(parts, fmt.Sprintf("%s (%d)", tc.Tag, tc.Count))
	}
	return strings.Join(parts, ", ")
}
