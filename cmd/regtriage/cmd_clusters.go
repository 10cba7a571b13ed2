package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newClustersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "clusters",
		Short: "Print the ranked failure summary",
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
			t.header("S.No", "Failing Command", "Unique", "Total", "Tag", "Count", "Error Message")
			t.rightAlign(1, 3, 4, 6)
			for i, c := range views.Summary {
				if i > 0 {
					t.separator()
				}
				for j, tag := range c.Tags {
					if j == 0 {
						t.row(c.SNo, c.FailingCommand, c.UniqueFailures, c.TotalFailures, tag.Tag, tag.Count, tag.ErrorMessage)
						continue
					}
					t.row("", "", "", "", tag.Tag, tag.Count, tag.ErrorMessage)
				}
			}
			t.render(out)
			return nil
		},
	}
}
