package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/regtriage/internal/analysis"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify the manifest and replace the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			report, err := s.domain.Analysis.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			printReport(opts, cmd, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printReport(opts *options, cmd *cobra.Command, report *analysis.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Analyzed %d testcases: %d classified failures (%s)\n",
		report.TotalCases, report.FilteredCases, report.GeneratedOn)

	if len(report.Testcases) == 0 {
		return
	}

	t := opts.table()
	t.header("Testcase", "Failing Command", "Tag", "Error Message")
	for _, r := range report.Testcases {
		t.row(r.TestcasePath, r.FailingCommand, r.Tag, r.ErrorMessage)
	}
	t.render(out)
}
