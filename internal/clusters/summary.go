package clusters

import "slices"

// TagSummary is one tag row of a command summary.
type TagSummary struct {
	Tag          string `json:"tag"`
	ErrorMessage string `json:"error_message"`
	Count        int    `json:"count"`
}

// CommandSummary aggregates the clusters of one failing command.
// SNo is the 1-based rank after sorting by TotalFailures.
type CommandSummary struct {
	SNo            int          `json:"sno"`
	FailingCommand string       `json:"failing_command"`
	UniqueFailures int          `json:"unique_failures"`
	TotalFailures  int          `json:"total_failures"`
	Tags           []TagSummary `json:"tags"`
}

// Summarize ranks commands by total failures, highest first. Commands with
// equal totals keep their first-seen order.
func Summarize(c *Clusters) []CommandSummary {
	summary := make([]CommandSummary, 0, c.Len())

	for _, cmd := range c.commands {
		g := c.byCommand[cmd]
		s := CommandSummary{
			FailingCommand: cmd,
			UniqueFailures: len(g.tags),
			Tags:           make([]TagSummary, 0, len(g.tags)),
		}
		for _, tag := range g.tags {
			cl := g.byTag[tag]
			s.Tags = append(s.Tags, TagSummary{
				Tag:          tag,
				ErrorMessage: cl.ErrorMessage,
				Count:        len(cl.Testcases),
			})
			s.TotalFailures += len(cl.Testcases)
		}
		summary = append(summary, s)
	}

	slices.SortStableFunc(summary, func(a, b CommandSummary) int {
		return b.TotalFailures - a.TotalFailures
	})

	for i := range summary {
		summary[i].SNo = i + 1
	}
	return summary
}
