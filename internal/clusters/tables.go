package clusters

import (
	"cmp"
	"slices"

	"github.com/JaimeStill/regtriage/internal/categories"
)

const (
	exampleLimit = 3
	topTagLimit  = 3
)

// Partition splits the distinct testcases of one command into disjoint
// category buckets. Each bucket keeps first-seen order.
type Partition map[categories.Bucket][]string

// Partition assigns every distinct testcase of command to exactly one bucket.
func (c *Clusters) Partition(command string, m categories.Membership) Partition {
	p := make(Partition, len(categories.Buckets))
	for _, b := range categories.Buckets {
		p[b] = []string{}
	}
	for _, id := range c.Testcases(command) {
		b := m.Classify(id)
		p[b] = append(p[b], id)
	}
	return p
}

// Total returns the number of testcases across all buckets.
func (p Partition) Total() int {
	n := 0
	for _, ids := range p {
		n += len(ids)
	}
	return n
}

// ErrorRow is one row of the error table: per command, the bucket counts
// with up to three example testcases each. MakeError is always empty.
type ErrorRow struct {
	SNo                        int      `json:"sno"`
	FailingCommand             string   `json:"failing_command"`
	CoreError                  int      `json:"core_error"`
	CoreErrorTestcases         []string `json:"core_error_testcases"`
	NCDiffError                int      `json:"nc_diff_error"`
	NCDiffErrorTestcases       []string `json:"nc_diff_error_testcases"`
	SimulateDiffError          int      `json:"simulate_diff_error"`
	SimulateDiffErrorTestcases []string `json:"simulate_diff_error_testcases"`
	MakeError                  string   `json:"make_error"`
	Others                     int      `json:"others"`
	OthersErrorTestcases       []string `json:"others_error_testcases"`
}

// ErrorTable cross-tabulates each ranked command against the membership.
func ErrorTable(c *Clusters, summary []CommandSummary, m categories.Membership) []ErrorRow {
	rows := make([]ErrorRow, 0, len(summary))
	for _, s := range summary {
		p := c.Partition(s.FailingCommand, m)
		rows = append(rows, ErrorRow{
			SNo:                        s.SNo,
			FailingCommand:             s.FailingCommand,
			CoreError:                  len(p[categories.Core]),
			CoreErrorTestcases:         examples(p[categories.Core]),
			NCDiffError:                len(p[categories.NCDiff]),
			NCDiffErrorTestcases:       examples(p[categories.NCDiff]),
			SimulateDiffError:          len(p[categories.SimulateDiff]),
			SimulateDiffErrorTestcases: examples(p[categories.SimulateDiff]),
			Others:                     len(p[categories.Others]),
			OthersErrorTestcases:       examples(p[categories.Others]),
		})
	}
	return rows
}

// TagCount is a tag with the number of testcases carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// CombinedRow is one row of the combined table.
type CombinedRow struct {
	SNo               int        `json:"sno"`
	FailingCommand    string     `json:"failing_command"`
	TotalFailures     int        `json:"total_failures"`
	UniqueTags        int        `json:"unique_tags"`
	CoreError         int        `json:"core_error"`
	NCDiffError       int        `json:"nc_diff_error"`
	SimulateDiffError int        `json:"simulate_diff_error"`
	MakeError         string     `json:"make_error"`
	Others            int        `json:"others"`
	TopTags           []TagCount `json:"top_tags"`
}

// CombinedTable merges the ranked summary with the bucket counts. Its
// TotalFailures counts distinct testcases, unlike CommandSummary.
func CombinedTable(c *Clusters, summary []CommandSummary, m categories.Membership) []CombinedRow {
	rows := make([]CombinedRow, 0, len(summary))
	for _, s := range summary {
		p := c.Partition(s.FailingCommand, m)
		rows = append(rows, CombinedRow{
			SNo:               s.SNo,
			FailingCommand:    s.FailingCommand,
			TotalFailures:     p.Total(),
			UniqueTags:        len(s.Tags),
			CoreError:         len(p[categories.Core]),
			NCDiffError:       len(p[categories.NCDiff]),
			SimulateDiffError: len(p[categories.SimulateDiff]),
			Others:            len(p[categories.Others]),
			TopTags:           topTags(s.Tags),
		})
	}
	return rows
}

func topTags(tags []TagSummary) []TagCount {
	counts := make([]TagCount, 0, len(tags))
	for _, t := range tags {
		counts = append(counts, TagCount{Tag: t.Tag, Count: t.Count})
	}
	slices.SortStableFunc(counts, func(a, b TagCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	top := make([]TagCount, 0, topTagLimit)
	for _, tc := range counts[:min(len(counts), topTagLimit)] {
		if tc.Count > 0 {
			top = append(top, tc)
		}
	}
	return top
}

func examples(ids []string) []string {
	return slices.Clone(ids[:min(len(ids), exampleLimit)])
}
