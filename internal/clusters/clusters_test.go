package clusters_test

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/regtriage/internal/categories"
	"github.com/JaimeStill/regtriage/internal/classify"
	"github.com/JaimeStill/regtriage/internal/clusters"
)

func rec(path, cmd, tag string) classify.Record {
	return classify.Record{
		TestcasePath:   path,
		FailingCommand: cmd,
		ErrorMessage:   "> ERROR: " + tag,
		Tag:            tag,
	}
}

func repeat(cmd, tag string, n int) []classify.Record {
	var out []classify.Record
	for i := range n {
		out = append(out, rec(fmt.Sprintf("%s/%s/tc%d", cmd, tag, i), cmd, tag))
	}
	return out
}

func TestBuildKeepsInsertionOrder(t *testing.T) {
	records := []classify.Record{
		rec("t1", "beta", "BBB-2"),
		rec("t2", "alpha", "AAA-1"),
		rec("t3", "beta", "BBB-1"),
		rec("t4", "beta", "BBB-2"),
	}
	records[3].ErrorMessage = "> ERROR: later message"

	c := clusters.Build(records)

	if diff := cmp.Diff([]string{"beta", "alpha"}, c.Commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"BBB-2", "BBB-1"}, c.Tags("beta")); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}

	cl, ok := c.Cluster("beta", "BBB-2")
	if !ok {
		t.Fatal("cluster not found")
	}
	want := clusters.Cluster{
		Command:      "beta",
		Tag:          "BBB-2",
		ErrorMessage: "> ERROR: BBB-2",
		Testcases:    []string{"t1", "t4"},
	}
	if diff := cmp.Diff(want, cl); diff != "" {
		t.Errorf("cluster mismatch (-want +got):\n%s", diff)
	}

	if _, ok := c.Cluster("beta", "ZZZ-9"); ok {
		t.Error("unexpected cluster for unknown tag")
	}
	if _, ok := c.Cluster("gamma", "BBB-2"); ok {
		t.Error("unexpected cluster for unknown command")
	}
}

func TestSummarizeRankingIsStable(t *testing.T) {
	var records []classify.Record
	records = append(records, repeat("small", "SML-1", 3)...)
	records = append(records, repeat("first", "FST-1", 2)...)
	records = append(records, repeat("first", "FST-2", 3)...)
	records = append(records, repeat("second", "SND-1", 5)...)

	summary := clusters.Summarize(clusters.Build(records))

	type row struct {
		SNo     int
		Command string
		Total   int
		Unique  int
	}
	var got []row
	for _, s := range summary {
		got = append(got, row{s.SNo, s.FailingCommand, s.TotalFailures, s.UniqueFailures})
	}
	want := []row{
		{1, "first", 5, 2},
		{2, "second", 5, 1},
		{3, "small", 3, 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}

	wantTags := []clusters.TagSummary{
		{Tag: "FST-1", ErrorMessage: "> ERROR: FST-1", Count: 2},
		{Tag: "FST-2", ErrorMessage: "> ERROR: FST-2", Count: 3},
	}
	if diff := cmp.Diff(wantTags, summary[0].Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if got := clusters.Summarize(clusters.Build(nil)); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestPartitionIsDisjoint(t *testing.T) {
	records := []classify.Record{
		rec("a", "cmd", "AAA-1"),
		rec("b", "cmd", "AAA-1"),
		rec("a", "cmd", "AAA-2"),
		rec("c", "cmd", "AAA-2"),
		rec("d", "cmd", "AAA-3"),
		rec("e", "cmd", "AAA-3"),
	}
	m := categories.Membership{
		Core:         categories.Set{"a": {}},
		NCDiff:       categories.Set{"a": {}, "b": {}},
		SimulateDiff: categories.Set{"b": {}, "c": {}},
	}

	c := clusters.Build(records)
	p := c.Partition("cmd", m)

	want := clusters.Partition{
		categories.Core:         {"a"},
		categories.NCDiff:       {"b"},
		categories.SimulateDiff: {"c"},
		categories.Others:       {"d", "e"},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("partition mismatch (-want +got):\n%s", diff)
	}
	if p.Total() != len(c.Testcases("cmd")) {
		t.Errorf("bucket total %d != distinct testcases %d", p.Total(), len(c.Testcases("cmd")))
	}
}

func TestErrorTable(t *testing.T) {
	var records []classify.Record
	records = append(records, repeat("big", "BIG-1", 5)...)
	records = append(records, rec("solo", "tiny", "TNY-1"))

	m := categories.Membership{
		Core: categories.Set{"big/BIG-1/tc0": {}, "big/BIG-1/tc1": {}, "big/BIG-1/tc2": {}, "big/BIG-1/tc3": {}},
	}

	c := clusters.Build(records)
	table := clusters.ErrorTable(c, clusters.Summarize(c), m)

	want := []clusters.ErrorRow{
		{
			SNo:                        1,
			FailingCommand:             "big",
			CoreError:                  4,
			CoreErrorTestcases:         []string{"big/BIG-1/tc0", "big/BIG-1/tc1", "big/BIG-1/tc2"},
			NCDiffErrorTestcases:       []string{},
			SimulateDiffErrorTestcases: []string{},
			Others:                     1,
			OthersErrorTestcases:       []string{"big/BIG-1/tc4"},
		},
		{
			SNo:                        2,
			FailingCommand:             "tiny",
			CoreErrorTestcases:         []string{},
			NCDiffErrorTestcases:       []string{},
			SimulateDiffErrorTestcases: []string{},
			Others:                     1,
			OthersErrorTestcases:       []string{"solo"},
		},
	}
	if diff := cmp.Diff(want, table); diff != "" {
		t.Errorf("error table mismatch (-want +got):\n%s", diff)
	}
}

func TestCombinedTable(t *testing.T) {
	var records []classify.Record
	records = append(records, repeat("cmd", "T-A", 1)...)
	records = append(records, repeat("cmd", "T-B", 3)...)
	records = append(records, repeat("cmd", "T-C", 2)...)
	records = append(records, repeat("cmd", "T-D", 3)...)
	// same testcase under a second tag counts once in the distinct total
	records = append(records, rec("cmd/T-A/tc0", "cmd", "T-E"))

	m := categories.Membership{NCDiff: categories.Set{"cmd/T-B/tc0": {}}}

	c := clusters.Build(records)
	summary := clusters.Summarize(c)
	table := clusters.CombinedTable(c, summary, m)

	if len(table) != 1 {
		t.Fatalf("rows = %d, want 1", len(table))
	}
	row := table[0]
	if summary[0].TotalFailures != 10 {
		t.Errorf("summary total = %d, want 10", summary[0].TotalFailures)
	}
	if row.TotalFailures != 9 {
		t.Errorf("distinct total = %d, want 9", row.TotalFailures)
	}
	if row.UniqueTags != 5 {
		t.Errorf("unique tags = %d, want 5", row.UniqueTags)
	}
	if row.NCDiffError != 1 || row.Others != 8 {
		t.Errorf("buckets = nc_diff %d others %d, want 1 and 8", row.NCDiffError, row.Others)
	}
	if sum := row.CoreError + row.NCDiffError + row.SimulateDiffError + row.Others; sum != row.TotalFailures {
		t.Errorf("bucket sum %d != total %d", sum, row.TotalFailures)
	}

	wantTop := []clusters.TagCount{{Tag: "T-B", Count: 3}, {Tag: "T-D", Count: 3}, {Tag: "T-C", Count: 2}}
	if diff := cmp.Diff(wantTop, row.TopTags); diff != "" {
		t.Errorf("top tags mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorTestcases(t *testing.T) {
	records := []classify.Record{
		rec("z", "cmd", "AAA-1"),
		rec("y", "cmd", "AAA-2"),
		rec("x", "cmd", "AAA-2"),
		rec("w", "other", "AAA-1"),
	}
	m := categories.Membership{Core: categories.Set{"y": {}}}
	c := clusters.Build(records)

	tests := []struct {
		name      string
		command   string
		errorType string
		tag       string
		want      []string
	}{
		{"all", "cmd", "all", "", []string{"x", "y", "z"}},
		{"tag", "cmd", "tag", "AAA-2", []string{"x", "y"}},
		{"unknown tag", "cmd", "tag", "ZZZ-1", []string{}},
		{"core", "cmd", "core", "", []string{"y"}},
		{"others", "cmd", "others", "", []string{"x", "z"}},
		{"empty bucket", "cmd", "nc_diff", "", []string{}},
		{"unknown command", "nope", "all", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clusters.ErrorTestcases(c, m, tt.command, tt.errorType, tt.tag)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("testcases mismatch (-want +got):\n%s", diff)
			}
		})
	}

	for _, errorType := range []string{"make_error", ""} {
		got := clusters.ErrorTestcases(c, m, "cmd", errorType, "")
		if got == nil || len(got) != 0 {
			t.Errorf("ErrorTestcases(%q) = %#v, want empty list", errorType, got)
		}
		if clusters.ValidSelector(errorType) {
			t.Errorf("ValidSelector(%q) = true", errorType)
		}
	}
	for _, errorType := range []string{"all", "tag", "core", "others"} {
		if !clusters.ValidSelector(errorType) {
			t.Errorf("ValidSelector(%q) = false", errorType)
		}
	}
}

func TestBucketDetailsSumToRowTotal(t *testing.T) {
	var records []classify.Record
	for i := range 20 {
		records = append(records, rec(fmt.Sprintf("tc%02d", i), "cmd", fmt.Sprintf("TAG-%d", i%4)))
		records = append(records, rec(fmt.Sprintf("tc%02d", i), "cmd", fmt.Sprintf("TAG-%d", (i+1)%4)))
	}
	m := categories.Membership{
		Core:         categories.Set{"tc00": {}, "tc01": {}, "tc02": {}},
		NCDiff:       categories.Set{"tc02": {}, "tc03": {}, "tc04": {}},
		SimulateDiff: categories.Set{"tc04": {}, "tc05": {}, "tc99": {}},
	}
	c := clusters.Build(records)
	row := clusters.CombinedTable(c, clusters.Summarize(c), m)[0]

	sum := 0
	for _, b := range categories.Buckets {
		sum += len(clusters.ErrorTestcases(c, m, "cmd", string(b), ""))
	}
	if sum != row.TotalFailures || sum != 20 {
		t.Errorf("bucket details sum = %d, row total = %d, want 20", sum, row.TotalFailures)
	}
}
