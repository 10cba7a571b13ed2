package query_test

import (
	"testing"

	"github.com/JaimeStill/regtriage/pkg/query"
)

func testProjection() *query.ProjectionMap {
	return query.NewProjectionMap("public", "run_records", "rr").
		Project("run_id", "runId").
		Project("testcase_path", "testcasePath").
		Project("position", "position")
}

func ptr(s string) *string { return &s }

func TestProjectionMapTable(t *testing.T) {
	p := testProjection()
	got := p.Table()
	want := "public.run_records rr"
	if got != want {
		t.Errorf("Table() = %q, want %q", got, want)
	}
	if from := p.From(); from != want {
		t.Errorf("From() = %q, want %q", from, want)
	}
}

func TestProjectionMapJoin(t *testing.T) {
	p := query.NewProjectionMap("public", "runs", "r").
		Project("id", "ID").
		Project("started_at", "StartedAt").
		Join("public", "run_records", "rr", "LEFT JOIN", "r.id = rr.run_id").
		Project("tag", "Tag")

	wantFrom := "public.runs r LEFT JOIN public.run_records rr ON r.id = rr.run_id"
	if got := p.From(); got != wantFrom {
		t.Errorf("From() = %q, want %q", got, wantFrom)
	}
	if got := p.Table(); got != "public.runs r" {
		t.Errorf("Table() = %q, want public.runs r", got)
	}
	if got := p.Column("Tag"); got != "rr.tag" {
		t.Errorf("Column(Tag) = %q, want rr.tag", got)
	}
	if got := p.Column("StartedAt"); got != "r.started_at" {
		t.Errorf("Column(StartedAt) = %q, want r.started_at", got)
	}

	sql, _ := query.NewBuilder(p).Build()
	wantSQL := "SELECT r.id, r.started_at, rr.tag FROM " + wantFrom
	if sql != wantSQL {
		t.Errorf("Build() sql = %q, want %q", sql, wantSQL)
	}
}

func TestProjectionMapAlias(t *testing.T) {
	p := testProjection()
	if got := p.Alias(); got != "rr" {
		t.Errorf("Alias() = %q, want %q", got, "rr")
	}
}

func TestProjectionMapColumns(t *testing.T) {
	p := testProjection()
	got := p.Columns()
	want := "rr.run_id, rr.testcase_path, rr.position"
	if got != want {
		t.Errorf("Columns() = %q, want %q", got, want)
	}
}

func TestProjectionMapColumnList(t *testing.T) {
	p := testProjection()
	got := p.ColumnList()
	if len(got) != 3 {
		t.Fatalf("ColumnList() length = %d, want 3", len(got))
	}
	want := []string{"rr.run_id", "rr.testcase_path", "rr.position"}
	for i, col := range got {
		if col != want[i] {
			t.Errorf("ColumnList()[%d] = %q, want %q", i, col, want[i])
		}
	}
}

func TestProjectionMapColumnLookup(t *testing.T) {
	p := testProjection()

	tests := []struct {
		name     string
		viewName string
		want     string
	}{
		{"mapped field", "position", "rr.position"},
		{"mapped camel", "testcasePath", "rr.testcase_path"},
		{"unmapped passthrough", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Column(tt.viewName); got != tt.want {
				t.Errorf("Column(%q) = %q, want %q", tt.viewName, got, tt.want)
			}
		})
	}
}

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []query.SortField
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single ascending",
			input: "name",
			want:  []query.SortField{{Field: "name", Descending: false}},
		},
		{
			name:  "single descending",
			input: "-position",
			want:  []query.SortField{{Field: "position", Descending: true}},
		},
		{
			name:  "multiple mixed",
			input: "name,-position",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "position", Descending: true},
			},
		},
		{
			name:  "with spaces",
			input: " name , -position ",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "position", Descending: true},
			},
		},
		{
			name:  "empty parts skipped",
			input: "name,,position",
			want: []query.SortField{
				{Field: "name", Descending: false},
				{Field: "position", Descending: false},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if tt.want == nil {
				if got != nil {
					t.Errorf("ParseSortFields(%q) = %v, want nil", tt.input, got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseSortFields(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseSortFields(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuilderBuild(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	sql, args := b.Build()

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr"
	if sql != wantSQL {
		t.Errorf("Build() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("Build() args = %v, want empty", args)
	}
}

func TestBuilderBuildCount(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.run_records rr"
	if sql != wantSQL {
		t.Errorf("BuildCount() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildCount() args = %v, want empty", args)
	}
}

func TestBuilderBuildPage(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "position", Descending: true})
	sql, args := b.BuildPage(2, 10)

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr ORDER BY rr.position DESC LIMIT 10 OFFSET 10"
	if sql != wantSQL {
		t.Errorf("BuildPage() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("BuildPage() args = %v, want empty", args)
	}
}

func TestBuilderBuildSingle(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	sql, args := b.BuildSingle("runId", "6f1c")

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr WHERE rr.run_id = $1"
	if sql != wantSQL {
		t.Errorf("BuildSingle() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "6f1c" {
		t.Errorf("BuildSingle() args = %v, want [6f1c]", args)
	}
}

func TestBuilderBuildFirst(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "position", Descending: true})
	b.WhereEquals("testcasePath", "tc1")
	sql, args := b.BuildFirst()

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr WHERE rr.testcase_path = $1 ORDER BY rr.position DESC LIMIT 1"
	if sql != wantSQL {
		t.Errorf("BuildFirst() sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "tc1" {
		t.Errorf("BuildFirst() args = %v, want [tc1]", args)
	}
}

func TestBuilderWhereEquals(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("testcasePath", "tc1")
	sql, args := b.Build()

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr WHERE rr.testcase_path = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "tc1" {
		t.Errorf("args = %v, want [tc1]", args)
	}
}

func TestBuilderWhereEqualsNilSkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("testcasePath", nil)
	sql, args := b.Build()

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContains(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereContains("testcasePath", ptr("test"))
	sql, args := b.Build()

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr WHERE rr.testcase_path ILIKE $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%test%" {
		t.Errorf("args = %v, want [%%test%%]", args)
	}
}

func TestBuilderWhereContainsNilSkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereContains("testcasePath", nil)
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereContainsEmptySkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereContains("testcasePath", ptr(""))
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereIn(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereIn("runId", []any{"a", "b", "c"})
	sql, args := b.Build()

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr WHERE rr.run_id IN ($1, $2, $3)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 3 {
		t.Errorf("args length = %d, want 3", len(args))
	}
}

func TestBuilderWhereInEmptySkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereIn("runId", []any{})
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderWhereSearch(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereSearch(ptr("test"), "testcasePath", "runId")
	sql, args := b.Build()

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr WHERE (rr.testcase_path ILIKE $1 OR rr.run_id ILIKE $2)"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != "%test%" || args[1] != "%test%" {
		t.Errorf("args = %v, want [%%test%% %%test%%]", args)
	}
}

func TestBuilderWhereSearchNilSkipped(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereSearch(nil, "testcasePath")
	_, args := b.Build()

	if len(args) != 0 {
		t.Errorf("args = %v, want empty", args)
	}
}

func TestBuilderMultipleConditions(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("testcasePath", "tc1")
	b.WhereContains("runId", ptr("abc"))
	sql, args := b.Build()

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr WHERE rr.testcase_path = $1 AND rr.run_id ILIKE $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 {
		t.Errorf("args length = %d, want 2", len(args))
	}
	if args[0] != "tc1" {
		t.Errorf("args[0] = %v, want tc1", args[0])
	}
	if args[1] != "%abc%" {
		t.Errorf("args[1] = %v, want %%abc%%", args[1])
	}
}

func TestBuilderOrderByFields(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "runId", Descending: false})
	b.OrderByFields([]query.SortField{
		{Field: "position", Descending: true},
		{Field: "testcasePath", Descending: false},
	})
	sql, _ := b.Build()

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr ORDER BY rr.position DESC, rr.testcase_path ASC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderDefaultSort(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "position", Descending: true})
	sql, _ := b.Build()

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr ORDER BY rr.position DESC"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
}

func TestBuilderBuildCountWithConditions(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereEquals("testcasePath", "tc1")
	sql, args := b.BuildCount()

	wantSQL := "SELECT COUNT(*) FROM public.run_records rr WHERE rr.testcase_path = $1"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "tc1" {
		t.Errorf("args = %v, want [tc1]", args)
	}
}

func TestBuilderBuildPageWithConditions(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p, query.SortField{Field: "runId"})
	b.WhereContains("testcasePath", ptr("flow"))
	sql, args := b.BuildPage(3, 25)

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr WHERE rr.testcase_path ILIKE $1 ORDER BY rr.run_id ASC LIMIT 25 OFFSET 50"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 1 || args[0] != "%flow%" {
		t.Errorf("args = %v, want [%%flow%%]", args)
	}
}

func TestBuilderWhereCompare(t *testing.T) {
	p := testProjection()
	b := query.NewBuilder(p)
	b.WhereCompare("position", ">=", 10)
	b.WhereCompare("position", "<", 20)
	b.WhereCompare("testcasePath", "=", nil)
	sql, args := b.Build()

	wantSQL := "SELECT rr.run_id, rr.testcase_path, rr.position FROM public.run_records rr WHERE rr.position >= $1 AND rr.position < $2"
	if sql != wantSQL {
		t.Errorf("sql = %q, want %q", sql, wantSQL)
	}
	if len(args) != 2 || args[0] != 10 || args[1] != 20 {
		t.Errorf("args = %v, want [10 20]", args)
	}
}

func TestBuilderWhereCompareRejectsOperator(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("WhereCompare with an unsupported operator did not panic")
		}
	}()
	query.NewBuilder(testProjection()).WhereCompare("position", "; DROP", 1)
}
