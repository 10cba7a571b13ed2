package runs_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/regtriage/internal/classify"
	"github.com/JaimeStill/regtriage/internal/runs"
	"github.com/JaimeStill/regtriage/pkg/query"
)

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", runs.ErrNotFound, http.StatusNotFound},
		{"duplicate", runs.ErrDuplicate, http.StatusConflict},
		{"invalid id", runs.ErrInvalidID, http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
		{"wrapped not found", fmt.Errorf("find failed: %w", runs.ErrNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runs.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	t.Run("valid bounds", func(t *testing.T) {
		f := runs.FiltersFromQuery(url.Values{
			"since": {"2026-03-01T00:00:00Z"},
			"until": {"2026-03-14T12:00:00Z"},
		})

		if f.Since == nil || !f.Since.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("Since = %v", f.Since)
		}
		if f.Until == nil || !f.Until.Equal(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)) {
			t.Errorf("Until = %v", f.Until)
		}
	})

	t.Run("invalid bounds ignored", func(t *testing.T) {
		f := runs.FiltersFromQuery(url.Values{"since": {"yesterday"}, "until": {""}})
		if f.Since != nil || f.Until != nil {
			t.Errorf("filters = %+v, want empty", f)
		}
	})
}

func TestFiltersApply(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p := query.NewProjectionMap("public", "runs", "r").Project("started_at", "StartedAt")

	sql, args := runs.Filters{Since: &since}.Apply(query.NewBuilder(p)).BuildCount()

	if want := "SELECT COUNT(*) FROM public.runs r WHERE r.started_at >= $1"; sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 1 {
		t.Errorf("args = %v, want one bound", args)
	}
}

func TestEntryFiltersFromQuery(t *testing.T) {
	f := runs.EntryFiltersFromQuery(url.Values{
		"command": {"buildstep", "", "simulate"},
		"tag":     {"LIC-002"},
		"path":    {"customer"},
		"search":  {"license"},
	})
	if diff := cmp.Diff([]string{"buildstep", "simulate"}, f.Commands); diff != "" {
		t.Errorf("Commands mismatch (-want +got):\n%s", diff)
	}
	if f.Tag == nil || *f.Tag != "LIC-002" {
		t.Errorf("Tag = %v, want LIC-002", f.Tag)
	}
	if f.Path == nil || *f.Path != "customer" {
		t.Errorf("Path = %v, want customer", f.Path)
	}
	if f.Search == nil || *f.Search != "license" {
		t.Errorf("Search = %v, want license", f.Search)
	}

	empty := runs.EntryFiltersFromQuery(url.Values{})
	if empty.Commands != nil || empty.Tag != nil || empty.Path != nil || empty.Search != nil {
		t.Errorf("filters = %+v, want empty", empty)
	}
}

func TestEntryFiltersApply(t *testing.T) {
	p := query.NewProjectionMap("public", "run_records", "rr").
		Project("failing_command", "FailingCommand").
		Project("tag", "Tag").
		Project("testcase_path", "TestcasePath")

	path := "customer"
	f := runs.EntryFilters{Commands: []string{"buildstep", "simulate"}, Path: &path}
	sql, args := f.Apply(query.NewBuilder(p)).BuildCount()

	want := "SELECT COUNT(*) FROM public.run_records rr WHERE rr.failing_command IN ($1, $2) AND rr.testcase_path ILIKE $3"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if diff := cmp.Diff([]any{"buildstep", "simulate", "%customer%"}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestRecords(t *testing.T) {
	a := classify.Record{TestcasePath: "/tc1", FailingCommand: "buildstep", ErrorMessage: "> ERROR (LIC-002)", Tag: "LIC-002"}
	b := classify.Record{TestcasePath: "/tc2", FailingCommand: "simulate", ErrorMessage: "> ERROR (SIM-001)", Tag: "SIM-001"}

	got := runs.Records([]runs.Entry{{Position: 0, Record: a}, {Position: 1, Record: b}})
	if diff := cmp.Diff([]classify.Record{a, b}, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}
