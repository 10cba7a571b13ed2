package runs

import (
	"net/url"
	"time"

	"github.com/JaimeStill/regtriage/pkg/query"
	"github.com/JaimeStill/regtriage/pkg/repository"
)

var runProjection = query.
	NewProjectionMap("public", "runs", "r").
	Project("id", "ID").
	Project("started_at", "StartedAt").
	Project("finished_at", "FinishedAt").
	Project("total_cases", "TotalCases").
	Project("filtered_cases", "FilteredCases")

var defaultRunSort = query.SortField{
	Field:      "StartedAt",
	Descending: true,
}

var entryProjection = query.
	NewProjectionMap("public", "run_records", "rr").
	Project("position", "Position").
	Project("testcase_path", "TestcasePath").
	Project("failing_command", "FailingCommand").
	Project("error_message", "ErrorMessage").
	Project("tag", "Tag")

var defaultEntrySort = query.SortField{Field: "Position"}

// Filters narrows run listings to a start-time window. Nil bounds are ignored.
type Filters struct {
	Since *time.Time `json:"since,omitempty"`
	Until *time.Time `json:"until,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereCompare("StartedAt", ">=", f.Since).
		WhereCompare("StartedAt", "<", f.Until)
}

// FiltersFromQuery extracts RFC 3339 since/until bounds from URL query
// parameters. Unparseable values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("since"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			f.Since = &t
		}
	}

	if u := values.Get("until"); u != "" {
		if t, err := time.Parse(time.RFC3339, u); err == nil {
			f.Until = &t
		}
	}

	return f
}

// EntryFilters narrows the records of a run. A record matches when its
// command is one of Commands, its tag equals Tag, its testcase path
// contains Path and either its path or message contains Search. Empty
// fields are ignored.
type EntryFilters struct {
	Commands []string `json:"commands,omitempty"`
	Tag      *string  `json:"tag,omitempty"`
	Path     *string  `json:"path,omitempty"`
	Search   *string  `json:"search,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f EntryFilters) Apply(b *query.Builder) *query.Builder {
	commands := make([]any, len(f.Commands))
	for i, c := range f.Commands {
		commands[i] = c
	}

	return b.
		WhereIn("FailingCommand", commands).
		WhereEquals("Tag", f.Tag).
		WhereContains("TestcasePath", f.Path).
		WhereSearch(f.Search, "TestcasePath", "ErrorMessage")
}

// EntryFiltersFromQuery extracts record filters from URL query parameters.
// The command parameter may be repeated.
func EntryFiltersFromQuery(values url.Values) EntryFilters {
	var f EntryFilters

	for _, c := range values["command"] {
		if c != "" {
			f.Commands = append(f.Commands, c)
		}
	}

	if t := values.Get("tag"); t != "" {
		f.Tag = &t
	}

	if p := values.Get("path"); p != "" {
		f.Path = &p
	}

	if s := values.Get("search"); s != "" {
		f.Search = &s
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	err := s.Scan(
		&r.ID,
		&r.StartedAt,
		&r.FinishedAt,
		&r.TotalCases,
		&r.FilteredCases,
	)
	return r, err
}

func scanEntry(s repository.Scanner) (Entry, error) {
	var e Entry
	err := s.Scan(
		&e.Position,
		&e.TestcasePath,
		&e.FailingCommand,
		&e.ErrorMessage,
		&e.Tag,
	)
	return e, err
}
