// Package app serves the server-rendered triage dashboard.
package app

import (
	"embed"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/regtriage/internal/analysis"
	"github.com/JaimeStill/regtriage/internal/chat"
	"github.com/JaimeStill/regtriage/internal/clusters"
	"github.com/JaimeStill/regtriage/pkg/middleware"
	"github.com/JaimeStill/regtriage/pkg/module"
	"github.com/JaimeStill/regtriage/pkg/web"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layout = "app.html"

var (
	dashboardView      = web.ViewDef{Route: "/{$}", Template: "dashboard.html", Title: "Regression Triage", Bundle: "app"}
	testcasesView      = web.ViewDef{Route: "/testcases", Template: "testcases.html", Title: "Testcases", Bundle: "app"}
	errorTestcasesView = web.ViewDef{Route: "/error_testcases", Template: "error_testcases.html", Title: "Error Testcases", Bundle: "app"}
	askView            = web.ViewDef{Route: "/ask", Template: "ask.html", Title: "Ask", Bundle: "app"}
	notFoundView       = web.ViewDef{Template: "not_found.html", Title: "Not Found", Bundle: "app"}
)

// Dashboard is the data of the landing page.
type Dashboard struct {
	Summary  []clusters.CommandSummary
	Combined []clusters.CombinedRow
	Failures int
}

// Testcases is the data of the cluster listing page.
type Testcases struct {
	Command  string
	Tag      string
	Clusters []clusters.Cluster
}

// ErrorTestcases is the data of the selected-testcases page.
type ErrorTestcases struct {
	Command   string
	ErrorType string
	Tag       string
	Testcases []string
}

// Answer is the data of the ask page.
type Answer struct {
	Query       string
	Response    string
	Suggestions []string
}

type pages struct {
	analysis analysis.System
	chat     chat.System
}

// NewModule creates the dashboard module mounted at basePath.
func NewModule(basePath string, sys analysis.System, responder chat.System, logger *slog.Logger) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		templateFS,
		templateFS,
		"templates/layouts/*.html",
		"templates/views",
		basePath,
		[]web.ViewDef{dashboardView, testcasesView, errorTestcasesView, askView, notFoundView},
	)
	if err != nil {
		return nil, err
	}

	p := &pages{analysis: sys, chat: responder}
	logger = logger.With("module", "app")

	router := web.NewRouter()
	router.HandleFunc("GET "+dashboardView.Route, ts.DataHandler(layout, dashboardView, p.dashboard, analysis.MapHTTPStatus))
	router.HandleFunc("GET "+testcasesView.Route, ts.DataHandler(layout, testcasesView, p.testcases, analysis.MapHTTPStatus))
	router.HandleFunc("GET "+errorTestcasesView.Route, ts.DataHandler(layout, errorTestcasesView, p.errorTestcases, analysis.MapHTTPStatus))
	router.HandleFunc("GET "+askView.Route, ts.DataHandler(layout, askView, p.ask, nil))
	router.Handle("GET /static/", web.DistServer(staticFS, "static", "/static/"))
	router.NotFound(ts.ErrorHandler(layout, notFoundView, http.StatusNotFound))

	m := module.New(basePath, router)
	m.Use(middleware.Recover(logger))
	m.Use(middleware.Logger(logger))
	return m, nil
}

func (p *pages) dashboard(r *http.Request) (any, error) {
	v, err := p.analysis.Views(r.Context())
	if err != nil {
		return nil, err
	}

	d := Dashboard{
		Summary:  v.Summary,
		Combined: clusters.CombinedTable(v.Clusters, v.Summary, v.Membership),
	}
	for _, s := range v.Summary {
		d.Failures += s.TotalFailures
	}
	return d, nil
}

// testcases lists the clusters matching the optional command and tag filters.
func (p *pages) testcases(r *http.Request) (any, error) {
	v, err := p.analysis.Views(r.Context())
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	t := Testcases{Command: q.Get("command"), Tag: q.Get("tag")}

	commands := v.Clusters.Commands()
	if t.Command != "" {
		commands = []string{t.Command}
	}
	for _, cmd := range commands {
		tags := v.Clusters.Tags(cmd)
		if t.Tag != "" {
			tags = []string{t.Tag}
		}
		for _, tag := range tags {
			if cl, ok := v.Clusters.Cluster(cmd, tag); ok {
				t.Clusters = append(t.Clusters, cl)
			}
		}
	}

	if len(t.Clusters) == 0 && t.Command != "" && t.Tag != "" {
		return nil, analysis.ErrClusterNotFound
	}
	return t, nil
}

func (p *pages) errorTestcases(r *http.Request) (any, error) {
	v, err := p.analysis.Views(r.Context())
	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	e := ErrorTestcases{
		Command:   q.Get("command"),
		ErrorType: q.Get("error_type"),
		Tag:       q.Get("tag"),
	}
	e.Testcases = clusters.ErrorTestcases(v.Clusters, v.Membership, e.Command, e.ErrorType, e.Tag)
	return e, nil
}

func (p *pages) ask(r *http.Request) (any, error) {
	a := Answer{
		Query:       strings.TrimSpace(r.URL.Query().Get("query")),
		Suggestions: chat.Suggestions,
	}
	if a.Query == "" {
		return a, nil
	}

	resp, err := p.chat.Respond(r.Context(), a.Query)
	if err != nil {
		return nil, err
	}
	a.Response = resp
	return a, nil
}
