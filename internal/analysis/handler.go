package analysis

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/regtriage/internal/clusters"
	"github.com/JaimeStill/regtriage/pkg/handlers"
	"github.com/JaimeStill/regtriage/pkg/routes"
)

// Handler provides HTTP endpoints for analysis runs and their views.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler backed by sys.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "analysis"),
	}
}

// Routes returns the route group definition for analysis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/analyze", Handler: h.Analyze},
			{Method: "GET", Pattern: "/testcases", Handler: h.Analyze},
			{Method: "GET", Pattern: "/clustered", Handler: h.Clustered},
			{Method: "GET", Pattern: "/clustered/details", Handler: h.Details},
			{Method: "GET", Pattern: "/error_table", Handler: h.ErrorTable},
			{Method: "GET", Pattern: "/combined_table", Handler: h.CombinedTable},
			{Method: "GET", Pattern: "/error_testcases", Handler: h.ErrorTestcases},
		},
	}
}

// Analyze runs a full analysis and returns its report.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	report, err := h.sys.Run(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, report)
}

func (h *Handler) views(w http.ResponseWriter, r *http.Request) (*Views, bool) {
	v, err := h.sys.Views(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}
	return v, true
}

// Clustered returns the ranked summary.
func (h *Handler) Clustered(w http.ResponseWriter, r *http.Request) {
	v, ok := h.views(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"summary": v.Summary})
}

// Details returns the cluster identified by the command and tag query
// parameters.
func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	v, ok := h.views(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	cl, found := v.Clusters.Cluster(q.Get("command"), q.Get("tag"))
	if !found {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrClusterNotFound)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, cl)
}

// ErrorTable returns the per-command category cross-tab.
func (h *Handler) ErrorTable(w http.ResponseWriter, r *http.Request) {
	v, ok := h.views(w, r)
	if !ok {
		return
	}
	table := clusters.ErrorTable(v.Clusters, v.Summary, v.Membership)
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"table": table})
}

// CombinedTable returns the summary merged with the category counts.
func (h *Handler) CombinedTable(w http.ResponseWriter, r *http.Request) {
	v, ok := h.views(w, r)
	if !ok {
		return
	}
	table := clusters.CombinedTable(v.Clusters, v.Summary, v.Membership)
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"table": table})
}

// ErrorTestcases returns the sorted testcases selected by the command,
// error_type and tag query parameters.
func (h *Handler) ErrorTestcases(w http.ResponseWriter, r *http.Request) {
	v, ok := h.views(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	ids := clusters.ErrorTestcases(
		v.Clusters,
		v.Membership,
		q.Get("command"),
		q.Get("error_type"),
		q.Get("tag"),
	)
	handlers.RespondJSON(w, http.StatusOK, map[string]any{"testcases": ids})
}
