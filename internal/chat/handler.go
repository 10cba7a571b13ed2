package chat

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JaimeStill/regtriage/pkg/handlers"
	"github.com/JaimeStill/regtriage/pkg/routes"
)

const timestampLayout = "2006-01-02 15:04:05"

// ErrEmptyQuery indicates a query request without text.
var ErrEmptyQuery = errors.New("no query provided")

// Suggestions are example questions offered to clients.
var Suggestions = []string{
	"How many total failures?",
	"What's the most common command?",
	"List top failing commands",
	"Show error patterns",
	"What are the testcase categories?",
	"Show statistics",
	"Find specific command migrate_pdl_tests",
	"Find specific tag TTM-004",
}

// Handler provides HTTP endpoints for the query responder.
type Handler struct {
	sys    System
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler creates a Handler. A nil now uses time.Now.
func NewHandler(sys System, logger *slog.Logger, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "chat"),
		now:    now,
	}
}

// Routes returns the route group definition for chat endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/chatbot",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Query},
			{Method: "GET", Pattern: "/suggestions", Handler: h.Suggestions},
			{Method: "GET", Pattern: "/data", Handler: h.Data},
			{Method: "POST", Pattern: "/export", Handler: h.Export},
		},
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Response  string `json:"response"`
	Query     string `json:"query"`
	Timestamp string `json:"timestamp"`
}

// Query answers the posted query.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyQuery)
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyQuery)
		return
	}

	answer, err := h.sys.Respond(r.Context(), query)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, queryResponse{
		Response:  answer,
		Query:     query,
		Timestamp: h.now().Format(timestampLayout),
	})
}

// Suggestions returns example questions.
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, map[string][]string{"suggestions": Suggestions})
}

type dataResponse struct {
	Analysis      any  `json:"analysis"`
	DataAvailable bool `json:"data_available"`
	TotalRecords  int  `json:"total_records"`
}

// Data returns the current analysis with availability flags.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	a, err := h.sys.Analysis(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	resp := dataResponse{Analysis: struct{}{}}
	if a != nil {
		resp.Analysis = a
		resp.DataAvailable = a.TotalFailures > 0
		resp.TotalRecords = a.TotalFailures
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

type exportRequest struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

type exportData struct {
	Timestamp       string `json:"timestamp"`
	Query           string `json:"query"`
	Response        string `json:"response"`
	AnalysisSummary any    `json:"analysis_summary"`
}

type exportResponse struct {
	ExportData exportData `json:"export_data"`
	Filename   string     `json:"filename"`
}

// Export packages a query, its answer and the current analysis for download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	a, err := h.sys.Analysis(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	var summary any = struct{}{}
	if a != nil {
		summary = a
	}

	now := h.now()
	handlers.RespondJSON(w, http.StatusOK, exportResponse{
		ExportData: exportData{
			Timestamp:       now.Format(timestampLayout),
			Query:           req.Query,
			Response:        req.Response,
			AnalysisSummary: summary,
		},
		Filename: "chatbot_analysis_" + now.Format("20060102_150405") + ".json",
	})
}
