package lookup

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/regtriage/pkg/handlers"
	"github.com/JaimeStill/regtriage/pkg/routes"
)

// Handler provides the HTTP endpoint for tag lookups.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler backed by sys.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "lookup"),
	}
}

// Routes returns the route group definition for lookup endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/msghelp",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Lookup},
		},
	}
}

type lookupRequest struct {
	ErrorID string `json:"error_id"`
}

// Lookup runs the lookup tool for the posted error_id.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidTag)
		return
	}

	out, err := h.sys.Lookup(r.Context(), strings.TrimSpace(req.ErrorID))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]string{"output": out})
}
