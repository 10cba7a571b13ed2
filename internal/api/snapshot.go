package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/JaimeStill/regtriage/internal/snapshot"
	"github.com/JaimeStill/regtriage/pkg/handlers"
	"github.com/JaimeStill/regtriage/pkg/routes"
	"github.com/JaimeStill/regtriage/pkg/storage"
)

type snapshotHandler struct {
	store     storage.System
	snapshots *snapshot.Store
	key       string
	logger    *slog.Logger
}

func newSnapshotHandler(store storage.System, snapshots *snapshot.Store, key string, logger *slog.Logger) *snapshotHandler {
	return &snapshotHandler{
		store:     store,
		snapshots: snapshots,
		key:       key,
		logger:    logger.With("handler", "snapshot"),
	}
}

func (h *snapshotHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/snapshot",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/download", Handler: h.download},
			{Method: "DELETE", Pattern: "", Handler: h.reset},
		},
	}
}

// download streams the persisted snapshot as a JSON attachment.
func (h *snapshotHandler) download(w http.ResponseWriter, r *http.Request) {
	body, err := h.store.Download(r.Context(), h.key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(h.key)),
	)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("snapshot download interrupted", "error", err)
	}
}

// reset discards the current snapshot in memory and in storage.
func (h *snapshotHandler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.snapshots.Reset(r.Context()); err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
