package api

import (
	"net/http"

	"github.com/JaimeStill/regtriage/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	groups := []routes.Group{
		domain.Analysis.Handler().Routes(),
		domain.Lookup.Handler().Routes(),
		domain.Chat.Handler().Routes(),
		newSnapshotHandler(
			runtime.Storage,
			domain.Snapshots,
			runtime.Analysis.SnapshotKey,
			runtime.Logger,
		).routes(),
	}
	if domain.Runs != nil {
		groups = append(groups, domain.Runs.Handler().Routes())
	}

	routes.Register(mux, groups...)
}
