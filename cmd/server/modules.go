package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/regtriage/internal/api"
	"github.com/JaimeStill/regtriage/internal/config"
	"github.com/JaimeStill/regtriage/internal/infrastructure"
	"github.com/JaimeStill/regtriage/pkg/module"
	"github.com/JaimeStill/regtriage/web/app"
)

const appPrefix = "/app"

type Modules struct {
	API *module.Module
	App *module.Module
}

func NewModules(cfg *config.Config, runtime *api.Runtime, domain *api.Domain) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, runtime, domain)
	if err != nil {
		return nil, err
	}

	appModule, err := app.NewModule(appPrefix, domain.Analysis, domain.Chat, runtime.Logger)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
		App: appModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) error {
	if err := router.Mount(m.API); err != nil {
		return err
	}
	return router.Mount(m.App)
}

func respondStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, appPrefix+"/", http.StatusFound)
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		respondStatus(w, http.StatusOK, "ok")
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			respondStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		if infra.Database != nil {
			if err := infra.Database.Ping(r.Context()); err != nil {
				infra.Logger.Warn("readiness check failed", "error", err)
				respondStatus(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		respondStatus(w, http.StatusOK, "ready")
	})

	return router
}
