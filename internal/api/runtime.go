package api

import (
	"github.com/JaimeStill/regtriage/internal/config"
	"github.com/JaimeStill/regtriage/internal/infrastructure"
	"github.com/JaimeStill/regtriage/pkg/pagination"
)

// Runtime extends Infrastructure with the configuration domain systems need.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Analysis   config.AnalysisConfig
	Lookup     config.LookupConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Runner:    infra.Runner,
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Analysis:   cfg.Analysis,
		Lookup:     cfg.Lookup,
	}
}
