package api

import (
	"github.com/JaimeStill/regtriage/internal/analysis"
	"github.com/JaimeStill/regtriage/internal/chat"
	"github.com/JaimeStill/regtriage/internal/classify"
	"github.com/JaimeStill/regtriage/internal/diagnostic"
	"github.com/JaimeStill/regtriage/internal/evidence"
	"github.com/JaimeStill/regtriage/internal/lookup"
	"github.com/JaimeStill/regtriage/internal/runs"
	"github.com/JaimeStill/regtriage/internal/snapshot"
)

// Domain holds all domain systems that comprise the API. Runs is nil when
// run history is disabled.
type Domain struct {
	Analysis  analysis.System
	Chat      chat.System
	Lookup    lookup.System
	Runs      runs.System
	Snapshots *snapshot.Store
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	var runsSystem runs.System
	var recorder analysis.Recorder
	if runtime.Database != nil {
		runsSystem = runs.New(
			runtime.Database.Connection(),
			runtime.Logger,
			runtime.Pagination,
		)
		recorder = runsSystem
	}

	snapshots := snapshot.New(
		runtime.Storage,
		runtime.Analysis.SnapshotKey,
		runtime.Logger,
	)

	classifier := &classify.Classifier{
		Planner: evidence.Planner{
			Runner:      runtime.Runner,
			Command:     runtime.Analysis.PlanCommand,
			Timeout:     runtime.Analysis.PlanTimeoutDuration(),
			MaxLineSize: runtime.Analysis.MaxLineSizeBytes(),
			Logger:      runtime.Logger.With("system", "planner"),
		},
		Extractor: diagnostic.Extractor{
			MaxLineSize: runtime.Analysis.MaxLineSizeBytes(),
		},
		Workers: runtime.Analysis.Workers,
		Logger:  runtime.Logger.With("system", "classify"),
	}

	analysisSystem := analysis.New(
		classifier,
		snapshots,
		recorder,
		analysis.Config{
			Manifest: runtime.Analysis.Manifest,
			ListsDir: runtime.Analysis.ListsDir,
			Schedule: runtime.Analysis.Schedule,
		},
		runtime.Logger,
	)

	lookupClient := lookup.New(
		runtime.Runner,
		runtime.Lookup.Command,
		runtime.Lookup.TimeoutDuration(),
		runtime.Logger,
	)

	return &Domain{
		Analysis:  analysisSystem,
		Chat:      chat.New(snapshots, lookupClient, runtime.Logger),
		Lookup:    lookupClient,
		Runs:      runsSystem,
		Snapshots: snapshots,
	}
}
