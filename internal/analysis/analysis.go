// Package analysis runs classification passes over the testcase manifest and
// serves the resulting report, clusters and cross-tab tables.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"
	"time"

	"github.com/JaimeStill/regtriage/internal/categories"
	"github.com/JaimeStill/regtriage/internal/classify"
	"github.com/JaimeStill/regtriage/internal/clusters"
	"github.com/JaimeStill/regtriage/internal/snapshot"
	"github.com/JaimeStill/regtriage/pkg/lifecycle"
)

const generatedLayout = "2006-01-02 15:04:05"

// Report is the outcome of a full analysis run.
type Report struct {
	TotalCases    int               `json:"total_cases"`
	FilteredCases int               `json:"filtered_cases"`
	GeneratedOn   string            `json:"generated_on"`
	Testcases     []classify.Record `json:"testcases"`
}

// Views holds the aggregates derived from one fresh classification pass.
type Views struct {
	Clusters   *clusters.Clusters
	Summary    []clusters.CommandSummary
	Membership categories.Membership
}

// Recorder persists the outcome of a completed run.
type Recorder interface {
	Record(ctx context.Context, started time.Time, res classify.Result) error
}

// Config locates the analysis inputs.
type Config struct {
	Manifest string
	ListsDir string
	Schedule string
}

// System defines the analysis operations.
type System interface {
	Handler() *Handler

	// Run classifies the manifest, replaces the snapshot and records the run.
	Run(ctx context.Context) (*Report, error)

	// Views classifies the manifest and aggregates it without touching the
	// snapshot. A missing manifest yields empty views.
	Views(ctx context.Context) (*Views, error)

	// Start registers the scheduled run, if any, with the lifecycle.
	Start(lc *lifecycle.Coordinator) error
}

type system struct {
	classifier *classify.Classifier
	snapshots  *snapshot.Store
	recorder   Recorder
	cfg        Config
	logger     *slog.Logger
	now        func() time.Time

	runMu sync.Mutex
}

// New creates the analysis system. A nil recorder skips run history.
func New(
	classifier *classify.Classifier,
	snapshots *snapshot.Store,
	recorder Recorder,
	cfg Config,
	logger *slog.Logger,
) System {
	return &system{
		classifier: classifier,
		snapshots:  snapshots,
		recorder:   recorder,
		cfg:        cfg,
		logger:     logger.With("system", "analysis"),
		now:        time.Now,
	}
}

func (s *system) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *system) Run(ctx context.Context) (*Report, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	started := s.now()

	entries, err := classify.ReadManifest(s.cfg.Manifest)
	if err != nil {
		s.logger.WarnContext(ctx, "manifest unavailable", "path", s.cfg.Manifest, "error", err)
		return nil, ErrNoTestcases
	}
	if len(entries) == 0 {
		return nil, ErrNoTestcases
	}

	res, err := s.classifier.Classify(ctx, entries)
	if err != nil {
		return nil, err
	}

	if err := s.snapshots.Save(ctx, res.Records); err != nil {
		s.logger.ErrorContext(ctx, "snapshot save failed", "error", err)
	}

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, started, res); err != nil {
			s.logger.ErrorContext(ctx, "record run failed", "error", err)
		}
	}

	records := res.Records
	if records == nil {
		records = []classify.Record{}
	}

	s.logger.InfoContext(ctx, "analysis complete",
		"total", res.Total,
		"records", len(records),
		"duration", s.now().Sub(started),
	)

	return &Report{
		TotalCases:    res.Total,
		FilteredCases: len(records),
		GeneratedOn:   s.now().Format(generatedLayout),
		Testcases:     records,
	}, nil
}

func (s *system) Views(ctx context.Context) (*Views, error) {
	entries, err := classify.ReadManifest(s.cfg.Manifest)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		s.logger.DebugContext(ctx, "manifest missing", "path", s.cfg.Manifest)
	}

	res, err := s.classifier.Classify(ctx, entries)
	if err != nil {
		return nil, fmt.Errorf("build views: %w", err)
	}

	membership, err := categories.Load(s.cfg.ListsDir)
	if err != nil {
		s.logger.WarnContext(ctx, "category lists partially loaded", "dir", s.cfg.ListsDir, "error", err)
	}

	c := clusters.Build(res.Records)
	return &Views{
		Clusters:   c,
		Summary:    clusters.Summarize(c),
		Membership: membership,
	}, nil
}
