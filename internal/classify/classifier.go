// Package classify walks the testcase manifest and produces one
// classification record per failing testcase with a tagged diagnostic.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/regtriage/internal/diagnostic"
	"github.com/JaimeStill/regtriage/internal/evidence"
)

// Classifier classifies every testcase named by a manifest.
type Classifier struct {
	Planner   evidence.Planner
	Extractor diagnostic.Extractor
	Workers   int
	Logger    *slog.Logger
}

// ClassifyManifest reads the manifest at path and classifies its entries.
func (c *Classifier) ClassifyManifest(ctx context.Context, path string) (Result, error) {
	entries, err := ReadManifest(path)
	if err != nil {
		return Result{}, err
	}
	return c.Classify(ctx, entries)
}

// Classify classifies entries concurrently and returns the records in
// manifest order, one per distinct entry. Only context cancellation aborts
// the pass.
func (c *Classifier) Classify(ctx context.Context, entries []string) (Result, error) {
	entries = Unique(entries)
	slots := make([]*Record, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workerCount(len(entries)))

	for i, entry := range entries {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if rec, ok := c.ClassifyTestcase(gctx, entry); ok {
				slots[i] = &rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("classify: %w", err)
	}

	records := make([]Record, 0, len(entries))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}

	c.log().InfoContext(ctx, "classification complete",
		"total", len(entries),
		"records", len(records),
	)

	return Result{Total: len(entries), Records: records}, nil
}

// ClassifyTestcase classifies a single testcase directory. It reports false
// when the directory has no failing command, no flagged error line, or no tag.
func (c *Classifier) ClassifyTestcase(ctx context.Context, dir string) (Record, bool) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return Record{}, false
	}

	diffs, err := evidence.DiffArtifacts(dir)
	if err != nil {
		c.log().DebugContext(ctx, "list diff artifacts", "dir", dir, "error", err)
		return Record{}, false
	}

	command, ok := c.Planner.FailingCommand(ctx, dir, diffs)
	if !ok {
		return Record{}, false
	}

	line, ok := c.Extractor.FirstErrorLine(filepath.Join(dir, command+evidence.DiffSuffix))
	if !ok {
		return Record{}, false
	}

	tag, ok := diagnostic.ExtractTag(line)
	if !ok {
		c.log().DebugContext(ctx, "error line without tag", "dir", dir, "command", command)
		return Record{}, false
	}

	return Record{
		TestcasePath:   dir,
		FailingCommand: command,
		ErrorMessage:   diagnostic.Truncate(line, diagnostic.MessageLimit),
		Tag:            tag,
	}, true
}

func (c *Classifier) workerCount(n int) int {
	limit := c.Workers
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	return max(min(limit, n), 1)
}

func (c *Classifier) log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}
