// Package chat answers free-text questions about the latest analysis with a
// fixed, ordered table of keyword rules.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/JaimeStill/regtriage/internal/classify"
	"github.com/JaimeStill/regtriage/internal/snapshot"
)

var lookupQuery = regexp.MustCompile(`(?i)^(msghelp\s+)?([A-Z]{3,4}-\d+)$`)

// Source provides the records of the latest analysis.
// It returns snapshot.ErrEmpty when no analysis has run.
type Source interface {
	Latest(ctx context.Context) ([]classify.Record, error)
}

// Lookup resolves an error tag to its help text.
type Lookup interface {
	Lookup(ctx context.Context, tag string) (string, error)
}

// System answers queries and exposes the underlying analysis.
type System interface {
	Handler() *Handler
	Respond(ctx context.Context, query string) (string, error)
	Analysis(ctx context.Context) (*Analysis, error)
}

// Responder is the rule-based query responder.
type Responder struct {
	source Source
	lookup Lookup
	rules  []Rule
	logger *slog.Logger
	now    func() time.Time
}

// New creates a responder reading records from source and resolving tags
// through lookup.
func New(source Source, lookup Lookup, logger *slog.Logger) *Responder {
	return &Responder{
		source: source,
		lookup: lookup,
		rules:  Rules,
		logger: logger.With("system", "chat"),
		now:    time.Now,
	}
}

func (r *Responder) Handler() *Handler {
	return NewHandler(r, r.logger, r.now)
}

// Respond answers query. A bare error tag, optionally prefixed with
// "msghelp", is answered by the lookup tool; anything else goes through
// the rule table against the latest records.
func (r *Responder) Respond(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)

	if m := lookupQuery.FindStringSubmatch(query); m != nil {
		tag := strings.ToUpper(m[2])
		out, err := r.lookup.Lookup(ctx, tag)
		if err != nil {
			return fmt.Sprintf("Error running msgHelp: %v", err), nil
		}
		return fmt.Sprintf("[msgHelp %s]:\n%s", tag, out), nil
	}

	records, err := r.records(ctx)
	if err != nil {
		return "", err
	}
	analysis := BuildAnalysis(records)
	if analysis == nil {
		return NoData, nil
	}

	lower := strings.ToLower(query)
	for _, rule := range r.rules {
		if !rule.Match(lower) {
			continue
		}
		if answer, ok := rule.Answer(lower, analysis, records); ok {
			r.logger.DebugContext(ctx, "query answered", "rule", rule.Name)
			return answer, nil
		}
		break
	}

	return NotUnderstood, nil
}

// Analysis returns the aggregate of the latest records, or nil when there
// are none.
func (r *Responder) Analysis(ctx context.Context) (*Analysis, error) {
	records, err := r.records(ctx)
	if err != nil {
		return nil, err
	}
	return BuildAnalysis(records), nil
}

func (r *Responder) records(ctx context.Context) ([]classify.Record, error) {
	records, err := r.source.Latest(ctx)
	if errors.Is(err, snapshot.ErrEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}
	return records, nil
}
