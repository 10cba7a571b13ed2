package runs

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/regtriage/internal/classify"
	"github.com/JaimeStill/regtriage/internal/clusters"
	"github.com/JaimeStill/regtriage/pkg/pagination"
	"github.com/JaimeStill/regtriage/pkg/query"
	"github.com/JaimeStill/regtriage/pkg/repository"
)

const runIDColumn = "rr.run_id"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates a run repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "runs"),
		pagination: pagination,
		now:        time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Record(ctx context.Context, started time.Time, res classify.Result) error {
	id := uuid.New()
	finished := r.now()

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO runs(id, started_at, finished_at, total_cases, filtered_cases)
			VALUES ($1, $2, $3, $4, $5)`,
			id, started, finished, res.Total, len(res.Records),
		); err != nil {
			return struct{}{}, err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO run_records(run_id, position, testcase_path, failing_command, error_message, tag)
			VALUES ($1, $2, $3, $4, $5, $6)`)
		if err != nil {
			return struct{}{}, err
		}
		defer stmt.Close()

		for i, rec := range res.Records {
			if _, err := stmt.ExecContext(ctx,
				id, i, rec.TestcasePath, rec.FailingCommand, rec.ErrorMessage, rec.Tag,
			); err != nil {
				return struct{}{}, fmt.Errorf("insert record %d: %w", i, err)
			}
		}
		return struct{}{}, nil
	})

	if err != nil {
		return fmt.Errorf("record run: %w", repository.MapError(err, ErrNotFound, ErrDuplicate))
	}

	r.logger.InfoContext(ctx, "run recorded", "id", id, "records", len(res.Records))
	return nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(runProjection, defaultRunSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(runProjection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) Latest(ctx context.Context) (*Run, error) {
	q, args := query.NewBuilder(runProjection, defaultRunSort).BuildFirst()

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &run, nil
}

func (r *repo) Entries(
	ctx context.Context,
	id uuid.UUID,
	page pagination.PageRequest,
	filters EntryFilters,
) (*pagination.PageResult[Entry], error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(entryProjection, defaultEntrySort).
		WhereEquals(runIDColumn, id)

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count run records: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query run records: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Summary(ctx context.Context, id uuid.UUID) ([]clusters.CommandSummary, error) {
	if _, err := r.Find(ctx, id); err != nil {
		return nil, err
	}

	q, args := query.
		NewBuilder(entryProjection, defaultEntrySort).
		WhereEquals(runIDColumn, id).
		Build()

	entries, err := repository.QueryMany(ctx, r.db, q, args, scanEntry)
	if err != nil {
		return nil, fmt.Errorf("query run records: %w", err)
	}

	return clusters.Summarize(clusters.Build(Records(entries))), nil
}

// Records strips the positions from entries.
func Records(entries []Entry) []classify.Record {
	records := make([]classify.Record, len(entries))
	for i, e := range entries {
		records[i] = e.Record
	}
	return records
}
