package runs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/regtriage/internal/classify"
	"github.com/JaimeStill/regtriage/internal/clusters"
	"github.com/JaimeStill/regtriage/pkg/pagination"
)

// System defines the run history operations.
type System interface {
	Handler() *Handler

	// Record stores a completed classification pass.
	Record(ctx context.Context, started time.Time, res classify.Result) error

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)

	// Latest returns the most recently started run, or ErrNotFound when
	// none has been recorded.
	Latest(ctx context.Context) (*Run, error)

	Entries(
		ctx context.Context,
		id uuid.UUID,
		page pagination.PageRequest,
		filters EntryFilters,
	) (*pagination.PageResult[Entry], error)

	// Summary ranks the stored records of a run the same way a live
	// analysis does.
	Summary(ctx context.Context, id uuid.UUID) ([]clusters.CommandSummary, error)
}
