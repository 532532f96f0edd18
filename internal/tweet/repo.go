package tweet

import "context"

// Repository defines the persistence operations for Tweet entities.
// GetByID returns an errx.NotFound error when no row matches; any other
// failure is reported as errx.Unavailable.
type Repository interface {
	Create(ctx context.Context, t Tweet) (Tweet, error)
	GetByID(ctx context.Context, id int64) (Tweet, error)
	// ListVisibleIDs returns ids of tweets that are neither discarded nor in
	// the excluded migration bucket, newest first.
	ListVisibleIDs(ctx context.Context) ([]int64, error)
	ListDiscarded(ctx context.Context) ([]Tweet, error)
	Update(ctx context.Context, t Tweet) (Tweet, error)

	// WithinTx runs fn against a Repository bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Repository) error) error
}
