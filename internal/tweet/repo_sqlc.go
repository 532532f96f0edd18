package tweet

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	db "github.com/sundayezeilo/tweets/internal/db/sqlc"
	"github.com/sundayezeilo/tweets/internal/errx"
)

// querier is an internal interface that abstracts *db.Queries
type querier interface {
	CreateTweet(ctx context.Context, arg db.CreateTweetParams) (db.Tweet, error)
	GetTweet(ctx context.Context, id int64) (db.Tweet, error)
	ListVisibleTweetIDs(ctx context.Context) ([]int64, error)
	ListDiscardedTweets(ctx context.Context) ([]db.Tweet, error)
	UpdateTweetDiscarded(ctx context.Context, arg db.UpdateTweetDiscardedParams) (db.Tweet, error)
}

// txBeginner is satisfied by *pgxpool.Pool and pgx.Tx.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type repo struct {
	q      querier
	db     txBeginner
	bindTx func(pgx.Tx) querier
}

// RepositoryConfig holds configuration for the pgx repository.
type RepositoryConfig struct {
	// DB starts transactions for WithinTx. When nil, WithinTx runs the
	// callback on the repository itself without a transaction.
	DB txBeginner
	// BindTx builds a querier on top of an open transaction. Defaults to db.New.
	BindTx func(pgx.Tx) querier
}

// NewRepository creates a Repository backed by sqlc queries over pgx.
func NewRepository(q querier, config *RepositoryConfig) Repository {
	if config == nil {
		config = &RepositoryConfig{}
	}

	bind := config.BindTx
	if bind == nil {
		bind = func(tx pgx.Tx) querier { return db.New(tx) }
	}

	return &repo{
		q:      q,
		db:     config.DB,
		bindTx: bind,
	}
}

func mustTime(ts pgtype.Timestamptz, field string) (time.Time, error) {
	if !ts.Valid {
		return time.Time{}, fmt.Errorf("%s unexpectedly NULL", field)
	}
	return ts.Time, nil
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func toDomainTweet(x db.Tweet) (Tweet, error) {
	createdAt, err := mustTime(x.CreatedAt, "created_at")
	if err != nil {
		return Tweet{}, err
	}

	return Tweet{
		ID:                     x.ID,
		Publisher:              x.Publisher,
		Text:                   x.Tweet,
		Discarded:              x.Discarded,
		Pre2015MigrationStatus: int(x.Pre2015MigrationStatus),
		CreatedAt:              createdAt,
		DiscardedAt:            timePtr(x.DiscardedAt),
	}, nil
}

func (r *repo) Create(ctx context.Context, t Tweet) (Tweet, error) {
	const op = "tweet.repo.Create"

	row, err := r.q.CreateTweet(ctx, db.CreateTweetParams{
		Publisher:              t.Publisher,
		Tweet:                  t.Text,
		Pre2015MigrationStatus: int32(t.Pre2015MigrationStatus),
	})
	if err != nil {
		return Tweet{}, mapRepoError(op, err)
	}

	created, err := toDomainTweet(row)
	if err != nil {
		return Tweet{}, errx.E(op, errx.Internal, err)
	}
	return created, nil
}

func (r *repo) GetByID(ctx context.Context, id int64) (Tweet, error) {
	const op = "tweet.repo.GetByID"

	row, err := r.q.GetTweet(ctx, id)
	if err != nil {
		return Tweet{}, mapRepoError(op, err)
	}

	t, err := toDomainTweet(row)
	if err != nil {
		return Tweet{}, errx.E(op, errx.Internal, err)
	}
	return t, nil
}

func (r *repo) ListVisibleIDs(ctx context.Context) ([]int64, error) {
	const op = "tweet.repo.ListVisibleIDs"

	ids, err := r.q.ListVisibleTweetIDs(ctx)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	return ids, nil
}

func (r *repo) ListDiscarded(ctx context.Context) ([]Tweet, error) {
	const op = "tweet.repo.ListDiscarded"

	rows, err := r.q.ListDiscardedTweets(ctx)
	if err != nil {
		return nil, mapRepoError(op, err)
	}

	out := make([]Tweet, 0, len(rows))
	for _, row := range rows {
		t, err := toDomainTweet(row)
		if err != nil {
			return nil, errx.E(op, errx.Internal, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *repo) Update(ctx context.Context, t Tweet) (Tweet, error) {
	const op = "tweet.repo.Update"

	row, err := r.q.UpdateTweetDiscarded(ctx, db.UpdateTweetDiscardedParams{
		ID:        t.ID,
		Discarded: t.Discarded,
	})
	if err != nil {
		return Tweet{}, mapRepoError(op, err)
	}

	updated, err := toDomainTweet(row)
	if err != nil {
		return Tweet{}, errx.E(op, errx.Internal, err)
	}
	return updated, nil
}

func (r *repo) WithinTx(ctx context.Context, fn func(Repository) error) error {
	const op = "tweet.repo.WithinTx"

	if r.db == nil {
		return fn(r)
	}

	var fnErr error
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		fnErr = fn(&repo{q: r.bindTx(tx), bindTx: r.bindTx})
		return fnErr
	})
	switch {
	case fnErr != nil:
		// fn's error is already classified; keep it as is.
		return fnErr
	case err != nil:
		return errx.E(op, errx.Unavailable, err)
	}
	return nil
}
