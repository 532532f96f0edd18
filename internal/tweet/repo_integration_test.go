package tweet

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sundayezeilo/tweets/internal/db/migrations"
	db "github.com/sundayezeilo/tweets/internal/db/sqlc"
	"github.com/sundayezeilo/tweets/internal/errx"
)

// startPostgres runs a migrated postgres container and returns a pool on it.
func startPostgres(t *testing.T) (*pgxpool.Pool, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.Apply(ctx, func(ctx context.Context, stmt string) error {
		_, err := pool.Exec(ctx, stmt)
		return err
	}))

	return pool, connStr
}

// setMigrationStatus moves a row into a legacy migration bucket. Nothing in
// the service writes this column.
func setMigrationStatus(t *testing.T, pool *pgxpool.Pool, id int64, status int) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		"UPDATE tweets SET pre2015_migration_status = $1 WHERE id = $2", status, id)
	require.NoError(t, err)
}

func TestRepositoryIntegration(t *testing.T) {
	pool, connStr := startPostgres(t)

	gdb, err := gorm.Open(gormpostgres.Open(connStr), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	backends := []struct {
		name string
		repo Repository
	}{
		{"pgx", NewRepository(db.New(pool), &RepositoryConfig{DB: pool})},
		{"gorm", NewGormRepository(gdb)},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			_, err := pool.Exec(ctx, "TRUNCATE tweets RESTART IDENTITY")
			require.NoError(t, err)

			repo := b.repo

			first, err := repo.Create(ctx, Tweet{Publisher: "alice", Text: "first"})
			require.NoError(t, err)
			assert.Equal(t, int64(1), first.ID)
			assert.False(t, first.Discarded)
			assert.False(t, first.CreatedAt.IsZero())
			assert.Nil(t, first.DiscardedAt)

			second, err := repo.Create(ctx, Tweet{Publisher: "bob", Text: "second"})
			require.NoError(t, err)
			third, err := repo.Create(ctx, Tweet{Publisher: "carol", Text: "legacy"})
			require.NoError(t, err)
			assert.Greater(t, third.ID, second.ID)

			setMigrationStatus(t, pool, third.ID, ExcludedMigrationStatus)

			ids, err := repo.ListVisibleIDs(ctx)
			require.NoError(t, err)
			assert.Equal(t, []int64{second.ID, first.ID}, ids)

			got, err := repo.GetByID(ctx, third.ID)
			require.NoError(t, err, "excluded rows are still readable by id")
			assert.Equal(t, ExcludedMigrationStatus, got.Pre2015MigrationStatus)

			_, err = repo.GetByID(ctx, 999)
			assert.Equal(t, errx.NotFound, errx.KindOf(err))

			first.Discarded = true
			updated, err := repo.Update(ctx, first)
			require.NoError(t, err)
			assert.True(t, updated.Discarded)
			require.NotNil(t, updated.DiscardedAt)

			t.Run("discarded flag never reverts", func(t *testing.T) {
				updated.Discarded = false
				again, err := repo.Update(ctx, updated)
				require.NoError(t, err)
				assert.True(t, again.Discarded)
				assert.True(t, again.DiscardedAt.Equal(*updated.DiscardedAt))
			})

			ids, err = repo.ListVisibleIDs(ctx)
			require.NoError(t, err)
			assert.Equal(t, []int64{second.ID}, ids)

			discarded, err := repo.ListDiscarded(ctx)
			require.NoError(t, err)
			require.Len(t, discarded, 1)
			assert.Equal(t, first.ID, discarded[0].ID)

			_, err = repo.Update(ctx, Tweet{ID: 999, Discarded: true})
			assert.Equal(t, errx.NotFound, errx.KindOf(err))

			_, err = repo.Create(ctx, Tweet{Publisher: "", Text: "no publisher"})
			assert.Equal(t, errx.Unavailable, errx.KindOf(err), "store rejects empty publisher as a storage failure")
		})
	}
}

func TestRepositoryIntegration_WithinTxRollsBack(t *testing.T) {
	pool, _ := startPostgres(t)
	ctx := context.Background()
	repo := NewRepository(db.New(pool), &RepositoryConfig{DB: pool})

	err := repo.WithinTx(ctx, func(r Repository) error {
		if _, err := r.Create(ctx, Tweet{Publisher: "alice", Text: "rolled back"}); err != nil {
			return err
		}
		return errx.E("test", errx.Invalid, ErrTweetNotFound)
	})
	require.Error(t, err)
	assert.Equal(t, errx.Invalid, errx.KindOf(err))

	ids, err := repo.ListVisibleIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestServiceIntegration_ConcurrentPublish(t *testing.T) {
	pool, _ := startPostgres(t)
	ctx := context.Background()

	counter := newMockCounter()
	svc := NewService(NewRepository(db.New(pool), &RepositoryConfig{DB: pool}),
		&ServiceConfig{Counter: counter, Logger: quietLogger()})

	const n = 20
	errs := make(chan error, n)
	for i := range n {
		go func() {
			errs <- svc.PublishTweet(ctx, "alice", "tweet "+string(rune('a'+i)))
		}()
	}
	for range n {
		require.NoError(t, <-errs)
	}

	tweets, err := svc.ListAllTweets(ctx)
	require.NoError(t, err)
	require.Len(t, tweets, n)
	for i := 1; i < len(tweets); i++ {
		assert.Greater(t, tweets[i-1].ID, tweets[i].ID, "ids are unique and listed newest first")
	}
	assert.Equal(t, int64(n), counter.get(CounterPublished))
}
