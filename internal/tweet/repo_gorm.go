package tweet

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sundayezeilo/tweets/internal/errx"
)

// tweetRecord maps the tweets table for the gorm backend.
type tweetRecord struct {
	ID                     int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Publisher              string     `gorm:"column:publisher;not null"`
	Tweet                  string     `gorm:"column:tweet;not null"`
	Discarded              bool       `gorm:"column:discarded;not null;default:false"`
	Pre2015MigrationStatus int        `gorm:"column:pre2015_migration_status;not null;default:0"`
	CreatedAt              time.Time  `gorm:"column:created_at"`
	DiscardedAt            *time.Time `gorm:"column:discarded_at"`
}

func (tweetRecord) TableName() string { return "tweets" }

func (rec tweetRecord) toDomain() Tweet {
	return Tweet{
		ID:                     rec.ID,
		Publisher:              rec.Publisher,
		Text:                   rec.Tweet,
		Discarded:              rec.Discarded,
		Pre2015MigrationStatus: rec.Pre2015MigrationStatus,
		CreatedAt:              rec.CreatedAt,
		DiscardedAt:            rec.DiscardedAt,
	}
}

type gormRepo struct {
	db   *gorm.DB
	inTx bool
}

// NewGormRepository creates a Repository backed by gorm. It expects the
// schema from internal/db/migrations to be in place.
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepo{db: db}
}

func (r *gormRepo) Create(ctx context.Context, t Tweet) (Tweet, error) {
	const op = "tweet.gormRepo.Create"

	rec := tweetRecord{
		Publisher:              t.Publisher,
		Tweet:                  t.Text,
		Pre2015MigrationStatus: t.Pre2015MigrationStatus,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return Tweet{}, mapRepoError(op, err)
	}
	return rec.toDomain(), nil
}

func (r *gormRepo) GetByID(ctx context.Context, id int64) (Tweet, error) {
	const op = "tweet.gormRepo.GetByID"

	var rec tweetRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return Tweet{}, mapRepoError(op, err)
	}
	return rec.toDomain(), nil
}

func (r *gormRepo) ListVisibleIDs(ctx context.Context) ([]int64, error) {
	const op = "tweet.gormRepo.ListVisibleIDs"

	ids := []int64{}
	err := r.db.WithContext(ctx).
		Model(&tweetRecord{}).
		Where("pre2015_migration_status <> ? AND discarded = ?", ExcludedMigrationStatus, false).
		Order("id DESC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	return ids, nil
}

func (r *gormRepo) ListDiscarded(ctx context.Context) ([]Tweet, error) {
	const op = "tweet.gormRepo.ListDiscarded"

	var recs []tweetRecord
	err := r.db.WithContext(ctx).
		Where("pre2015_migration_status <> ? AND discarded = ?", ExcludedMigrationStatus, true).
		Order("discarded_at DESC").
		Order("id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, mapRepoError(op, err)
	}

	out := make([]Tweet, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.toDomain())
	}
	return out, nil
}

func (r *gormRepo) Update(ctx context.Context, t Tweet) (Tweet, error) {
	const op = "tweet.gormRepo.Update"

	// discarded never flips back; discarded_at keeps the first discard time.
	res := r.db.WithContext(ctx).
		Model(&tweetRecord{}).
		Where("id = ?", t.ID).
		Updates(map[string]any{
			"discarded":    gorm.Expr("discarded OR ?", t.Discarded),
			"discarded_at": gorm.Expr("CASE WHEN ? THEN COALESCE(discarded_at, now()) ELSE discarded_at END", t.Discarded),
		})
	if res.Error != nil {
		return Tweet{}, mapRepoError(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return Tweet{}, mapRepoError(op, gorm.ErrRecordNotFound)
	}

	return r.GetByID(ctx, t.ID)
}

func (r *gormRepo) WithinTx(ctx context.Context, fn func(Repository) error) error {
	const op = "tweet.gormRepo.WithinTx"

	if r.inTx {
		return fn(r)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepo{db: tx, inTx: true})
	})
	if err != nil && errx.KindOf(err) == errx.Unknown {
		return errx.E(op, errx.Unavailable, err)
	}
	return err
}
