package tweet

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"gorm.io/gorm"

	"github.com/sundayezeilo/tweets/internal/errx"
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound)
}

// mapRepoError classifies a store error. Anything but a missing row is a
// storage failure, constraint violations included.
func mapRepoError(op string, err error) error {
	if isNoRows(err) {
		return errx.E(op, errx.NotFound, err)
	}
	return errx.E(op, errx.Unavailable, err)
}
