package tweet

import "time"

// ExcludedMigrationStatus is the legacy migration bucket that never shows up
// in listings.
const ExcludedMigrationStatus = 99

type Tweet struct {
	ID                     int64
	Publisher              string
	Text                   string
	Discarded              bool
	Pre2015MigrationStatus int
	CreatedAt              time.Time
	DiscardedAt            *time.Time
}
