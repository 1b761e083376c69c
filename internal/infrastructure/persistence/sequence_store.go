package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sopas/backend/internal/domain/numbering"
	"github.com/sopas/backend/internal/domain/shared"
)

// identifierSequence is the counter row backing one (kind, prefix)
// numbering space.
type identifierSequence struct {
	Kind      string `gorm:"primaryKey;type:varchar(20)"`
	Prefix    string `gorm:"primaryKey;type:varchar(10)"`
	LastValue int64  `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (identifierSequence) TableName() string {
	return "identifier_sequences"
}

// GormSequenceStore implements numbering.SequenceStore on a counter table.
// Reservations are a single atomic UPDATE, so two transactions reserving
// the same (kind, prefix) serialize on the row lock and never receive
// overlapping blocks. Running inside the caller's transaction also means a
// failed batch rolls the counter back with the rows.
type GormSequenceStore struct {
	db *gorm.DB
}

// NewGormSequenceStore creates a sequence store on the given connection
func NewGormSequenceStore(db *gorm.DB) *GormSequenceStore {
	return &GormSequenceStore{db: db}
}

// Reserve atomically claims count consecutive numbers and returns the first.
// A missing counter row is created seeded from seed(), which scans the
// highest identifier already persisted for the prefix.
func (s *GormSequenceStore) Reserve(ctx context.Context, kind numbering.EntityKind, prefix numbering.Prefix, count int64, seed numbering.SeedFunc) (int64, error) {
	if count <= 0 {
		return 0, shared.NewDomainError("INVALID_RESERVATION", "reservation count must be positive")
	}

	db := dbFor(ctx, s.db).WithContext(ctx)

	for attempt := 0; attempt < 2; attempt++ {
		var last int64
		res := db.Raw(
			`UPDATE identifier_sequences
			    SET last_value = last_value + ?, updated_at = ?
			  WHERE kind = ? AND prefix = ?
			  RETURNING last_value`,
			count, time.Now(), string(kind), string(prefix),
		).Scan(&last)
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected > 0 {
			return last - count + 1, nil
		}

		// No counter row yet: seed it from the rows already on disk.
		var floor int64
		if seed != nil {
			var err error
			if floor, err = seed(ctx); err != nil {
				return 0, err
			}
		}

		// ON CONFLICT DO NOTHING so losing the creation race is not a
		// statement error. Inside a Postgres transaction a unique
		// violation would abort the whole transaction and the retry
		// UPDATE below would fail with "transaction is aborted".
		res = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&identifierSequence{
			Kind:      string(kind),
			Prefix:    string(prefix),
			LastValue: floor + count,
			UpdatedAt: time.Now(),
		})
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected > 0 {
			return floor + 1, nil
		}
		// Lost the creation race, the UPDATE path will succeed on retry.
	}

	return 0, shared.ErrConcurrencyConflict
}

// Resync raises the counter to at least floor. Called when a uniqueness
// conflict shows rows numbered above the counter, before retrying.
func (s *GormSequenceStore) Resync(ctx context.Context, kind numbering.EntityKind, prefix numbering.Prefix, floor int64) error {
	db := dbFor(ctx, s.db).WithContext(ctx)

	res := db.Exec(
		`UPDATE identifier_sequences
		    SET last_value = ?, updated_at = ?
		  WHERE kind = ? AND prefix = ? AND last_value < ?`,
		floor, time.Now(), string(kind), string(prefix), floor,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Either the counter is already past floor, or it does not exist yet.
	// A conflicting concurrent create is harmless: the other writer's
	// counter is live and the caller's retry observes it.
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&identifierSequence{
		Kind:      string(kind),
		Prefix:    string(prefix),
		LastValue: floor,
		UpdatedAt: time.Now(),
	}).Error
}

var _ numbering.SequenceStore = (*GormSequenceStore)(nil)
