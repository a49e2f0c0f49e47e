package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mindvault/mindvault/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// Ping verifies the underlying database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	db := s.driver.GetDB()
	if db == nil {
		return errors.New("store has no database handle")
	}
	return db.PingContext(ctx)
}

// Migrate brings the database schema up to date.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}
