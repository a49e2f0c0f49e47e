package db

import (
	"github.com/pkg/errors"

	"github.com/mindvault/mindvault/internal/profile"
	"github.com/mindvault/mindvault/store"
	"github.com/mindvault/mindvault/store/db/postgres"
)

// NewDBDriver creates a new db driver based on profile.
//
// PostgreSQL with the pgvector extension is the only supported backend:
// vector similarity search with an in-stage user filter has no equivalent
// in the other SQL drivers.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	driver, err := postgres.NewDB(profile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
