// Package db selects the database driver from the profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/storyai/wellspring/internal/profile"
	"github.com/storyai/wellspring/store"
	"github.com/storyai/wellspring/store/db/postgres"
	"github.com/storyai/wellspring/store/db/sqlite"
)

// NewDBDriver creates the store driver based on the profile.
func NewDBDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "sqlite":
		return sqlite.NewDB(profile)
	case "postgres":
		return postgres.NewDB(profile)
	}
	return nil, errors.Errorf("unknown db driver %q", profile.Driver)
}
