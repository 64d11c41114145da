package storage

import (
	"fmt"

	"mobilede-scraper/config"
	"mobilede-scraper/models"
	"mobilede-scraper/utils"
)

// Store is the keyed persistence interface any backend must satisfy.
// Listings are keyed by their ID; Upsert inserts a new record or replaces
// the existing one with the same ID. No method ever deletes a record.
type Store interface {
	GetAll() ([]*models.Listing, error)
	Get(id string) (*models.Listing, error)
	Upsert(l *models.Listing) error
	Close() error
}

// ErrNotFound is returned by Get when no listing has the given id.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	return "listing not found: " + e.ID
}

// NewStore opens the store backend selected by STORE_DRIVER.
func NewStore(cfg *config.Config, logger *utils.Logger) (Store, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath)
	case "postgres":
		return NewPostgresStore(cfg.DSN(), logger)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StoreDriver)
	}
}
