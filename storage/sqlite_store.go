package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"mobilede-scraper/models"
)

// SQLiteStore persists listings in a single local SQLite file. It is the
// default backend: the whole collection lives next to the binary, like the
// rest of the harvest artifacts.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file at the given path and
// runs schema migrations. Intermediate directories are created automatically.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("sqlite: create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// The store has exactly one writer, the orchestrating process.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id              TEXT PRIMARY KEY,
			url             TEXT NOT NULL,
			title           TEXT NOT NULL DEFAULT '',
			subtitle        TEXT NOT NULL DEFAULT '',
			price_rating    TEXT NOT NULL DEFAULT '',
			price_eur       INTEGER,
			mileage_km      INTEGER,
			power_kw        INTEGER,
			power_raw       TEXT NOT NULL DEFAULT '',
			range_km        INTEGER,
			fast_charge_min INTEGER,
			owners          INTEGER,
			location        TEXT NOT NULL DEFAULT '',
			seller          TEXT NOT NULL DEFAULT '',
			description     TEXT NOT NULL DEFAULT '',
			fetched_at      TEXT NOT NULL DEFAULT '',
			status          TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);
	`)
	return err
}

// Upsert inserts the listing or replaces the existing record with the same id.
func (s *SQLiteStore) Upsert(l *models.Listing) error {
	_, err := s.db.Exec(`
		INSERT INTO listings (
			id, url, title, subtitle, price_rating, price_eur, mileage_km,
			power_kw, power_raw, range_km, fast_charge_min, owners,
			location, seller, description, fetched_at, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url             = excluded.url,
			title           = excluded.title,
			subtitle        = excluded.subtitle,
			price_rating    = excluded.price_rating,
			price_eur       = excluded.price_eur,
			mileage_km      = excluded.mileage_km,
			power_kw        = excluded.power_kw,
			power_raw       = excluded.power_raw,
			range_km        = excluded.range_km,
			fast_charge_min = excluded.fast_charge_min,
			owners          = excluded.owners,
			location        = excluded.location,
			seller          = excluded.seller,
			description     = excluded.description,
			fetched_at      = excluded.fetched_at,
			status          = excluded.status
	`,
		l.ID, l.URL, l.Title, l.Subtitle, l.PriceRating,
		intOrNil(l.PriceEUR), intOrNil(l.MileageKm), intOrNil(l.PowerKW),
		l.PowerRaw, intOrNil(l.RangeKm), intOrNil(l.FastChargeMin), intOrNil(l.Owners),
		l.Location, l.Seller, l.Description, timeToCol(l.FetchedAt), string(l.Status),
	)
	if err != nil {
		return fmt.Errorf("sqlite: upsert %s: %w", l.ID, err)
	}
	return nil
}

// Get retrieves a single listing by id. Returns ErrNotFound when absent.
func (s *SQLiteStore) Get(id string) (*models.Listing, error) {
	row := s.db.QueryRow(selectColumns+" FROM listings WHERE id = ?", id)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get %s: %w", id, err)
	}
	return l, nil
}

// GetAll retrieves every stored listing, ordered by id.
func (s *SQLiteStore) GetAll() ([]*models.Listing, error) {
	rows, err := s.db.Query(selectColumns + " FROM listings ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("sqlite: get all: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scan row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectColumns = `
	SELECT id, url, title, subtitle, price_rating, price_eur, mileage_km,
	       power_kw, power_raw, range_km, fast_charge_min, owners,
	       location, seller, description, fetched_at, status`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*models.Listing, error) {
	var (
		l                                  models.Listing
		price, mileage, power, rng, charge sql.NullInt64
		owners                             sql.NullInt64
		fetchedAt, status                  string
	)
	if err := row.Scan(
		&l.ID, &l.URL, &l.Title, &l.Subtitle, &l.PriceRating,
		&price, &mileage, &power, &l.PowerRaw, &rng, &charge, &owners,
		&l.Location, &l.Seller, &l.Description, &fetchedAt, &status,
	); err != nil {
		return nil, err
	}

	l.PriceEUR = nullToInt(price)
	l.MileageKm = nullToInt(mileage)
	l.PowerKW = nullToInt(power)
	l.RangeKm = nullToInt(rng)
	l.FastChargeMin = nullToInt(charge)
	l.Owners = nullToInt(owners)
	l.Status = models.Status(status)

	if fetchedAt != "" {
		t, err := time.Parse(time.RFC3339, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("bad fetched_at %q: %w", fetchedAt, err)
		}
		l.FetchedAt = t
	}
	return &l, nil
}

func intOrNil(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullToInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func timeToCol(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
