package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"mobilede-scraper/models"
	"mobilede-scraper/utils"
)

// PostgresStore persists listings in PostgreSQL. Useful when the harvest
// feeds a shared database instead of a local file.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore. The initial ping is retried with
// back-off since the database container may still be coming up.
func NewPostgresStore(dsn string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}
	if err := retry.Do("postgres-ping", db.Ping); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate() error {
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
			fetched_at      TIMESTAMPTZ,
			status          TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);
	`)
	return err
}

// Upsert inserts the listing or replaces the existing record with the same id.
func (s *PostgresStore) Upsert(l *models.Listing) error {
	_, err := s.db.Exec(`
		INSERT INTO listings (
			id, url, title, subtitle, price_rating, price_eur, mileage_km,
			power_kw, power_raw, range_km, fast_charge_min, owners,
			location, seller, description, fetched_at, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		ON CONFLICT (id) DO UPDATE SET
			url             = EXCLUDED.url,
			title           = EXCLUDED.title,
			subtitle        = EXCLUDED.subtitle,
			price_rating    = EXCLUDED.price_rating,
			price_eur       = EXCLUDED.price_eur,
			mileage_km      = EXCLUDED.mileage_km,
			power_kw        = EXCLUDED.power_kw,
			power_raw       = EXCLUDED.power_raw,
			range_km        = EXCLUDED.range_km,
			fast_charge_min = EXCLUDED.fast_charge_min,
			owners          = EXCLUDED.owners,
			location        = EXCLUDED.location,
			seller          = EXCLUDED.seller,
			description     = EXCLUDED.description,
			fetched_at      = EXCLUDED.fetched_at,
			status          = EXCLUDED.status
	`,
		l.ID, l.URL, l.Title, l.Subtitle, l.PriceRating,
		intOrNil(l.PriceEUR), intOrNil(l.MileageKm), intOrNil(l.PowerKW),
		l.PowerRaw, intOrNil(l.RangeKm), intOrNil(l.FastChargeMin), intOrNil(l.Owners),
		l.Location, l.Seller, l.Description, timeOrNil(l.FetchedAt), string(l.Status),
	)
	if err != nil {
		return fmt.Errorf("postgres: upsert %s: %w", l.ID, err)
	}
	return nil
}

// Get retrieves a single listing by id. Returns ErrNotFound when absent.
func (s *PostgresStore) Get(id string) (*models.Listing, error) {
	row := s.db.QueryRow(selectColumns+" FROM listings WHERE id = $1", id)
	l, err := scanPostgresListing(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get %s: %w", id, err)
	}
	return l, nil
}

// GetAll retrieves every stored listing, ordered by id.
func (s *PostgresStore) GetAll() ([]*models.Listing, error) {
	rows, err := s.db.Query(selectColumns + " FROM listings ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("postgres: get all: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l, err := scanPostgresListing(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanPostgresListing(row rowScanner) (*models.Listing, error) {
	var (
		l                                  models.Listing
		price, mileage, power, rng, charge sql.NullInt64
		owners                             sql.NullInt64
		fetchedAt                          sql.NullTime
		status                             string
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
	if fetchedAt.Valid {
		l.FetchedAt = fetchedAt.Time
	}
	return &l, nil
}

func timeOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
