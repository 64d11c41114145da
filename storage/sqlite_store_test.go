package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobilede-scraper/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cars.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func ptr(n int) *int { return &n }

func TestSQLiteUpsertInsertsAndReads(t *testing.T) {
	s := newTestStore(t)

	fetched := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	in := &models.Listing{
		ID:            "398179510",
		URL:           "https://www.mobile.de/es/veh%C3%ADculos/detalles.html?id=398179510",
		Title:         "Tesla Model Y",
		Subtitle:      "Long Range AWD",
		PriceRating:   "Buen precio",
		PriceEUR:      ptr(49547),
		MileageKm:     ptr(8000),
		PowerKW:       ptr(378),
		PowerRaw:      "378 kW (514 cv)",
		RangeKm:       ptr(533),
		FastChargeMin: ptr(27),
		Owners:        ptr(1),
		Location:      "Berlin",
		Seller:        "Autohaus X",
		Description:   "Un solo propietario.",
		FetchedAt:     fetched,
		Status:        models.StatusComplete,
	}
	require.NoError(t, s.Upsert(in))

	got, err := s.Get("398179510")
	require.NoError(t, err)
	assert.True(t, got.FetchedAt.Equal(fetched), "fetched_at roundtrip: got %v", got.FetchedAt)

	got.FetchedAt = in.FetchedAt
	assert.Equal(t, in, got)
}

func TestSQLiteUpsertUpdatesInPlace(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Upsert(&models.Listing{
		ID: "1", URL: "https://example.com/1", Status: models.StatusDiscovered,
	}))
	require.NoError(t, s.Upsert(&models.Listing{
		ID: "1", URL: "https://example.com/1", Title: "Updated",
		PriceEUR: ptr(100), Status: models.StatusComplete,
	}))

	all, err := s.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 1, "upsert must never create a duplicate key")
	assert.Equal(t, "Updated", all[0].Title)
	assert.Equal(t, models.StatusComplete, all[0].Status)
}

func TestSQLiteGetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("missing")
	require.Error(t, err)
	assert.ErrorAs(t, err, &ErrNotFound{})
	assert.Contains(t, err.Error(), "missing")
}

func TestSQLiteOptionalFieldsStayNil(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Upsert(&models.Listing{
		ID: "2", URL: "https://example.com/2",
		PriceEUR: ptr(30000), MileageKm: ptr(500), PowerKW: ptr(150),
		Status: models.StatusComplete,
	}))

	got, err := s.Get("2")
	require.NoError(t, err)
	assert.Nil(t, got.FastChargeMin)
	assert.Nil(t, got.Owners)
	assert.Nil(t, got.RangeKm)
	assert.True(t, got.FetchedAt.IsZero())
}

func TestSQLiteGetAllOrderedByID(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"3", "1", "2"} {
		require.NoError(t, s.Upsert(&models.Listing{
			ID: id, URL: "https://example.com/" + id, Status: models.StatusDiscovered,
		}))
	}

	all, err := s.GetAll()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "2", all[1].ID)
	assert.Equal(t, "3", all[2].ID)
}
