package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"mobilede-scraper/models"
)

func exportFleet() []*models.Listing {
	return []*models.Listing{
		{ID: "2", URL: "https://example.com/2", Title: "VW ID.4",
			PriceEUR: ptr(40000), Status: models.StatusComplete},
		{ID: "1", URL: "https://example.com/1", Title: "Tesla Model 3",
			PriceEUR: ptr(30000), MileageKm: ptr(8000), Status: models.StatusComplete},
	}
}

func TestXLSXWriteContent(t *testing.T) {
	w := NewXLSXWriter(t.TempDir())

	path, err := w.Write(exportFleet())
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per listing")

	assert.Equal(t, "Title", rows[0][0])
	assert.Equal(t, "URL", rows[0][len(sheetHeader)-1])

	// Rows are sorted by id regardless of input order.
	assert.Equal(t, "Tesla Model 3", rows[1][0])
	assert.Equal(t, "VW ID.4", rows[2][0])
	assert.Equal(t, "30000", rows[1][2])

	urlCell, _ := excelize.CoordinatesToCellName(len(sheetHeader), 2)
	hasLink, target, err := f.GetCellHyperLink(sheetName, urlCell)
	require.NoError(t, err)
	assert.True(t, hasLink)
	assert.Equal(t, "https://example.com/1", target)
}

func TestXLSXDistinctFilenames(t *testing.T) {
	dir := t.TempDir()
	w := NewXLSXWriter(dir)
	// Pin the clock so both exports collide on the timestamp.
	w.now = func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) }

	first, err := w.Write(exportFleet())
	require.NoError(t, err)
	second, err := w.Write(exportFleet())
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "a second export must never overwrite the first")

	for _, path := range []string{first, second} {
		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		rows, err := f.GetRows(sheetName)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
		_ = f.Close()
	}
}

func TestXLSXEmptyStore(t *testing.T) {
	w := NewXLSXWriter(t.TempDir())

	path, err := w.Write(nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
