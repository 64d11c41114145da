package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"mobilede-scraper/models"
)

const sheetName = "Coches Electricos"

var sheetHeader = []string{
	"Title", "Subtitle", "Price (€)", "Price Rating",
	"Mileage (km)", "Range WLTP (km)", "Power (kW)", "Power Detail",
	"Owners", "Fast Charge (min)", "Location", "Seller", "Status", "URL",
}

// XLSXWriter renders the record store as a spreadsheet. Each call to Write
// produces a new file named after the generation time, so prior exports are
// never overwritten.
type XLSXWriter struct {
	outDir string
	now    func() time.Time
}

// NewXLSXWriter creates a writer targeting the given output directory.
func NewXLSXWriter(outDir string) *XLSXWriter {
	return &XLSXWriter{outDir: outDir, now: time.Now}
}

// Write renders one row per listing and returns the path of the created
// file. On any error the partial file is removed; no broken export is left
// in place.
func (w *XLSXWriter) Write(listings []*models.Listing) (string, error) {
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return "", fmt.Errorf("xlsx: create output dir: %w", err)
	}

	path, err := w.nextPath()
	if err != nil {
		return "", err
	}

	// Rows sorted by id so identical store states export identically.
	sorted := make([]*models.Listing, len(listings))
	copy(sorted, listings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("xlsx: header style: %w", err)
	}
	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0000FF", Underline: "single"},
	})
	if err != nil {
		return "", fmt.Errorf("xlsx: link style: %w", err)
	}

	widths := make([]int, len(sheetHeader))

	for col, header := range sheetHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return "", fmt.Errorf("xlsx: write header: %w", err)
		}
		_ = f.SetCellStyle(sheetName, cell, cell, boldStyle)
		widths[col] = len(header)
	}

	urlCol := len(sheetHeader) // URL is the last column

	for i, l := range sorted {
		row := []any{
			l.Title, l.Subtitle, intCell(l.PriceEUR), l.PriceRating,
			intCell(l.MileageKm), intCell(l.RangeKm), intCell(l.PowerKW), l.PowerRaw,
			intCell(l.Owners), intCell(l.FastChargeMin), l.Location, l.Seller,
			string(l.Status), l.URL,
		}
		for col, val := range row {
			if val == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return "", fmt.Errorf("xlsx: write row %d: %w", i+2, err)
			}
			if n := len(fmt.Sprint(val)); n > widths[col] {
				widths[col] = n
			}
		}

		if l.URL != "" {
			cell, _ := excelize.CoordinatesToCellName(urlCol, i+2)
			if err := f.SetCellHyperLink(sheetName, cell, l.URL, "External"); err != nil {
				return "", fmt.Errorf("xlsx: hyperlink row %d: %w", i+2, err)
			}
			_ = f.SetCellStyle(sheetName, cell, cell, linkStyle)
		}
	}

	for col, width := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		adjusted := float64(width + 2)
		if adjusted > 50 {
			adjusted = 50
		}
		_ = f.SetColWidth(sheetName, name, name, adjusted)
	}

	// Save to a temp name in the same directory, then rename, so an I/O
	// failure never leaves a half-written export behind.
	tmp := path + ".tmp.xlsx"
	if err := f.SaveAs(tmp); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("xlsx: save %q: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("xlsx: rename %q: %w", path, err)
	}
	return path, nil
}

// nextPath builds a timestamped filename, suffixing a counter when an
// export with the same timestamp already exists.
func (w *XLSXWriter) nextPath() (string, error) {
	stamp := w.now().Format("2006-01-02_150405")
	path := filepath.Join(w.outDir, fmt.Sprintf("coches-%s.xlsx", stamp))
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		} else if err != nil {
			return "", fmt.Errorf("xlsx: stat %q: %w", path, err)
		}
		path = filepath.Join(w.outDir, fmt.Sprintf("coches-%s-%d.xlsx", stamp, n))
	}
}

func intCell(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
