package services

import (
	"testing"

	"mobilede-scraper/models"
	"mobilede-scraper/utils"
)

func intPtr(n int) *int { return &n }

func sampleFleet() []*models.Listing {
	return []*models.Listing{
		{ID: "1", Title: "Tesla Model 3", Status: models.StatusComplete,
			PriceEUR: intPtr(30000), MileageKm: intPtr(8000), RangeKm: intPtr(450)},
		{ID: "2", Title: "VW ID.4", Status: models.StatusComplete,
			PriceEUR: intPtr(40000), MileageKm: intPtr(2000), RangeKm: intPtr(410)},
		{ID: "3", Title: "Polestar 2", Status: models.StatusComplete,
			PriceEUR: intPtr(50000), MileageKm: intPtr(9500)},
		{ID: "4", Status: models.StatusDiscovered},
		{ID: "5", Status: models.StatusError},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleFleet())

	if r.Total != 5 {
		t.Errorf("Total: got %d, want 5", r.Total)
	}
	if r.ByStatus[models.StatusComplete] != 3 {
		t.Errorf("complete count: got %d, want 3", r.ByStatus[models.StatusComplete])
	}
	if r.ByStatus[models.StatusDiscovered] != 1 {
		t.Errorf("discovered count: got %d, want 1", r.ByStatus[models.StatusDiscovered])
	}
	if r.ByStatus[models.StatusError] != 1 {
		t.Errorf("error count: got %d, want 1", r.ByStatus[models.StatusError])
	}
}

func TestInsightPriceStats(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleFleet())

	if r.AvgPriceEUR != 40000 {
		t.Errorf("AvgPriceEUR: got %d, want 40000", r.AvgPriceEUR)
	}
	if r.MinPriceEUR != 30000 {
		t.Errorf("MinPriceEUR: got %d, want 30000", r.MinPriceEUR)
	}
	if r.MaxPriceEUR != 50000 {
		t.Errorf("MaxPriceEUR: got %d, want 50000", r.MaxPriceEUR)
	}
	if r.Cheapest == nil || r.Cheapest.ID != "1" {
		t.Errorf("Cheapest: got %+v, want listing 1", r.Cheapest)
	}
	if r.LowestKm == nil || r.LowestKm.ID != "2" {
		t.Errorf("LowestKm: got %+v, want listing 2", r.LowestKm)
	}
}

func TestInsightAverageRangeSkipsMissing(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(sampleFleet())

	// Only two complete listings carry a range value.
	if r.AvgRangeKm != 430 {
		t.Errorf("AvgRangeKm: got %d, want 430", r.AvgRangeKm)
	}
}

func TestInsightEmptyStore(t *testing.T) {
	svc := NewInsightService(utils.NewLogger())
	r := svc.Generate(nil)

	if r.Total != 0 || r.Cheapest != nil || r.AvgPriceEUR != 0 {
		t.Errorf("empty store should produce a zero report, got %+v", r)
	}
}
