package services

import (
	"fmt"
	"strings"

	"mobilede-scraper/models"
	"mobilede-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate computes the fleet summary over all stored listings. Price and
// mileage statistics only consider complete records.
func (s *InsightService) Generate(listings []*models.Listing) *models.FleetReport {
	report := &models.FleetReport{
		ByStatus: make(map[models.Status]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.Total = len(listings)

	var priced []*models.Listing
	var rangeSum, rangeCount int

	for _, l := range listings {
		report.ByStatus[l.Status]++
		if l.Status != models.StatusComplete {
			continue
		}
		if l.PriceEUR != nil {
			priced = append(priced, l)
		}
		if l.RangeKm != nil {
			rangeSum += *l.RangeKm
			rangeCount++
		}
		if l.MileageKm != nil {
			if report.LowestKm == nil || *l.MileageKm < *report.LowestKm.MileageKm {
				report.LowestKm = l
			}
		}
	}

	if len(priced) > 0 {
		report.MinPriceEUR = *priced[0].PriceEUR
		report.MaxPriceEUR = *priced[0].PriceEUR
		report.Cheapest = priced[0]
		var total int
		for _, l := range priced {
			price := *l.PriceEUR
			total += price
			if price < report.MinPriceEUR {
				report.MinPriceEUR = price
				report.Cheapest = l
			}
			if price > report.MaxPriceEUR {
				report.MaxPriceEUR = price
			}
		}
		report.AvgPriceEUR = total / len(priced)
	}

	if rangeCount > 0 {
		report.AvgRangeKm = rangeSum / rangeCount
	}

	return report
}

// Print renders the report to stdout.
func (s *InsightService) Print(r *models.FleetReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🔌 ELECTRIC FLEET SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Listings tracked : \033[1m%d\033[0m\n", r.Total)
	fmt.Printf("  Complete         : \033[1m%d\033[0m\n", r.ByStatus[models.StatusComplete])
	fmt.Printf("  Awaiting details : \033[1m%d\033[0m\n", r.ByStatus[models.StatusDiscovered])
	fmt.Printf("  Failed fetches   : \033[1m%d\033[0m\n", r.ByStatus[models.StatusError])
	fmt.Println()

	fmt.Printf("\033[1;33m  Price Statistics\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.AvgPriceEUR > 0 {
		fmt.Printf("  Average price : \033[1;32m%d €\033[0m\n", r.AvgPriceEUR)
		fmt.Printf("  Minimum price : \033[1;32m%d €\033[0m\n", r.MinPriceEUR)
		fmt.Printf("  Maximum price : \033[1;32m%d €\033[0m\n", r.MaxPriceEUR)
	} else {
		fmt.Printf("  No price data available\n")
	}
	fmt.Println()

	if r.AvgRangeKm > 0 {
		fmt.Printf("\033[1;33m  Range\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  Average WLTP range : \033[1m%d km\033[0m\n", r.AvgRangeKm)
		fmt.Println()
	}

	if r.Cheapest != nil {
		fmt.Printf("\033[1;33m  Cheapest Listing\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.Cheapest.Title, 50))
		fmt.Printf("  Price : \033[1;31m%d €\033[0m\n", *r.Cheapest.PriceEUR)
		fmt.Printf("  URL   : %s\n", r.Cheapest.URL)
		fmt.Println()
	}

	if r.LowestKm != nil {
		fmt.Printf("\033[1;33m  Lowest Mileage\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.LowestKm.Title, 50))
		fmt.Printf("  Mileage : \033[1m%d km\033[0m\n", *r.LowestKm.MileageKm)
		fmt.Println()
	}

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
