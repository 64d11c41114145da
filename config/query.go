package config

import (
	"fmt"
	"net/url"
	"strconv"
)

const searchBaseURL = "https://www.mobile.de/es/veh%C3%ADculos/buscar.html"

// SearchQuery describes the fixed mobile.de search the discoverer targets.
// The zero values of the ceiling fields mean "no limit" and omit the
// corresponding parameter.
type SearchQuery struct {
	VehicleClass string
	Condition    string
	FuelType     string
	Country      string
	MaxPriceEUR  int
	MaxMileageKm int
	MinRangeKm   int
	Categories   []string
	Undamaged    bool
	WithPictures bool
}

// URL renders the query as a mobile.de search URL, sorted newest-first.
func (q SearchQuery) URL() string {
	v := url.Values{}
	v.Set("sb", "doc")
	v.Set("od", "down")
	v.Set("s", "Car")
	if q.VehicleClass != "" {
		v.Set("vc", q.VehicleClass)
	}
	if q.Condition != "" {
		v.Set("con", q.Condition)
	}
	if q.FuelType != "" {
		v.Set("ft", q.FuelType)
	}
	if q.Country != "" {
		v.Set("cn", q.Country)
	}
	if q.MaxPriceEUR > 0 {
		v.Set("p", ":"+strconv.Itoa(q.MaxPriceEUR))
	}
	if q.MaxMileageKm > 0 {
		v.Set("ml", ":"+strconv.Itoa(q.MaxMileageKm))
	}
	if q.MinRangeKm > 0 {
		v.Set("re", strconv.Itoa(q.MinRangeKm))
	}
	for _, c := range q.Categories {
		v.Add("c", c)
	}
	if q.Undamaged {
		v.Set("dam", "0")
	}
	if q.WithPictures {
		v.Set("ao", "PICTURES")
	}
	return searchBaseURL + "?" + v.Encode()
}

// PageURL returns the search URL for one result page (1-based).
func (q SearchQuery) PageURL(page int) string {
	return fmt.Sprintf("%s&pageNumber=%d", q.URL(), page)
}
