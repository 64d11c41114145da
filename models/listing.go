package models

import "time"

// Status tracks where a listing sits in the harvest lifecycle.
type Status string

const (
	// StatusDiscovered means the listing id is known but its detail page
	// has not been fetched yet.
	StatusDiscovered Status = "discovered"
	// StatusComplete means the detail page was fetched and every required
	// field parsed.
	StatusComplete Status = "complete"
	// StatusError means the last detail fetch failed; previously fetched
	// fields are retained.
	StatusError Status = "error"
)

// Listing is one vehicle advertisement tracked in the record store.
// ID is the primary key and never changes after the record is created.
type Listing struct {
	ID  string
	URL string

	Title       string
	Subtitle    string
	PriceRating string

	// Required numeric fields; nil until the detail page has been fetched.
	PriceEUR  *int
	MileageKm *int
	PowerKW   *int

	// PowerRaw keeps the unparsed power text, e.g. "350 kW (476 cv)".
	PowerRaw string

	// Optional numeric fields; nil when the detail page omits them.
	RangeKm       *int
	FastChargeMin *int
	Owners        *int

	Location    string
	Seller      string
	Description string

	FetchedAt time.Time
	Status    Status
}

// NeedsDetails reports whether the listing is eligible for a detail fetch.
func (l *Listing) NeedsDetails() bool {
	return l.Status == StatusDiscovered || l.Status == StatusError
}

// FleetReport holds the computed summary over the stored fleet.
type FleetReport struct {
	Total       int
	ByStatus    map[Status]int
	AvgPriceEUR int
	MinPriceEUR int
	MaxPriceEUR int
	AvgRangeKm  int
	Cheapest    *Listing
	LowestKm    *Listing
}
