package config

import (
	"strings"
	"testing"
)

func defaultQuery() SearchQuery {
	return SearchQuery{
		VehicleClass: "Car",
		Condition:    "USED",
		FuelType:     "ELECTRICITY",
		Country:      "DE",
		MaxPriceEUR:  60000,
		MaxMileageKm: 10000,
		MinRangeKm:   400,
		Categories:   []string{"OffRoad", "Limousine"},
		Undamaged:    true,
		WithPictures: true,
	}
}

func TestSearchQueryURL(t *testing.T) {
	u := defaultQuery().URL()

	if !strings.HasPrefix(u, "https://www.mobile.de/es/veh%C3%ADculos/buscar.html?") {
		t.Fatalf("unexpected base URL: %s", u)
	}

	for _, param := range []string{
		"vc=Car",
		"con=USED",
		"ft=ELECTRICITY",
		"cn=DE",
		"p=%3A60000",
		"ml=%3A10000",
		"re=400",
		"c=OffRoad",
		"c=Limousine",
		"dam=0",
		"ao=PICTURES",
		"sb=doc",
		"od=down",
	} {
		if !strings.Contains(u, param) {
			t.Errorf("search URL missing %q: %s", param, u)
		}
	}
}

func TestSearchQueryURLOmitsZeroCeilings(t *testing.T) {
	q := defaultQuery()
	q.MaxPriceEUR = 0
	q.MinRangeKm = 0

	u := q.URL()
	if strings.Contains(u, "p=%3A") {
		t.Errorf("zero price ceiling should omit the p parameter: %s", u)
	}
	if strings.Contains(u, "re=") {
		t.Errorf("zero min range should omit the re parameter: %s", u)
	}
}

func TestSearchQueryPageURL(t *testing.T) {
	u := defaultQuery().PageURL(3)
	if !strings.HasSuffix(u, "&pageNumber=3") {
		t.Errorf("page URL should end with pageNumber: %s", u)
	}
}

func TestSearchQueryIsStable(t *testing.T) {
	q := defaultQuery()
	if q.URL() != q.URL() {
		t.Error("repeated URL rendering must produce identical URLs")
	}
}
