package mobilede

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mobilede-scraper/models"
	"mobilede-scraper/services"
)

const (
	titleSelector       = `h2[class*="typography_headline"]`
	subtitleSelector    = `div[class*="MainCtaBox_subTitle"]`
	priceSelector       = `div[class*="MainPriceArea_mainPrice__"]`
	priceRatingSelector = `div[class*="priceRatingBadge_PriceRatingBadge--label_"]`
	keyFeaturesSelector = `div[class*="KeyFeatures_content__"]`
	sellerSelector      = `div[class*="SellerInfo_name__"]`
	locationSelector    = `div[class*="SellerInfo_address__"]`
	descriptionSelector = `div[class*="VehicleDescription_description__"]`
)

// Labels of the key-feature boxes on the Spanish detail pages.
const (
	labelMileage    = "Kilometraje"
	labelPower      = "Potencia"
	labelFastCharge = "Tiempo de carga rápida"
	labelRange      = "Autonomía (WLTP)"
	labelOwners     = "Propietarios anteriores"
)

// extractDetails renders the record's detail page and returns the updated
// record. On success all detail fields are overwritten and the status moves
// to complete. On a render failure or a required field that is missing or
// malformed, only the status changes to error; previously fetched fields
// survive. The caller commits the returned record.
func (s *Scraper) extractDetails(renderer Renderer, rec *models.Listing) *models.Listing {
	doc, err := renderer.Render(rec.URL)
	if err != nil {
		s.logger.Warn("[details] %s: %v", rec.ID, err)
		rec.Status = models.StatusError
		return rec
	}

	fail := func(reason string) *models.Listing {
		s.logger.Warn("[details] %s: %s", rec.ID, reason)
		rec.Status = models.StatusError
		return rec
	}

	title := elementText(doc, titleSelector)
	if title == "" {
		return fail("title element missing")
	}

	priceRaw := elementText(doc, priceSelector)
	price, err := services.ParsePriceEUR(priceRaw)
	if err != nil {
		return fail(err.Error())
	}

	features := keyFeatures(doc)

	mileageRaw, ok := features[labelMileage]
	if !ok {
		return fail("mileage feature missing")
	}
	mileage, err := services.ParseKm(mileageRaw)
	if err != nil {
		return fail(err.Error())
	}

	powerRaw, ok := features[labelPower]
	if !ok {
		return fail("power feature missing")
	}
	power, err := services.ParseKW(powerRaw)
	if err != nil {
		return fail(err.Error())
	}

	// Required fields all parsed; from here on the record is complete and
	// every detail field is overwritten.
	rec.Title = title
	rec.Subtitle = elementText(doc, subtitleSelector)
	rec.PriceRating = elementText(doc, priceRatingSelector)
	rec.PriceEUR = &price
	rec.MileageKm = &mileage
	rec.PowerKW = &power
	rec.PowerRaw = powerRaw
	rec.Seller = elementText(doc, sellerSelector)
	rec.Location = elementText(doc, locationSelector)
	rec.Description = elementText(doc, descriptionSelector)

	// Optional features: absent labels leave the field nil, malformed
	// values are logged and omitted. Neither fails the record.
	rec.FastChargeMin = s.optionalInt(rec.ID, features, labelFastCharge, services.ParseMinutes)
	rec.RangeKm = s.optionalInt(rec.ID, features, labelRange, services.ParseKm)
	rec.Owners = s.optionalInt(rec.ID, features, labelOwners, services.ParseInt)

	rec.FetchedAt = time.Now()
	rec.Status = models.StatusComplete
	return rec
}

func (s *Scraper) optionalInt(id string, features map[string]string, label string, parse func(string) (int, error)) *int {
	raw, ok := features[label]
	if !ok {
		return nil
	}
	n, err := parse(raw)
	if err != nil {
		s.logger.Warn("[details] %s: optional %q: %v", id, label, err)
		return nil
	}
	return &n
}

// elementText returns the trimmed text of the first element matching the
// selector, or "" when absent.
func elementText(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().Text())
}

// keyFeatures collects the label/value boxes of the detail page. Each box
// renders the label in its first child element and the value in the second;
// older markup put them on separate lines of one text node instead.
func keyFeatures(doc *goquery.Document) map[string]string {
	features := make(map[string]string)

	doc.Find(keyFeaturesSelector).Each(func(_ int, sel *goquery.Selection) {
		children := sel.Children()
		if children.Length() >= 2 {
			label := strings.TrimSpace(children.Eq(0).Text())
			value := strings.TrimSpace(children.Eq(1).Text())
			if label != "" {
				features[label] = value
			}
			return
		}

		lines := strings.Split(sel.Text(), "\n")
		var parts []string
		for _, line := range lines {
			if line = strings.TrimSpace(line); line != "" {
				parts = append(parts, line)
			}
		}
		if len(parts) >= 2 {
			features[parts[0]] = parts[1]
		}
	})

	return features
}
