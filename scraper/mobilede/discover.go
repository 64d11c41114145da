package mobilede

import (
	"errors"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"mobilede-scraper/models"
	"mobilede-scraper/services"
	"mobilede-scraper/storage"
)

const (
	paginationSelector  = `ul[class*="pagination_Pagination__"] li:nth-last-child(2)`
	listingLinkSelector = `a[class*="BaseListing_containerLink"]`

	siteBaseURL = "https://www.mobile.de"
)

// discover pages through the search results and upserts a discovered record
// for every listing id not yet in the store. A page that fails to render or
// adds nothing new stops the paging; ids collected before that stay
// committed. Only store failures propagate.
func (s *Scraper) discover(renderer Renderer) error {
	searchURL := s.cfg.Query.URL()

	doc, err := renderer.Render(searchURL)
	if err != nil {
		s.logger.Warn("[search] Results page failed to render: %v", err)
		return nil
	}

	pages := s.pageCount(doc)
	if pages > s.cfg.MaxPages {
		s.logger.Warn("[search] Capping %d result pages at %d", pages, s.cfg.MaxPages)
		pages = s.cfg.MaxPages
	}
	s.logger.Info("[search] %d result pages", pages)

	for page := 1; page <= pages; page++ {
		added, err := s.discoverPage(renderer, page)
		if err != nil {
			var renderErr *PageRenderError
			if errors.As(err, &renderErr) {
				s.logger.Warn("[search] Page %d failed, stopping pagination: %v", page, err)
				break
			}
			return err
		}
		if added == 0 {
			s.logger.Info("[search] Page %d added nothing new, stopping", page)
			break
		}
	}

	return nil
}

// pageCount reads the total page count from the pagination bar. The last
// item is the "next" arrow, so the count sits on the second-to-last one.
func (s *Scraper) pageCount(doc *goquery.Document) int {
	text := strings.TrimSpace(doc.Find(paginationSelector).First().Text())
	n, err := services.ParseInt(text)
	if err != nil || n < 1 {
		s.logger.Debug("[search] No pagination bar found, assuming a single page")
		return 1
	}
	return n
}

// discoverPage collects the listing links of one result page and returns
// how many new records it committed.
func (s *Scraper) discoverPage(renderer Renderer, page int) (int, error) {
	pageURL := s.cfg.Query.PageURL(page)
	s.logger.Info("[search] Reading %s", pageURL)

	doc, err := renderer.Render(pageURL)
	if err != nil {
		return 0, err
	}

	var added, skipped int
	var storeErr error

	doc.Find(listingLinkSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}

		listingURL := cleanListingURL(href)
		if !s.seen.Add(listingURL) {
			return true
		}

		id := listingID(listingURL)
		_, err := s.store.Get(id)
		if err == nil {
			skipped++
			return true
		}
		var notFound storage.ErrNotFound
		if !errors.As(err, &notFound) {
			storeErr = err
			return false
		}

		if err := s.store.Upsert(&models.Listing{
			ID:     id,
			URL:    listingURL,
			Status: models.StatusDiscovered,
		}); err != nil {
			storeErr = err
			return false
		}

		s.logger.Debug("[search] + %s", listingURL)
		added++
		return true
	})

	if storeErr != nil {
		return added, storeErr
	}

	s.logger.Info("[search] Page %d: %d new, %d known", page, added, skipped)
	return added, nil
}

// cleanListingURL strips the search-session parameters off a result link
// and makes it absolute. The first query parameter is the ad id; everything
// after the first '&' is per-search noise (searchId, ref, ...).
func cleanListingURL(href string) string {
	if i := strings.Index(href, "&"); i >= 0 {
		href = href[:i]
	}
	if strings.HasPrefix(href, "/") {
		return siteBaseURL + href
	}
	return href
}

// listingID derives the stable record key from a cleaned listing URL: the
// site-assigned numeric id when present, otherwise the URL itself.
func listingID(listingURL string) string {
	u, err := url.Parse(listingURL)
	if err == nil {
		if id := u.Query().Get("id"); id != "" {
			return id
		}
	}
	return listingURL
}
