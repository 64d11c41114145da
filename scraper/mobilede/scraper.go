package mobilede

import (
	"fmt"
	"time"

	"mobilede-scraper/config"
	"mobilede-scraper/models"
	"mobilede-scraper/storage"
	"mobilede-scraper/utils"
)

// Scraper drives the mobile.de update pipeline: discover listings from the
// paginated search results, then fetch details for every record that still
// needs them. All fetches share one browser session and run sequentially.
type Scraper struct {
	cfg    *config.Config
	store  storage.Store
	logger *utils.Logger

	// renderer is set by tests; Update acquires a real Session when nil.
	renderer Renderer
	seen     *utils.URLSet
}

// New creates a ready-to-use Scraper on top of the given store.
func New(cfg *config.Config, store storage.Store, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		store:  store,
		logger: logger,
		seen:   utils.NewURLSet(),
	}
}

// UpdateOptions toggles the two phases of an update run independently.
type UpdateOptions struct {
	SkipSearch  bool
	SkipDetails bool
}

// Update runs the search phase, then the detail phase. Every record upsert
// is committed independently, so an interrupted run leaves the store in a
// valid partial state and a re-run picks up where it left off: known ids
// are skipped by discovery and complete records by the detail phase.
//
// Per-page and per-record failures are downgraded to logged diagnostics or
// an error status on the record. Only store failures abort the run.
func (s *Scraper) Update(opts UpdateOptions) error {
	renderer := s.renderer
	if renderer == nil {
		session, err := NewSession(s.cfg, s.logger)
		if err != nil {
			return fmt.Errorf("update: %w", err)
		}
		defer session.Close()
		renderer = session
	}

	if !opts.SkipSearch {
		if err := s.discover(renderer); err != nil {
			return fmt.Errorf("update: search phase: %w", err)
		}
	}

	if !opts.SkipDetails {
		if err := s.fetchDetails(renderer); err != nil {
			return fmt.Errorf("update: detail phase: %w", err)
		}
	}

	return nil
}

// fetchDetails runs the detail extractor over every record still in
// discovered or error status, one page at a time.
func (s *Scraper) fetchDetails(renderer Renderer) error {
	all, err := s.store.GetAll()
	if err != nil {
		return err
	}

	var pending []*models.Listing
	for _, l := range all {
		if l.NeedsDetails() {
			pending = append(pending, l)
		}
	}

	s.logger.Info("[details] %d of %d listings need details", len(pending), len(all))

	for i, rec := range pending {
		s.logger.Info("[details] (%d/%d) Fetching %s", i+1, len(pending), rec.URL)

		updated := s.extractDetails(renderer, rec)
		if err := s.store.Upsert(updated); err != nil {
			return err
		}

		if i < len(pending)-1 {
			time.Sleep(time.Duration(s.cfg.PageDelayMs) * time.Millisecond)
		}
	}

	return nil
}
