package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"

	"propscout/extract"
	"propscout/links"
	"propscout/models"
	"propscout/scrape"
	"propscout/storage"
)

// InventoryFinder matches criteria against the agency's own stock.
type InventoryFinder interface {
	Find(ctx context.Context, criteria *models.Criteria) ([]models.Property, error)
}

// SearchStore persists clients and their saved searches.
type SearchStore interface {
	GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetClientByPhone(ctx context.Context, phone string) (*models.Client, error)
	CreateClient(ctx context.Context, c *models.Client) error
	CreateSearch(ctx context.Context, search *models.Search) error
}

// ResolveService runs the full inquiry pipeline: extraction, inventory
// matching, portal link generation and live portal scraping, merged into one
// response.
type ResolveService struct {
	extractor *extract.Extractor
	inventory InventoryFinder
	links     *links.Builder
	// scrapers run in a fixed order; the dedup below keeps the first
	// occurrence of a URL, so earlier adapters win ties.
	scrapers      []scrape.Scraper
	blacklist     *scrape.Blacklist
	store         SearchStore
	runLog        *storage.SQLiteStore
	scrapeTimeout time.Duration
}

// Result is the aggregate answer for one inquiry.
type Result struct {
	Criteria     *models.Criteria        `json:"criteria"`
	UsedFallback bool                    `json:"used_fallback"`
	Inventory    []models.Property       `json:"inventory"`
	Links        []models.PortalLink     `json:"links"`
	Scraped      []models.ScrapedListing `json:"scraped"`
	SearchID     *uuid.UUID              `json:"search_id,omitempty"`
}

// PersistOptions controls whether and how a resolved inquiry is saved as a
// client search.
type PersistOptions struct {
	Save     bool
	ClientID *uuid.UUID
	Phone    string
}

func NewResolveService(
	extractor *extract.Extractor,
	inv InventoryFinder,
	linkBuilder *links.Builder,
	scrapers []scrape.Scraper,
	blacklist *scrape.Blacklist,
	store SearchStore,
	runLog *storage.SQLiteStore,
	scrapeTimeout time.Duration,
) *ResolveService {
	return &ResolveService{
		extractor:     extractor,
		inventory:     inv,
		links:         linkBuilder,
		scrapers:      scrapers,
		blacklist:     blacklist,
		store:         store,
		runLog:        runLog,
		scrapeTimeout: scrapeTimeout,
	}
}

// Resolve processes one inquiry end to end. Scraper failures degrade the
// response instead of failing it; invalid input, extraction failure and
// store failures (inventory query or persistence) return an error.
func (s *ResolveService) Resolve(ctx context.Context, rawText string, opts PersistOptions) (*Result, error) {
	started := time.Now()

	criteria, usedFallback, err := s.extractor.Extract(ctx, rawText)
	if err != nil {
		s.logRun(&models.ResolveRun{
			RawText:   rawText,
			Status:    models.RunStatusFailed,
			StartedAt: started,
		})
		return nil, err
	}

	result := &Result{
		Criteria:     criteria,
		UsedFallback: usedFallback,
		Links:        s.links.Build(criteria),
	}

	if s.inventory != nil {
		properties, err := s.inventory.Find(ctx, criteria)
		if err != nil {
			s.logRun(&models.ResolveRun{
				RawText:   rawText,
				Status:    models.RunStatusFailed,
				StartedAt: started,
			})
			return nil, fmt.Errorf("inventory lookup: %w", err)
		}
		result.Inventory = properties
	}

	result.Scraped = s.scrapePortals(ctx, criteria)

	if opts.Save && s.store != nil {
		searchID, err := s.persistSearch(ctx, rawText, criteria, opts)
		if err != nil {
			s.logRun(&models.ResolveRun{
				RawText:   rawText,
				Status:    models.RunStatusFailed,
				StartedAt: started,
			})
			return nil, fmt.Errorf("persist search: %w", err)
		}
		result.SearchID = &searchID
	}

	s.logRun(&models.ResolveRun{
		RawText:        rawText,
		Status:         models.RunStatusCompleted,
		UsedFallback:   usedFallback,
		InventoryCount: len(result.Inventory),
		LinkCount:      len(result.Links),
		ScrapedCount:   len(result.Scraped),
		DurationMS:     time.Since(started).Milliseconds(),
		StartedAt:      started,
	})

	return result, nil
}

// scrapePortals fans out over the portal adapters. A failing or slow adapter
// only loses its own results: errors are logged and swallowed so the group
// never cancels the siblings.
func (s *ResolveService) scrapePortals(ctx context.Context, criteria *models.Criteria) []models.ScrapedListing {
	if len(s.scrapers) == 0 {
		return nil
	}

	results := make([][]models.ScrapedListing, len(s.scrapers))
	g, gctx := errgroup.WithContext(ctx)

	for i, scraper := range s.scrapers {
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, s.scrapeTimeout)
			defer cancel()

			listings, err := scraper.FetchListings(fetchCtx, criteria)
			if err != nil {
				log.Printf("Warning: %s scrape failed: %v", scraper.Name(), err)
				return nil
			}
			results[i] = listings
			return nil
		})
	}
	g.Wait()

	return s.mergeListings(results)
}

// mergeListings flattens per-adapter batches in adapter order, dropping
// blacklisted cards and duplicate URLs. First occurrence of a URL wins.
func (s *ResolveService) mergeListings(batches [][]models.ScrapedListing) []models.ScrapedListing {
	seen := make(map[string]bool)
	var merged []models.ScrapedListing
	for _, batch := range batches {
		for _, listing := range batch {
			if s.blacklist != nil && s.blacklist.Rejects(&listing) {
				continue
			}
			if listing.URL != "" && seen[listing.URL] {
				continue
			}
			seen[listing.URL] = true
			merged = append(merged, listing)
		}
	}
	return merged
}

// persistSearch finds or creates the client and stores the inquiry as an
// active search.
func (s *ResolveService) persistSearch(ctx context.Context, rawText string, criteria *models.Criteria, opts PersistOptions) (uuid.UUID, error) {
	client, err := s.resolveClient(ctx, opts)
	if err != nil {
		return uuid.Nil, err
	}

	search := &models.Search{
		ID:          uuid.New(),
		ClientID:    client.ID,
		RawText:     rawText,
		Annotations: criteria.Summary(),
		Active:      true,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateSearch(ctx, search); err != nil {
		return uuid.Nil, fmt.Errorf("create search: %w", err)
	}
	return search.ID, nil
}

func (s *ResolveService) resolveClient(ctx context.Context, opts PersistOptions) (*models.Client, error) {
	if opts.ClientID != nil {
		client, err := s.store.GetClientByID(ctx, *opts.ClientID)
		if err != nil {
			return nil, fmt.Errorf("get client: %w", err)
		}
		if client == nil {
			return nil, fmt.Errorf("client %s not found", opts.ClientID)
		}
		return client, nil
	}

	if opts.Phone != "" {
		client, err := s.store.GetClientByPhone(ctx, opts.Phone)
		if err != nil {
			return nil, fmt.Errorf("get client by phone: %w", err)
		}
		if client != nil {
			return client, nil
		}
	}

	client := &models.Client{
		ID:        uuid.New(),
		FullName:  "Consulta web " + time.Now().Format("20060102-150405"),
		Phone:     opts.Phone,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateClient(ctx, client); err != nil {
		// Concurrent insert for the same phone: fetch the winner.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && opts.Phone != "" {
			existing, getErr := s.store.GetClientByPhone(ctx, opts.Phone)
			if getErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func (s *ResolveService) logRun(run *models.ResolveRun) {
	if s.runLog == nil {
		return
	}
	if _, err := s.runLog.CreateRun(run); err != nil {
		log.Printf("Warning: could not log resolve run: %v", err)
	}
}
