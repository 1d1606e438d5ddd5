package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"propscout/extract"
	"propscout/gazetteer"
	"propscout/links"
	"propscout/models"
	"propscout/scrape"
)

type fakeScraper struct {
	name     string
	listings []models.ScrapedListing
	err      error
	delay    time.Duration
}

func (f *fakeScraper) Name() string { return f.name }

func (f *fakeScraper) FetchListings(ctx context.Context, _ *models.Criteria) ([]models.ScrapedListing, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.listings, f.err
}

type fakeInventory struct {
	properties []models.Property
	err        error
}

func (f *fakeInventory) Find(_ context.Context, _ *models.Criteria) ([]models.Property, error) {
	return f.properties, f.err
}

type fakeSearchStore struct {
	clientsByPhone  map[string]*models.Client
	createSearchErr error
	searches        []*models.Search
}

func (f *fakeSearchStore) GetClientByID(_ context.Context, _ uuid.UUID) (*models.Client, error) {
	return nil, nil
}

func (f *fakeSearchStore) GetClientByPhone(_ context.Context, phone string) (*models.Client, error) {
	return f.clientsByPhone[phone], nil
}

func (f *fakeSearchStore) CreateClient(_ context.Context, c *models.Client) error {
	if f.clientsByPhone == nil {
		f.clientsByPhone = make(map[string]*models.Client)
	}
	f.clientsByPhone[c.Phone] = c
	return nil
}

func (f *fakeSearchStore) CreateSearch(_ context.Context, search *models.Search) error {
	if f.createSearchErr != nil {
		return f.createSearchErr
	}
	f.searches = append(f.searches, search)
	return nil
}

func newTestService(t *testing.T, scrapers []scrape.Scraper) *ResolveService {
	t.Helper()
	gaz, err := gazetteer.Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("loading gazetteer: %v", err)
	}
	extractor := extract.New(nil, extract.NewRuleStrategy(gaz), 10)
	blacklist := scrape.NewBlacklist([]string{"rosario"})
	return NewResolveService(extractor, nil, links.NewBuilder(), scrapers, blacklist, nil, nil, 2*time.Second)
}

func newTestExtractor(t *testing.T) *extract.Extractor {
	t.Helper()
	gaz, err := gazetteer.Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("loading gazetteer: %v", err)
	}
	return extract.New(nil, extract.NewRuleStrategy(gaz), 10)
}

func TestResolveRejectsShortInput(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.Resolve(context.Background(), "casa", PersistOptions{})
	if !errors.Is(err, extract.ErrQueryTooShort) {
		t.Fatalf("err = %v, want ErrQueryTooShort", err)
	}
}

func TestResolveDeduplicatesFirstSeenWins(t *testing.T) {
	first := &fakeScraper{name: "zonaprop", listings: []models.ScrapedListing{
		{Source: "zonaprop", Title: "Casa en Candioti", URL: "https://example.com/casa-1"},
		{Source: "zonaprop", Title: "Casa en Guadalupe", URL: "https://example.com/casa-2"},
	}}
	second := &fakeScraper{name: "argenprop", listings: []models.ScrapedListing{
		{Source: "argenprop", Title: "Casa en Candioti (repetida)", URL: "https://example.com/casa-1"},
		{Source: "argenprop", Title: "Casa en Barrio Sur", URL: "https://example.com/casa-3"},
	}}
	svc := newTestService(t, []scrape.Scraper{first, second})

	result, err := svc.Resolve(context.Background(), "casa en venta en candioti", PersistOptions{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if len(result.Scraped) != 3 {
		t.Fatalf("expected 3 listings after dedup, got %d", len(result.Scraped))
	}
	// The duplicate URL keeps the first adapter's card.
	if result.Scraped[0].Source != "zonaprop" || result.Scraped[0].Title != "Casa en Candioti" {
		t.Fatalf("duplicate URL did not keep first-seen card: %+v", result.Scraped[0])
	}
}

func TestResolveSurvivesFailingScraper(t *testing.T) {
	broken := &fakeScraper{name: "zonaprop", err: errors.New("connection refused")}
	working := &fakeScraper{name: "argenprop", listings: []models.ScrapedListing{
		{Source: "argenprop", Title: "Depto céntrico", URL: "https://example.com/depto-1"},
	}}
	svc := newTestService(t, []scrape.Scraper{broken, working})

	result, err := svc.Resolve(context.Background(), "alquiler depto 2 ambientes con cochera", PersistOptions{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(result.Scraped) != 1 {
		t.Fatalf("expected 1 listing from working adapter, got %d", len(result.Scraped))
	}
	if result.Scraped[0].Source != "argenprop" {
		t.Fatalf("unexpected source %s", result.Scraped[0].Source)
	}
}

func TestResolveFiltersBlacklistedRegions(t *testing.T) {
	scraper := &fakeScraper{name: "zonaprop", listings: []models.ScrapedListing{
		{Source: "zonaprop", Title: "Casa en Candioti", URL: "https://example.com/casa-1"},
		{Source: "zonaprop", Title: "Casa céntrica", LocationText: "Centro, Rosario", URL: "https://example.com/casa-2"},
	}}
	svc := newTestService(t, []scrape.Scraper{scraper})

	result, err := svc.Resolve(context.Background(), "casa en venta en candioti", PersistOptions{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(result.Scraped) != 1 {
		t.Fatalf("expected 1 listing after blacklist, got %d", len(result.Scraped))
	}
	if result.Scraped[0].URL != "https://example.com/casa-1" {
		t.Fatalf("wrong listing survived: %s", result.Scraped[0].URL)
	}
}

func TestResolveAlwaysBuildsLinks(t *testing.T) {
	svc := newTestService(t, nil)

	result, err := svc.Resolve(context.Background(), "terreno en colastine para construir", PersistOptions{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(result.Links) == 0 {
		t.Fatal("expected portal links even with no scrapers")
	}
	if result.Criteria.PropertyType != models.TypeLand {
		t.Fatalf("property type = %s, want land", result.Criteria.PropertyType)
	}
	if !result.UsedFallback {
		t.Fatal("expected fallback extraction with no primary strategy")
	}
}

func TestResolveInventoryErrorSurfaces(t *testing.T) {
	inv := &fakeInventory{err: errors.New("connection reset")}
	svc := NewResolveService(newTestExtractor(t), inv, links.NewBuilder(), nil, nil, nil, nil, time.Second)

	result, err := svc.Resolve(context.Background(), "casa en venta en candioti", PersistOptions{})
	if err == nil {
		t.Fatal("expected inventory failure to surface")
	}
	if result != nil {
		t.Fatalf("expected nil result on inventory failure, got %+v", result)
	}
}

func TestResolveReturnsInventoryMatches(t *testing.T) {
	inv := &fakeInventory{properties: []models.Property{{Title: "Casa en Candioti"}}}
	svc := NewResolveService(newTestExtractor(t), inv, links.NewBuilder(), nil, nil, nil, nil, time.Second)

	result, err := svc.Resolve(context.Background(), "casa en venta en candioti", PersistOptions{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(result.Inventory) != 1 {
		t.Fatalf("expected 1 inventory match, got %d", len(result.Inventory))
	}
}

func TestResolvePersistFailureSurfaces(t *testing.T) {
	store := &fakeSearchStore{createSearchErr: errors.New("connection refused")}
	svc := NewResolveService(newTestExtractor(t), nil, links.NewBuilder(), nil, nil, store, nil, time.Second)

	_, err := svc.Resolve(context.Background(), "casa en venta en candioti",
		PersistOptions{Save: true, Phone: "342-5551234"})
	if err == nil {
		t.Fatal("expected persist failure to surface")
	}
}

func TestResolvePersistCreatesClientAndSearch(t *testing.T) {
	store := &fakeSearchStore{}
	svc := NewResolveService(newTestExtractor(t), nil, links.NewBuilder(), nil, nil, store, nil, time.Second)

	result, err := svc.Resolve(context.Background(), "casa en venta en candioti",
		PersistOptions{Save: true, Phone: "342-5551234"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.SearchID == nil {
		t.Fatal("expected a search ID on persisted resolve")
	}
	if len(store.searches) != 1 {
		t.Fatalf("expected 1 stored search, got %d", len(store.searches))
	}
	if store.searches[0].RawText != "casa en venta en candioti" {
		t.Fatalf("unexpected raw text %q", store.searches[0].RawText)
	}
	if store.clientsByPhone["342-5551234"] == nil {
		t.Fatal("expected a client created for the phone number")
	}
}

func TestResolveSlowScraperTimesOut(t *testing.T) {
	slow := &fakeScraper{name: "zonaprop", delay: 5 * time.Second, listings: []models.ScrapedListing{
		{Source: "zonaprop", Title: "Nunca llega", URL: "https://example.com/slow"},
	}}
	fast := &fakeScraper{name: "argenprop", listings: []models.ScrapedListing{
		{Source: "argenprop", Title: "Depto rápido", URL: "https://example.com/fast"},
	}}

	gaz, err := gazetteer.Load("does-not-exist.yaml")
	if err != nil {
		t.Fatalf("loading gazetteer: %v", err)
	}
	extractor := extract.New(nil, extract.NewRuleStrategy(gaz), 10)
	svc := NewResolveService(extractor, nil, links.NewBuilder(),
		[]scrape.Scraper{slow, fast}, nil, nil, nil, 50*time.Millisecond)

	result, err := svc.Resolve(context.Background(), "depto en alquiler en el centro", PersistOptions{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(result.Scraped) != 1 {
		t.Fatalf("expected only the fast adapter's listing, got %d", len(result.Scraped))
	}
	if result.Scraped[0].URL != "https://example.com/fast" {
		t.Fatalf("unexpected listing %s", result.Scraped[0].URL)
	}
}
