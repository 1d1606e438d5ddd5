package links

import (
	"strings"
	"testing"

	"propscout/models"
)

func TestBuildDefaultLocation(t *testing.T) {
	b := NewBuilder()
	criteria := &models.Criteria{
		PropertyType: models.TypeApartment,
		Operation:    models.OperationRent,
		Currency:     models.CurrencyARS,
	}

	links := b.Build(criteria)
	if len(links) == 0 {
		t.Fatal("no links built")
	}

	var zonaprop *models.PortalLink
	for i := range links {
		if links[i].Portal == "Zonaprop" {
			zonaprop = &links[i]
		}
	}
	if zonaprop == nil {
		t.Fatal("missing Zonaprop link")
	}
	if zonaprop.URL != "https://www.zonaprop.com.ar/departamentos-alquiler-santa-fe.html" {
		t.Errorf("zonaprop URL = %s", zonaprop.URL)
	}
	if zonaprop.Category != models.LinkCategoryPortal {
		t.Errorf("zonaprop category = %s", zonaprop.Category)
	}
}

func TestBuildPerLocation(t *testing.T) {
	b := NewBuilder()
	criteria := &models.Criteria{
		PropertyType: models.TypeHouse,
		Operation:    models.OperationPurchase,
		Currency:     models.CurrencyUSD,
		Locations:    []string{"Candioti", "Guadalupe"},
	}

	links := b.Build(criteria)

	var zonapropURLs []string
	for _, l := range links {
		if l.Portal == "Zonaprop" {
			zonapropURLs = append(zonapropURLs, l.URL)
		}
	}
	if len(zonapropURLs) != 2 {
		t.Fatalf("zonaprop links = %d, want one per location: %v", len(zonapropURLs), zonapropURLs)
	}
	if !strings.Contains(zonapropURLs[0], "casas-venta-candioti") {
		t.Errorf("first zonaprop URL = %s", zonapropURLs[0])
	}
	if !strings.Contains(zonapropURLs[1], "casas-venta-guadalupe") {
		t.Errorf("second zonaprop URL = %s", zonapropURLs[1])
	}
}

func TestBuildCategories(t *testing.T) {
	b := NewBuilder()
	criteria := &models.Criteria{
		PropertyType: models.TypeHouse,
		Operation:    models.OperationPurchase,
		Currency:     models.CurrencyUSD,
	}

	links := b.Build(criteria)

	seen := make(map[models.LinkCategory]bool)
	for _, l := range links {
		seen[l.Category] = true
	}
	for _, want := range []models.LinkCategory{
		models.LinkCategoryPortal,
		models.LinkCategoryAgencyNetwork,
		models.LinkCategoryInternational,
	} {
		if !seen[want] {
			t.Errorf("no link with category %q", want)
		}
	}
}

func TestBuildNoDuplicateURLs(t *testing.T) {
	b := NewBuilder()
	criteria := &models.Criteria{
		PropertyType: models.TypeOther,
		Operation:    models.OperationPurchase,
		Currency:     models.CurrencyUSD,
		// Two aliases resolving to the same slug produce identical URLs.
		Locations: []string{"Centro", "centro"},
	}

	links := b.Build(criteria)

	seen := make(map[string]bool)
	for _, l := range links {
		if seen[l.URL] {
			t.Errorf("duplicate URL %s", l.URL)
		}
		seen[l.URL] = true
	}
}
