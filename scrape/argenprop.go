package scrape

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"propscout/models"
)

const argenpropBase = "https://www.argenprop.com"

var argenpropLocations = map[string]string{
	"Candioti":            "candioti",
	"Bulevares":           "bulevares",
	"Centro":              "centro-santa-fe",
	"Guadalupe":           "guadalupe",
	"Siete Jefes":         "siete-jefes",
	"Barrio Sur":          "barrio-sur-santa-fe",
	"Constituyentes":      "constituyentes",
	"Sargento Cabral":     "sargento-cabral",
	"María Selva":         "maria-selva",
	"Recoleta":            "recoleta-santa-fe",
	"Barranquitas":        "barranquitas",
	"Colastiné":           "colastine",
	"San José del Rincón": "san-jose-del-rincon",
	"Santo Tomé":          "santo-tome",
}

var argenpropTypeSlugs = map[models.PropertyType]string{
	models.TypeApartment:  "departamentos",
	models.TypeHouse:      "casas",
	models.TypeLand:       "terrenos",
	models.TypeCommercial: "locales",
	models.TypeOffice:     "oficinas",
	models.TypeGarage:     "cocheras",
	models.TypeOther:      "inmuebles",
}

type Argenprop struct {
	client    *http.Client
	limit     int
	blacklist *Blacklist
}

func NewArgenprop(client *http.Client, limit int, blacklist *Blacklist) *Argenprop {
	return &Argenprop{client: client, limit: limit, blacklist: blacklist}
}

func (a *Argenprop) Name() string { return "argenprop" }

func (a *Argenprop) FetchListings(ctx context.Context, criteria *models.Criteria) ([]models.ScrapedListing, error) {
	pageURL := a.searchURL(criteria)
	doc, err := fetchDocument(ctx, a.client, pageURL)
	if err != nil {
		return nil, fmt.Errorf("argenprop: %w", err)
	}
	return a.parse(doc), nil
}

func (a *Argenprop) searchURL(criteria *models.Criteria) string {
	location := "santa-fe"
	for _, loc := range criteria.Locations {
		if slug, ok := argenpropLocations[loc]; ok {
			location = slug
			break
		}
	}
	return fmt.Sprintf("%s/%s/%s/%s",
		argenpropBase, argenpropTypeSlugs[criteria.PropertyType], criteria.Operation.Keyword(), location)
}

func (a *Argenprop) parse(doc *goquery.Document) []models.ScrapedListing {
	cards := doc.Find("div.listing__item")
	if cards.Length() == 0 {
		cards = doc.Find("div.card-container, article.card")
	}

	var listings []models.ScrapedListing
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(listings) >= a.limit {
			return false
		}

		href, _ := card.Find("a.card").First().Attr("href")
		if href == "" {
			href, _ = card.Find("a[href]").First().Attr("href")
		}

		listing := models.ScrapedListing{
			Source:       a.Name(),
			Title:        firstText(card, "h2.card__title", ".card__title--primary", "h2"),
			PriceText:    firstText(card, "p.card__price", ".card__price"),
			LocationText: firstText(card, "p.card__address", ".card__address", ".card__location"),
			URL:          absoluteURL(argenpropBase, href),
			ImageURL:     cardImage(card),
		}
		if listing.Title == "" || listing.URL == "" {
			return true
		}
		// Out-of-region cards don't count toward the limit.
		if a.blacklist != nil && a.blacklist.Rejects(&listing) {
			return true
		}
		listings = append(listings, listing)
		return true
	})
	return listings
}
