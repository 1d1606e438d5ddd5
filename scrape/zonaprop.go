package scrape

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"propscout/models"
)

const zonapropBase = "https://www.zonaprop.com.ar"

// Search slugs Zonaprop actually serves. Anything else 404s or redirects to
// a nationwide search, so unknown locations fall back to the city-wide slug.
var zonapropLocations = map[string]string{
	"Candioti":            "candioti-santa-fe",
	"Bulevares":           "bulevares-santa-fe",
	"Centro":              "centro-santa-fe",
	"Guadalupe":           "guadalupe-santa-fe",
	"Siete Jefes":         "barrio-7-jefes-santa-fe",
	"Barrio Sur":          "barrio-sur-santa-fe",
	"Constituyentes":      "constituyentes-santa-fe",
	"Sargento Cabral":     "sargento-cabral-santa-fe",
	"María Selva":         "maria-selva-santa-fe",
	"Recoleta":            "recoleta-santa-fe",
	"Barranquitas":        "barranquitas-santa-fe",
	"Colastiné":           "colastine-santa-fe",
	"San José del Rincón": "san-jose-del-rincon",
	"Santo Tomé":          "santo-tome-santa-fe",
}

var zonapropTypeSlugs = map[models.PropertyType]string{
	models.TypeApartment:  "departamentos",
	models.TypeHouse:      "casas",
	models.TypeLand:       "terrenos",
	models.TypeCommercial: "locales-comerciales",
	models.TypeOffice:     "oficinas-comerciales",
	models.TypeGarage:     "cocheras",
	models.TypeOther:      "inmuebles",
}

type Zonaprop struct {
	client    *http.Client
	limit     int
	blacklist *Blacklist
}

func NewZonaprop(client *http.Client, limit int, blacklist *Blacklist) *Zonaprop {
	return &Zonaprop{client: client, limit: limit, blacklist: blacklist}
}

func (z *Zonaprop) Name() string { return "zonaprop" }

func (z *Zonaprop) FetchListings(ctx context.Context, criteria *models.Criteria) ([]models.ScrapedListing, error) {
	pageURL := z.searchURL(criteria)
	doc, err := fetchDocument(ctx, z.client, pageURL)
	if err != nil {
		return nil, fmt.Errorf("zonaprop: %w", err)
	}
	return z.parse(doc), nil
}

func (z *Zonaprop) searchURL(criteria *models.Criteria) string {
	location := "santa-fe"
	for _, loc := range criteria.Locations {
		if slug, ok := zonapropLocations[loc]; ok {
			location = slug
			break
		}
	}
	return fmt.Sprintf("%s/%s-%s-%s.html",
		zonapropBase, zonapropTypeSlugs[criteria.PropertyType], criteria.Operation.Keyword(), location)
}

func (z *Zonaprop) parse(doc *goquery.Document) []models.ScrapedListing {
	cards := doc.Find(`div[data-qa="posting PROPERTY"]`)
	if cards.Length() == 0 {
		cards = doc.Find("div.postingCard")
	}

	var listings []models.ScrapedListing
	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		if len(listings) >= z.limit {
			return false
		}

		href, _ := card.Attr("data-to-posting")
		if href == "" {
			href, _ = card.Find("a[href]").First().Attr("href")
		}

		listing := models.ScrapedListing{
			Source:       z.Name(),
			Title:        firstText(card, `h2[data-qa="POSTING_CARD_DESCRIPTION"]`, "h2.postingCard-title", "h2"),
			PriceText:    firstText(card, `div[data-qa="POSTING_CARD_PRICE"]`, ".firstPrice", ".postingPrices"),
			LocationText: firstText(card, `div[data-qa="POSTING_CARD_LOCATION"]`, ".postingLocation", ".postingCardLocation"),
			URL:          absoluteURL(zonapropBase, href),
			ImageURL:     cardImage(card),
		}
		if listing.Title == "" || listing.URL == "" {
			return true
		}
		// Out-of-region cards don't count toward the limit; the portal pads
		// thin pages with them.
		if z.blacklist != nil && z.blacklist.Rejects(&listing) {
			return true
		}
		listings = append(listings, listing)
		return true
	})
	return listings
}
