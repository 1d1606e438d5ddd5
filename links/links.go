// Package links builds deep links into external listing portals from search
// criteria. No network calls happen here; the URLs are handed to the client
// to open directly.
package links

import (
	"fmt"
	"net/url"
	"strings"

	"propscout/models"
	"propscout/textnorm"
)

// DefaultLocation anchors portal searches when the client gave no location.
const DefaultLocation = "Santa Fe"

// Zonaprop uses plural type slugs in its search paths.
var zonapropTypes = map[models.PropertyType]string{
	models.TypeApartment:  "departamentos",
	models.TypeHouse:      "casas",
	models.TypeLand:       "terrenos",
	models.TypeCommercial: "locales-comerciales",
	models.TypeOffice:     "oficinas-comerciales",
	models.TypeGarage:     "cocheras",
	models.TypeOther:      "inmuebles",
}

var argenpropTypes = map[models.PropertyType]string{
	models.TypeApartment:  "departamentos",
	models.TypeHouse:      "casas",
	models.TypeLand:       "terrenos",
	models.TypeCommercial: "locales",
	models.TypeOffice:     "oficinas",
	models.TypeGarage:     "cocheras",
	models.TypeOther:      "inmuebles",
}

type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// Build returns one link per portal per location. Duplicate URLs collapse,
// keeping the last link generated for the URL.
func (b *Builder) Build(criteria *models.Criteria) []models.PortalLink {
	locations := criteria.Locations
	if len(locations) == 0 {
		locations = []string{DefaultLocation}
	}

	var links []models.PortalLink
	for _, loc := range locations {
		links = append(links,
			b.zonaprop(criteria, loc),
			b.argenprop(criteria, loc),
			b.remax(criteria, loc),
			b.properati(criteria, loc),
		)
	}
	links = append(links, b.googleSearch(criteria, locations))

	return dedupeByURL(links)
}

func (b *Builder) zonaprop(criteria *models.Criteria, location string) models.PortalLink {
	slug := textnorm.Slug(location + " santa fe")
	if strings.EqualFold(location, DefaultLocation) {
		slug = "santa-fe"
	}
	return models.PortalLink{
		Portal:   "Zonaprop",
		Title:    fmt.Sprintf("%s en %s en %s", criteria.PropertyType.Label(), criteria.Operation.Keyword(), location),
		URL:      fmt.Sprintf("https://www.zonaprop.com.ar/%s-%s-%s.html", zonapropTypes[criteria.PropertyType], criteria.Operation.Keyword(), slug),
		Icon:     "zonaprop",
		Category: models.LinkCategoryPortal,
	}
}

func (b *Builder) argenprop(criteria *models.Criteria, location string) models.PortalLink {
	slug := textnorm.Slug(location)
	if strings.EqualFold(location, DefaultLocation) {
		slug = "santa-fe"
	}
	return models.PortalLink{
		Portal:   "Argenprop",
		Title:    fmt.Sprintf("%s en %s en %s", criteria.PropertyType.Label(), criteria.Operation.Keyword(), location),
		URL:      fmt.Sprintf("https://www.argenprop.com/%s/%s/%s", argenpropTypes[criteria.PropertyType], criteria.Operation.Keyword(), slug),
		Icon:     "argenprop",
		Category: models.LinkCategoryPortal,
	}
}

func (b *Builder) remax(criteria *models.Criteria, location string) models.PortalLink {
	op := "venta"
	if criteria.Operation == models.OperationRent {
		op = "alquiler"
	}
	query := url.Values{}
	query.Set("operacion", op)
	query.Set("localidad", location)
	return models.PortalLink{
		Portal:   "RE/MAX",
		Title:    "Red RE/MAX en " + location,
		URL:      "https://www.remax.com.ar/buscar?" + query.Encode(),
		Icon:     "remax",
		Category: models.LinkCategoryAgencyNetwork,
	}
}

func (b *Builder) properati(criteria *models.Criteria, location string) models.PortalLink {
	return models.PortalLink{
		Portal: "Properati",
		Title:  "Properati en " + location,
		URL: fmt.Sprintf("https://www.properati.com.ar/s/%s/%s/%s",
			textnorm.Slug(location), argenpropTypes[criteria.PropertyType], criteria.Operation.Keyword()),
		Icon:     "properati",
		Category: models.LinkCategoryInternational,
	}
}

// googleSearch is the catch-all for anything the portal templates miss.
func (b *Builder) googleSearch(criteria *models.Criteria, locations []string) models.PortalLink {
	terms := []string{
		criteria.PropertyType.Label(),
		criteria.Operation.Keyword(),
	}
	if criteria.BedroomsMin != nil {
		terms = append(terms, fmt.Sprintf("%d dormitorios", *criteria.BedroomsMin))
	}
	terms = append(terms, strings.Join(locations, " "), "santa fe argentina")
	query := url.Values{}
	query.Set("q", strings.Join(terms, " "))
	return models.PortalLink{
		Portal:   "Google",
		Title:    "Buscar en Google",
		URL:      "https://www.google.com/search?" + query.Encode(),
		Icon:     "google",
		Category: models.LinkCategoryPortal,
	}
}

func dedupeByURL(links []models.PortalLink) []models.PortalLink {
	index := make(map[string]int)
	var out []models.PortalLink
	for _, link := range links {
		if i, ok := index[link.URL]; ok {
			out[i] = link
			continue
		}
		index[link.URL] = len(out)
		out = append(out, link)
	}
	return out
}
