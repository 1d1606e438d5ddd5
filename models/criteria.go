package models

import (
	"fmt"
	"strings"
)

type PropertyType string

const (
	TypeApartment  PropertyType = "apartment"
	TypeHouse      PropertyType = "house"
	TypeLand       PropertyType = "land"
	TypeCommercial PropertyType = "commercial"
	TypeOffice     PropertyType = "office"
	TypeGarage     PropertyType = "garage"
	TypeOther      PropertyType = "other"
)

type Operation string

const (
	OperationPurchase Operation = "purchase"
	OperationRent     Operation = "rent"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyARS Currency = "ARS"
)

// Criteria is the structured form of a client inquiry. It is built once per
// request by the extractor and treated as immutable afterwards.
type Criteria struct {
	PropertyType PropertyType `json:"property_type"`
	Operation    Operation    `json:"operation"`
	PriceMax     *float64     `json:"price_max,omitempty"`
	PriceMin     *float64     `json:"price_min,omitempty"`
	Currency     Currency     `json:"currency"`
	Locations    []string     `json:"locations,omitempty"`
	BedroomsMin  *int         `json:"bedrooms_min,omitempty"`
	RoomsMin     *int         `json:"rooms_min,omitempty"`
	HasParking   bool         `json:"has_parking"`
	Features     []string     `json:"features,omitempty"`
	Notes        string       `json:"notes,omitempty"`
	Confidence   int          `json:"confidence"`
}

// Keyword returns the Spanish keyword used on listing portals and in
// inventory titles for the operation.
func (o Operation) Keyword() string {
	if o == OperationRent {
		return "alquiler"
	}
	return "venta"
}

// Spanish label per property type, singular. Used for link titles and search
// phrases.
var typeLabels = map[PropertyType]string{
	TypeApartment:  "departamento",
	TypeHouse:      "casa",
	TypeLand:       "terreno",
	TypeCommercial: "local comercial",
	TypeOffice:     "oficina",
	TypeGarage:     "cochera",
	TypeOther:      "propiedad",
}

func (t PropertyType) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return typeLabels[TypeOther]
}

// Summary renders the criteria as the human-readable annotation stored with a
// saved search.
func (c *Criteria) Summary() string {
	parts := []string{
		"Tipo: " + c.PropertyType.Label(),
		"Operación: " + c.Operation.Keyword(),
		"Moneda: " + string(c.Currency),
	}
	if c.PriceMax != nil {
		parts = append(parts, fmt.Sprintf("Hasta: %.0f", *c.PriceMax))
	}
	if c.PriceMin != nil {
		parts = append(parts, fmt.Sprintf("Desde: %.0f", *c.PriceMin))
	}
	if c.BedroomsMin != nil {
		parts = append(parts, fmt.Sprintf("Dormitorios: %d+", *c.BedroomsMin))
	}
	if c.RoomsMin != nil {
		parts = append(parts, fmt.Sprintf("Ambientes: %d+", *c.RoomsMin))
	}
	if c.HasParking {
		parts = append(parts, "Cochera: sí")
	}
	if len(c.Locations) > 0 {
		parts = append(parts, "Zonas: "+strings.Join(c.Locations, ", "))
	}
	if len(c.Features) > 0 {
		parts = append(parts, "Extras: "+strings.Join(c.Features, ", "))
	}
	if c.Notes != "" {
		parts = append(parts, "Notas: "+c.Notes)
	}
	return strings.Join(parts, " | ")
}

// Normalize enforces the criteria invariants regardless of which extraction
// path produced the value: no negative prices, no zero bedroom minimum,
// min <= max, confidence within 0-100.
func (c *Criteria) Normalize() {
	if c.PriceMax != nil && *c.PriceMax <= 0 {
		c.PriceMax = nil
	}
	if c.PriceMin != nil && *c.PriceMin <= 0 {
		c.PriceMin = nil
	}
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMin > *c.PriceMax {
		c.PriceMin, c.PriceMax = c.PriceMax, c.PriceMin
	}
	if c.BedroomsMin != nil && *c.BedroomsMin <= 0 {
		c.BedroomsMin = nil
	}
	if c.RoomsMin != nil && *c.RoomsMin <= 0 {
		c.RoomsMin = nil
	}
	if c.Confidence < 0 {
		c.Confidence = 0
	}
	if c.Confidence > 100 {
		c.Confidence = 100
	}
	if c.PropertyType == "" {
		c.PropertyType = TypeOther
	}
	if c.Operation == "" {
		c.Operation = OperationPurchase
	}
	if c.Currency == "" {
		c.Currency = CurrencyUSD
	}
}
