package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"propscout/gazetteer"
	"propscout/models"
	"propscout/textnorm"
)

// FallbackConfidence is the fixed score assigned when the rule table produced
// the criteria: there is no model-provided confidence estimate to report.
const FallbackConfidence = 75

// RuleStrategy is the deterministic extraction path. Rules run in a fixed
// order against the folded (lower-case, accent-free) inquiry text; later
// rules depend on earlier ones having already assigned their field, so the
// table must not be reordered.
type RuleStrategy struct {
	gaz   *gazetteer.Table
	rules []rule
}

type rule struct {
	name  string
	apply func(text string, c *models.Criteria)
}

var (
	rentRegex = regexp.MustCompile(`\b(?:alquil\w*|renta\w*|arriendo)\b`)
	usdRegex  = regexp.MustCompile(`\b(?:usd|dolar\w*)\b|u\$s|us\$`)

	// Qualifier, amount, optional scale suffix. Runs on folded text.
	priceRegex = regexp.MustCompile(
		`(?:hasta|max(?:imo)?|presupuesto|precio|tope)\s*(?:de\s+)?(?:u\$s|us\$|usd|\$)?\s*([0-9][0-9.,]*)\s*(mil\b|k\b|millon(?:es)?|palos?\b)?`)

	bedroomsRegex = regexp.MustCompile(`([0-9]+)\s*(?:dormitorios?|dorms?\b|habitacion(?:es)?|cuartos?)`)
	roomsRegex    = regexp.MustCompile(`([0-9]+)\s*amb(?:ientes?)?\b`)

	parkingRegex = regexp.MustCompile(`\b(?:cochera\w*|garage|garaje|estacionamiento|auto)\b`)

	// Keyword lists per property type, in resolution order: house terms win
	// over apartment terms, which win over the rest.
	typeKeywords = []struct {
		t     models.PropertyType
		regex *regexp.Regexp
	}{
		{models.TypeHouse, regexp.MustCompile(`\b(?:casas?|chalet|duplex)\b`)},
		{models.TypeApartment, regexp.MustCompile(`\b(?:deptos?|departamentos?|apartamentos?|monoambientes?|piso)\b`)},
		{models.TypeLand, regexp.MustCompile(`\b(?:terrenos?|lotes?)\b`)},
		{models.TypeOffice, regexp.MustCompile(`\boficinas?\b`)},
		{models.TypeCommercial, regexp.MustCompile(`\b(?:local(?:es)?|galpon(?:es)?|fondo de comercio)\b`)},
		{models.TypeGarage, regexp.MustCompile(`\b(?:cocheras?|garage|garaje)\b`)},
	}

	featureKeywords = []struct {
		tag   string
		regex *regexp.Regexp
	}{
		{"needs-renovation", regexp.MustCompile(`\b(?:refaccion\w*|reciclar|restaurar)\b`)},
		{"yard", regexp.MustCompile(`\b(?:patio|jardin|fondo libre)\b`)},
		{"pool", regexp.MustCompile(`\b(?:pileta|piscina)\b`)},
		{"balcony", regexp.MustCompile(`\bbalcon(?:es)?\b`)},
	}
)

func NewRuleStrategy(gaz *gazetteer.Table) *RuleStrategy {
	s := &RuleStrategy{gaz: gaz}
	s.rules = []rule{
		{"operation", applyOperation},
		{"property_type", applyPropertyType},
		{"currency", applyCurrency},
		{"price", applyPrice},
		{"bedrooms", applyBedrooms},
		{"rooms", applyRooms},
		{"parking", applyParking},
		{"locations", s.applyLocations},
		{"features", applyFeatures},
	}
	return s
}

func (s *RuleStrategy) Name() string { return "rules" }

func (s *RuleStrategy) Extract(_ context.Context, rawText string) (*models.Criteria, error) {
	folded := textnorm.Fold(rawText)

	criteria := &models.Criteria{
		PropertyType: models.TypeOther,
		Operation:    models.OperationPurchase,
		Notes:        strings.TrimSpace(rawText),
		Confidence:   FallbackConfidence,
	}
	for _, r := range s.rules {
		r.apply(folded, criteria)
	}
	return criteria, nil
}

func applyOperation(text string, c *models.Criteria) {
	if rentRegex.MatchString(text) {
		c.Operation = models.OperationRent
	}
}

func applyPropertyType(text string, c *models.Criteria) {
	for _, kw := range typeKeywords {
		if kw.regex.MatchString(text) {
			c.PropertyType = kw.t
			return
		}
	}
}

// Depends on operation: rentals with no explicit dollar token default to
// pesos, everything else to dollars.
func applyCurrency(text string, c *models.Criteria) {
	switch {
	case usdRegex.MatchString(text):
		c.Currency = models.CurrencyUSD
	case c.Operation == models.OperationRent:
		c.Currency = models.CurrencyARS
	default:
		c.Currency = models.CurrencyUSD
	}
}

// Depends on operation: the sub-1000 scale-up heuristic ("hasta 150" meaning
// 150k) applies to purchases only. Kept for compatibility with how clients
// actually write budgets; rentals are deliberately excluded.
func applyPrice(text string, c *models.Criteria) {
	m := priceRegex.FindStringSubmatch(text)
	if m == nil {
		return
	}

	raw := strings.ReplaceAll(m[1], ".", "")
	raw = strings.ReplaceAll(raw, ",", ".")
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		return
	}

	switch {
	case m[2] == "mil" || m[2] == "k":
		value *= 1_000
	case strings.HasPrefix(m[2], "millon") || strings.HasPrefix(m[2], "palo"):
		value *= 1_000_000
	}

	if value < 1_000 && c.Operation == models.OperationPurchase {
		value *= 1_000
	}

	c.PriceMax = &value
}

func applyBedrooms(text string, c *models.Criteria) {
	m := bedroomsRegex.FindStringSubmatch(text)
	if m == nil {
		return
	}
	if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
		c.BedroomsMin = &n
	}
}

func applyRooms(text string, c *models.Criteria) {
	m := roomsRegex.FindStringSubmatch(text)
	if m == nil {
		return
	}
	if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
		c.RoomsMin = &n
	}
}

func applyParking(text string, c *models.Criteria) {
	if parkingRegex.MatchString(text) {
		c.HasParking = true
	}
}

func (s *RuleStrategy) applyLocations(text string, c *models.Criteria) {
	c.Locations = s.gaz.FindAll(text)
}

func applyFeatures(text string, c *models.Criteria) {
	for _, kw := range featureKeywords {
		if kw.regex.MatchString(text) {
			c.Features = append(c.Features, kw.tag)
		}
	}
}
