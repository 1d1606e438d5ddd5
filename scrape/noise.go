package scrape

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"propscout/models"
	"propscout/textnorm"
)

// Portals pad thin result sets with listings from bigger markets. These
// region tokens mark a card as out of area.
var defaultBlacklist = []string{
	"rosario",
	"cordoba",
	"buenos aires",
	"capital federal",
	"caba",
	"parana",
	"entre rios",
	"mendoza",
	"salta",
	"tucuman",
	"neuquen",
	"mar del plata",
	"la plata",
	"rafaela",
	"venado tuerto",
}

// Blacklist drops scraped cards that belong to another city.
type Blacklist struct {
	tokens []string
}

func NewBlacklist(tokens []string) *Blacklist {
	folded := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if f := textnorm.Fold(t); f != "" {
			folded = append(folded, f)
		}
	}
	return &Blacklist{tokens: folded}
}

// LoadBlacklist reads tokens from a YAML list, falling back to the built-in
// set when the file does not exist.
func LoadBlacklist(path string) (*Blacklist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewBlacklist(defaultBlacklist), nil
		}
		return nil, fmt.Errorf("read blacklist: %w", err)
	}

	var tokens []string
	if err := yaml.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("parse blacklist: %w", err)
	}
	if len(tokens) == 0 {
		return NewBlacklist(defaultBlacklist), nil
	}
	return NewBlacklist(tokens), nil
}

// Rejects reports whether the listing mentions a blacklisted region in its
// title, location text or URL. Each field is checked on its own so a token
// split across fields does not slip through.
func (b *Blacklist) Rejects(l *models.ScrapedListing) bool {
	for _, field := range []string{l.Title, l.LocationText, l.URL} {
		folded := textnorm.Fold(field)
		if folded == "" {
			continue
		}
		// URL slugs hyphenate multi-word regions.
		folded = strings.ReplaceAll(folded, "-", " ")
		for _, token := range b.tokens {
			if strings.Contains(folded, token) {
				return true
			}
		}
	}
	return false
}
