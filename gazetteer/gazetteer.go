// Package gazetteer maps the informal neighborhood names clients use to the
// canonical location names the rest of the pipeline works with. The table is
// loaded once at startup and passed explicitly to whoever needs it.
package gazetteer

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"propscout/textnorm"
)

type Entry struct {
	Alias     string `yaml:"alias"`
	Canonical string `yaml:"canonical"`
}

// Table is an immutable, ordered alias table. Order matters: aliases are
// scanned top to bottom, which makes location extraction deterministic.
type Table struct {
	entries  []Entry
	patterns []*regexp.Regexp
}

// Santa Fe capital neighborhoods and the variants clients actually type.
var defaultEntries = []Entry{
	{Alias: "candioti", Canonical: "Candioti"},
	{Alias: "bulevar", Canonical: "Bulevares"},
	{Alias: "boulevard", Canonical: "Bulevares"},
	{Alias: "bulevares", Canonical: "Bulevares"},
	{Alias: "centro", Canonical: "Centro"},
	{Alias: "microcentro", Canonical: "Centro"},
	{Alias: "guadalupe", Canonical: "Guadalupe"},
	{Alias: "7 jefes", Canonical: "Siete Jefes"},
	{Alias: "siete jefes", Canonical: "Siete Jefes"},
	{Alias: "costanera", Canonical: "Siete Jefes"},
	{Alias: "barrio sur", Canonical: "Barrio Sur"},
	{Alias: "constituyentes", Canonical: "Constituyentes"},
	{Alias: "sargento cabral", Canonical: "Sargento Cabral"},
	{Alias: "maria selva", Canonical: "María Selva"},
	{Alias: "recoleta", Canonical: "Recoleta"},
	{Alias: "barranquitas", Canonical: "Barranquitas"},
	{Alias: "colastine", Canonical: "Colastiné"},
	{Alias: "rincon", Canonical: "San José del Rincón"},
	{Alias: "santo tome", Canonical: "Santo Tomé"},
}

// New builds a table from explicit entries.
func New(entries []Entry) *Table {
	t := &Table{entries: entries}
	for _, e := range entries {
		// Aliases are matched on folded text at word boundaries so "sur"
		// style aliases don't fire inside longer words.
		pat := regexp.MustCompile(`\b` + regexp.QuoteMeta(textnorm.Fold(e.Alias)) + `\b`)
		t.patterns = append(t.patterns, pat)
	}
	return t
}

// Load reads entries from a YAML file, falling back to the built-in Santa Fe
// table when the file does not exist.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(defaultEntries), nil
		}
		return nil, fmt.Errorf("read gazetteer: %w", err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse gazetteer: %w", err)
	}
	if len(entries) == 0 {
		return New(defaultEntries), nil
	}
	return New(entries), nil
}

// FindAll returns the canonical names of every alias present in text,
// deduplicated, preserving table scan order.
func (t *Table) FindAll(text string) []string {
	folded := textnorm.Fold(text)

	var found []string
	seen := make(map[string]bool)
	for i, e := range t.entries {
		if !t.patterns[i].MatchString(folded) {
			continue
		}
		if seen[e.Canonical] {
			continue
		}
		seen[e.Canonical] = true
		found = append(found, e.Canonical)
	}
	return found
}

// Len reports how many aliases the table holds.
func (t *Table) Len() int {
	return len(t.entries)
}
