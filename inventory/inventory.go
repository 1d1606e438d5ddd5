// Package inventory matches structured criteria against the agency's own
// property stock in Postgres.
package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"propscout/models"
	"propscout/storage"
)

type Resolver struct {
	store *storage.PostgresStore
	// limit caps matches per request; tolerance widens the client's budget
	// so near-misses still surface (1.10 = +10%).
	limit     int
	tolerance float64
}

func NewResolver(store *storage.PostgresStore, limit int, tolerance float64) *Resolver {
	return &Resolver{store: store, limit: limit, tolerance: tolerance}
}

// Find returns published properties matching the criteria, cheapest first.
func (r *Resolver) Find(ctx context.Context, criteria *models.Criteria) ([]models.Property, error) {
	query, args := buildSearchQuery(criteria, r.limit, r.tolerance)

	rows, err := r.store.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("inventory query: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(
			&p.ID, &p.Title, &p.PropertyType, &p.Subtype, &p.Price, &p.Currency,
			&p.Address, &p.Neighborhood, &p.City, &p.Bedrooms, &p.Status, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// buildSearchQuery assembles the filter incrementally. The operation and
// location filters are each an OR-group of LIKE patterns; the two groups are
// ANDed together, never merged, so "venta in Candioti" cannot match a rental
// in Candioti or a sale somewhere else.
func buildSearchQuery(criteria *models.Criteria, limit int, tolerance float64) (string, []interface{}) {
	query := `
		SELECT id, title, property_type, subtype, price, currency,
			address, neighborhood, city, bedrooms, status, created_at
		FROM properties
		WHERE status = $1`
	args := []interface{}{models.PropertyStatusPublished}
	argNum := 2

	if criteria.PropertyType != "" && criteria.PropertyType != models.TypeOther {
		query += " AND property_type = $" + itoa(argNum)
		args = append(args, string(criteria.PropertyType))
		argNum++
	}

	// Listings carry the operation in free text, sometimes in English.
	keywords := []string{criteria.Operation.Keyword()}
	if criteria.Operation == models.OperationPurchase {
		keywords = append(keywords, "sale")
	} else {
		keywords = append(keywords, "rent")
	}
	var opClauses []string
	for _, kw := range keywords {
		opClauses = append(opClauses,
			"LOWER(title) LIKE $"+itoa(argNum),
			"LOWER(subtype) LIKE $"+itoa(argNum+1))
		args = append(args, "%"+kw+"%", "%"+kw+"%")
		argNum += 2
	}
	query += " AND (" + strings.Join(opClauses, " OR ") + ")"

	if criteria.PriceMax != nil {
		query += " AND price <= $" + itoa(argNum) + " AND currency = $" + itoa(argNum+1)
		args = append(args, *criteria.PriceMax*tolerance, string(criteria.Currency))
		argNum += 2
	}

	if len(criteria.Locations) > 0 {
		var locClauses []string
		for _, loc := range criteria.Locations {
			pattern := "%" + strings.ToLower(loc) + "%"
			locClauses = append(locClauses,
				"LOWER(address) LIKE $"+itoa(argNum),
				"LOWER(neighborhood) LIKE $"+itoa(argNum+1),
				"LOWER(city) LIKE $"+itoa(argNum+2),
				"LOWER(title) LIKE $"+itoa(argNum+3))
			args = append(args, pattern, pattern, pattern, pattern)
			argNum += 4
		}
		query += " AND (" + strings.Join(locClauses, " OR ") + ")"
	}

	if criteria.BedroomsMin != nil {
		query += " AND bedrooms >= $" + itoa(argNum)
		args = append(args, *criteria.BedroomsMin)
		argNum++
	}

	query += " ORDER BY price ASC NULLS LAST LIMIT $" + itoa(argNum)
	args = append(args, limit)

	return query, args
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
