package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"propscout/models"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

// =============================================================================
// Clients
// =============================================================================

func (s *PostgresStore) CreateClient(ctx context.Context, c *models.Client) error {
	query := `
		INSERT INTO clients (id, full_name, phone, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	return s.pool.QueryRow(ctx, query,
		c.ID, c.FullName, c.Phone, c.CreatedAt,
	).Scan(&c.ID)
}

func (s *PostgresStore) GetClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	query := `SELECT id, full_name, phone, created_at FROM clients WHERE id = $1`

	var c models.Client
	err := s.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.FullName, &c.Phone, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) GetClientByPhone(ctx context.Context, phone string) (*models.Client, error) {
	query := `SELECT id, full_name, phone, created_at FROM clients WHERE phone = $1`

	var c models.Client
	err := s.pool.QueryRow(ctx, query, phone).Scan(&c.ID, &c.FullName, &c.Phone, &c.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// =============================================================================
// Searches
// =============================================================================

func (s *PostgresStore) CreateSearch(ctx context.Context, search *models.Search) error {
	query := `
		INSERT INTO searches (id, client_id, raw_text, annotations, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	return s.pool.QueryRow(ctx, query,
		search.ID, search.ClientID, search.RawText, search.Annotations, search.Active, search.CreatedAt,
	).Scan(&search.ID)
}

func (s *PostgresStore) GetActiveSearches(ctx context.Context, limit int) ([]models.Search, error) {
	query := `
		SELECT id, client_id, raw_text, annotations, active, created_at, last_run_at
		FROM searches
		WHERE active = TRUE
		ORDER BY last_run_at ASC NULLS FIRST
		LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var searches []models.Search
	for rows.Next() {
		var search models.Search
		if err := rows.Scan(
			&search.ID, &search.ClientID, &search.RawText, &search.Annotations,
			&search.Active, &search.CreatedAt, &search.LastRunAt,
		); err != nil {
			return nil, err
		}
		searches = append(searches, search)
	}
	return searches, rows.Err()
}

func (s *PostgresStore) UpdateSearchLastRun(ctx context.Context, id uuid.UUID, ranAt time.Time) error {
	query := `UPDATE searches SET last_run_at = $2 WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, id, ranAt)
	return err
}

func (s *PostgresStore) DeactivateSearch(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE searches SET active = FALSE WHERE id = $1`
	_, err := s.pool.Exec(ctx, query, id)
	return err
}
