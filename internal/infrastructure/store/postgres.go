package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/consumewise/backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema creates the products table. Records are kept whole in a JSONB
// column; the name columns exist for matching.
const Schema = `
	CREATE TABLE IF NOT EXISTS products (
		seq BIGSERIAL PRIMARY KEY,
		id UUID NOT NULL UNIQUE,
		product_name TEXT NOT NULL,
		brand_name TEXT NOT NULL,
		record JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_products_product_name ON products(product_name);
`

// likeEscaper escapes the LIKE wildcards and the escape character itself
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// PostgresStore implements domain.ProductRepository on PostgreSQL
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresStore creates a new PostgreSQL-backed product store
func NewPostgresStore(pool *pgxpool.Pool, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		logger: logger.With().Str("repository", "postgres").Logger(),
	}
}

// NewPool creates a PostgreSQL connection pool and verifies connectivity
func NewPool(ctx context.Context, connString string, maxConns int32) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// Migrate creates the products table if needed
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

// Insert stores the record in a single INSERT statement
func (s *PostgresStore) Insert(ctx context.Context, record *domain.ProductRecord) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode product: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO products (id, product_name, brand_name, record)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := s.pool.Exec(ctx, query, id.String(), record.ProductName, record.BrandName, data); err != nil {
		s.logger.Error().Err(err).Str("product", record.ProductName).Msg("failed to insert product")
		return "", fmt.Errorf("failed to insert product: %w", err)
	}

	return id.String(), nil
}

// FindByNameContains matches product_name with ILIKE, in insertion order.
// Wildcards in term are escaped so it only ever matches literally.
func (s *PostgresStore) FindByNameContains(ctx context.Context, term string) ([]domain.StoredProduct, error) {
	query := `
		SELECT id::text, record
		FROM products
		WHERE product_name ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY seq
	`

	rows, err := s.pool.Query(ctx, query, likeEscaper.Replace(term))
	if err != nil {
		s.logger.Error().Err(err).Str("term", term).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.StoredProduct
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, err
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		s.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindOneByName returns the earliest product whose name equals name exactly
func (s *PostgresStore) FindOneByName(ctx context.Context, name string) (*domain.StoredProduct, error) {
	query := `
		SELECT id::text, record
		FROM products
		WHERE product_name = $1
		ORDER BY seq
		LIMIT 1
	`

	product, err := scanProduct(s.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Debug().Str("product", name).Msg("product not found")
			return nil, domain.ErrProductNotFound
		}
		s.logger.Error().Err(err).Str("product", name).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return product, nil
}

func scanProduct(row pgx.Row) (*domain.StoredProduct, error) {
	var (
		id   string
		data []byte
	)
	if err := row.Scan(&id, &data); err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	product := &domain.StoredProduct{ID: id}
	if err := json.Unmarshal(data, &product.ProductRecord); err != nil {
		return nil, fmt.Errorf("failed to decode product record: %w", err)
	}

	return product, nil
}
