package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig controls the catalog connection pool.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// querier covers the pgxpool surface the provider uses, so tests can
// substitute a pgxmock pool.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Postgres implements Provider against the relational catalog.
type Postgres struct {
	pool querier
}

// NewPostgres connects a pgx pool to the catalog database.
func NewPostgres(ctx context.Context, cfg PostgresConfig) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("catalog.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse catalog dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect catalog: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping catalog: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// NewPostgresWithPool constructs a provider from an existing pool, primarily
// for testing.
func NewPostgresWithPool(pool querier) *Postgres {
	return &Postgres{pool: pool}
}

// SourceIDByName looks up a source registry entry by exact name.
func (p *Postgres) SourceIDByName(ctx context.Context, name string) (int64, bool, error) {
	var id int64
	err := p.pool.QueryRow(ctx, `SELECT id FROM sources WHERE name = $1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup source %q: %w", name, err)
	}
	return id, true, nil
}

// InsertSource registers a new source and returns the generated id.
func (p *Postgres) InsertSource(ctx context.Context, name, url, sourceType string) (int64, error) {
	var id int64
	err := p.pool.QueryRow(ctx,
		`INSERT INTO sources (name, url, source_type) VALUES ($1, $2, $3) RETURNING id`,
		name, url, sourceType,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert source %q: %w", name, err)
	}
	return id, nil
}

// ProductIDByName finds a product by bidirectional, case-insensitive
// substring containment. Ambiguity is resolved deterministically by taking
// the lowest id.
func (p *Postgres) ProductIDByName(ctx context.Context, name string) (int64, bool, error) {
	return p.idBySubstring(ctx, "products", name)
}

// LocationIDByName finds a location the same way ProductIDByName finds a
// product.
func (p *Postgres) LocationIDByName(ctx context.Context, name string) (int64, bool, error) {
	return p.idBySubstring(ctx, "locations", name)
}

func (p *Postgres) idBySubstring(ctx context.Context, table, name string) (int64, bool, error) {
	query := fmt.Sprintf(
		`SELECT id FROM %s WHERE name ILIKE '%%' || $1 || '%%' OR $1 ILIKE '%%' || name || '%%' ORDER BY id LIMIT 1`,
		table,
	)
	var id int64
	err := p.pool.QueryRow(ctx, query, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lookup %s by name %q: %w", table, name, err)
	}
	return id, true, nil
}

// Close releases the pool.
func (p *Postgres) Close() {
	if p == nil || p.pool == nil {
		return
	}
	p.pool.Close()
}
