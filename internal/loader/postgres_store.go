package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of *pgxpool.Pool the store needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps one room per row as a jsonb payload.
type PostgresStore struct {
	db    querier
	table string
}

// NewPostgresPool opens and pings a connection pool.
func NewPostgresPool(ctx context.Context, databaseURL string, maxConns int32) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	if maxConns > 0 {
		config.MaxConns = maxConns
	}

	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// NewPostgresStore creates a store over db using table.
func NewPostgresStore(db querier, table string) *PostgresStore {
	return &PostgresStore{
		db:    db,
		table: pgx.Identifier{table}.Sanitize(),
	}
}

// EnsureSchema creates the rooms table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+s.table+` (
			id TEXT PRIMARY KEY,
			payload JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create rooms table: %w", err)
	}

	return nil
}

// Fetch loads the payload of one room.
func (s *PostgresStore) Fetch(ctx context.Context, id string) (Document, error) {
	if err := CheckID(id); err != nil {
		return nil, err
	}

	var payload []byte

	err := s.db.QueryRow(ctx, "SELECT payload FROM "+s.table+" WHERE id = $1", id).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query room %s: %w", id, err)
	}

	return Decode(payload, "json")
}

// Put upserts one room.
func (s *PostgresStore) Put(ctx context.Context, id string, doc Document) error {
	if err := CheckID(id); err != nil {
		return err
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal room %s: %w", id, err)
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO `+s.table+` (id, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`, id, payload)
	if err != nil {
		return fmt.Errorf("failed to upsert room %s: %w", id, err)
	}

	return nil
}

// List returns every room id, sorted.
func (s *PostgresStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, "SELECT id FROM "+s.table+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan room ids: %w", err)
	}

	return ids, nil
}
