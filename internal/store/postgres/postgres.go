// Package postgres implements the categorization store on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"categorization-service/internal/models"
	"categorization-service/internal/store"
)

// querier is the slice of pgxpool.Pool the store uses. Tests substitute a
// fake so the SQL assembly and error mapping run without a live database.
type querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// StoreImpl implements store.CategorizationStore using a pgx connection pool.
type StoreImpl struct {
	db   querier
	pool *pgxpool.Pool
}

// NewStore creates a PostgreSQL store and verifies connectivity.
func NewStore(ctx context.Context, dsn string) (*StoreImpl, error) {
	if dsn == "" {
		return nil, errors.New("database DSN cannot be empty")
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database DSN: %w", err)
	}

	dbpool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &StoreImpl{db: dbpool, pool: dbpool}, nil
}

// Ping checks the database connection.
func (s *StoreImpl) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection pool.
func (s *StoreImpl) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the three tables if missing. Statements are plain
// IF NOT EXISTS so concurrent service instances can race on startup safely.
func (s *StoreImpl) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS categorization (
			id BIGSERIAL PRIMARY KEY,
			channel_id TEXT,
			video_id TEXT,
			audio_part TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS category (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS categorization_category (
			id BIGSERIAL PRIMARY KEY,
			categorization_id BIGINT NOT NULL REFERENCES categorization(id) ON DELETE CASCADE,
			category_id BIGINT NOT NULL REFERENCES category(id) ON DELETE CASCADE
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// SaveCategorization stores one event and its category links in a single
// transaction. The rec's ID and CreatedAt are filled from the insert.
func (s *StoreImpl) SaveCategorization(ctx context.Context, rec *models.Categorization, scores []models.CategoryScore) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", models.ErrPersistence, err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	err = tx.QueryRow(ctx,
		`INSERT INTO categorization (channel_id, video_id, audio_part)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		rec.ChannelID, rec.VideoID, rec.AudioPart,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to insert categorization: %v", models.ErrPersistence, err)
	}

	categoryIDs := make([]int64, 0, len(scores))
	for _, cs := range scores {
		var id int64
		// DO UPDATE instead of DO NOTHING so RETURNING always yields the
		// row, including when a concurrent writer got there first.
		err = tx.QueryRow(ctx,
			`INSERT INTO category (name) VALUES ($1)
			 ON CONFLICT (name) DO UPDATE SET name = excluded.name
			 RETURNING id`,
			cs.Category,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("%w: failed to upsert category %q: %v", models.ErrPersistence, cs.Category, err)
		}
		categoryIDs = append(categoryIDs, id)
	}

	if len(categoryIDs) > 0 {
		rows := make([][]interface{}, len(categoryIDs))
		for i, cid := range categoryIDs {
			rows[i] = []interface{}{rec.ID, cid}
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"categorization_category"},
			[]string{"categorization_id", "category_id"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("%w: failed to insert category links: %v", models.ErrPersistence, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: failed to commit transaction: %v", models.ErrPersistence, err)
	}

	log.WithFields(log.Fields{
		"categorization_id": rec.ID,
		"categories":        len(categoryIDs),
		"video_id":          rec.VideoID,
	}).Debug("categorization stored")
	return nil
}

func (s *StoreImpl) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	query := `SELECT id, name FROM category WHERE name = $1`
	cat := &models.Category{}
	err := s.db.QueryRow(ctx, query, name).Scan(&cat.ID, &cat.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get category by name %q: %w", name, err)
	}
	return cat, nil
}

func (s *StoreImpl) ListCategorizations(ctx context.Context, limit, offset int) ([]*models.Categorization, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT id, channel_id, video_id, audio_part, created_at
		  FROM categorization ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list categorizations: %w", err)
	}
	defer rows.Close()

	var out []*models.Categorization
	for rows.Next() {
		rec := &models.Categorization{}
		if err := rows.Scan(&rec.ID, &rec.ChannelID, &rec.VideoID, &rec.AudioPart, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan categorization row: %w", err)
		}
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categorization rows: %w", err)
	}
	return out, nil
}

func (s *StoreImpl) CategoriesFor(ctx context.Context, categorizationID int64) ([]*models.Category, error) {
	query := `SELECT c.id, c.name
		  FROM category c
		  JOIN categorization_category cc ON cc.category_id = c.id
		  WHERE cc.categorization_id = $1
		  ORDER BY cc.id`
	rows, err := s.db.Query(ctx, query, categorizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories for categorization %d: %w", categorizationID, err)
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		cat := &models.Category{}
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		out = append(out, cat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}
	return out, nil
}

var _ store.CategorizationStore = (*StoreImpl)(nil)
