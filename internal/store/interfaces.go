// Package store defines the persistence contract for categorization events.
package store

import (
	"context"

	"categorization-service/internal/models"
)

// CategorizationStore persists categorization events and the categories they
// reference.
type CategorizationStore interface {
	// EnsureSchema creates the tables if they do not exist. Idempotent and
	// safe to run concurrently at service startup.
	EnsureSchema(ctx context.Context) error

	// SaveCategorization writes one event row, upserts every category name
	// and links them, all in a single transaction. On failure nothing is
	// committed and the error wraps models.ErrPersistence.
	SaveCategorization(ctx context.Context, rec *models.Categorization, scores []models.CategoryScore) error

	// GetCategoryByName looks a category up by its unique name.
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)

	// ListCategorizations returns recent events, newest first.
	ListCategorizations(ctx context.Context, limit, offset int) ([]*models.Categorization, error)

	// CategoriesFor returns the categories linked to one event.
	CategoriesFor(ctx context.Context, categorizationID int64) ([]*models.Category, error)

	Ping(ctx context.Context) error
	Close()
}
