package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"product-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
)

// CategoryFilter narrows a category listing
type CategoryFilter struct {
	Search   string // case-insensitive substring of the name
	Ordering string // name, created_time; prefix with "-" for descending
}

var categoryOrdering = map[string]string{
	"name":         "name",
	"created_time": "created_time",
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]*domain.Category, error)
}

type categoryRepository struct {
	db DBTX
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db DBTX) CategoryRepository {
	return &categoryRepository{db: db}
}

const categoryColumns = `id, name, description, created_time, modified_time`

// Create inserts a new category
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, description, created_time, modified_time)
		VALUES (:id, :name, :description, :created_time, :modified_time)
	`

	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("failed to create category: %w", translateError(err))
	}

	return nil
}

// Update overwrites name and description of an existing category
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = :name, description = :description, modified_time = :modified_time
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, category)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", translateError(err))
	}

	return checkAffected(result, ErrCategoryNotFound)
}

// Delete removes a category; its products go with it
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return checkAffected(result, ErrCategoryNotFound)
}

// FindByID retrieves a category by ID
func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	category := &domain.Category{}
	if err := r.db.GetContext(ctx, category, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID: %w", err)
	}

	return category, nil
}

// FindByIDs loads every category in ids, keyed by ID. Missing IDs are absent from the map.
func (r *categoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Category, error) {
	found := make(map[uuid.UUID]*domain.Category, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := sqlx.In(`SELECT `+categoryColumns+` FROM categories WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build category query: %w", err)
	}

	categories := []*domain.Category{}
	if err := r.db.SelectContext(ctx, &categories, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, fmt.Errorf("failed to find categories: %w", err)
	}

	for _, c := range categories {
		found[c.ID] = c
	}

	return found, nil
}

// List retrieves categories matching filter
func (r *categoryRepository) List(ctx context.Context, filter CategoryFilter) ([]*domain.Category, error) {
	var where whereBuilder
	if filter.Search != "" {
		where.add(`name ILIKE ? ESCAPE '\'`, containsPattern(filter.Search))
	}

	query := fmt.Sprintf(
		`SELECT %s FROM categories %s ORDER BY %s`,
		categoryColumns, where.String(), orderBy(filter.Ordering, categoryOrdering, "id ASC"),
	)

	categories := []*domain.Category{}
	if err := r.db.SelectContext(ctx, &categories, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}
