package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"product-catalog/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrAttributeNotFound = fmt.Errorf("attribute %w", ErrNotFound)
)

// AttributeFilter narrows an attribute listing
type AttributeFilter struct {
	Search    string
	IsVariant *bool
	IsVisible *bool
	Ordering  string // name, is_variant; prefix with "-" for descending
}

var attributeOrdering = map[string]string{
	"name":       "name",
	"is_variant": "is_variant",
}

// AttributeRepository defines the interface for attribute data access
type AttributeRepository interface {
	Create(ctx context.Context, attribute *domain.Attribute) error
	Update(ctx context.Context, attribute *domain.Attribute) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Attribute, error)
	List(ctx context.Context, filter AttributeFilter) ([]*domain.Attribute, error)
}

type attributeRepository struct {
	db DBTX
}

// NewAttributeRepository creates a new instance of AttributeRepository
func NewAttributeRepository(db DBTX) AttributeRepository {
	return &attributeRepository{db: db}
}

const attributeColumns = `id, name, is_visible, is_variant, created_time, modified_time`

// Create inserts a new attribute. Names are unique.
func (r *attributeRepository) Create(ctx context.Context, attribute *domain.Attribute) error {
	query := `
		INSERT INTO attributes (id, name, is_visible, is_variant, created_time, modified_time)
		VALUES (:id, :name, :is_visible, :is_variant, :created_time, :modified_time)
	`

	if _, err := r.db.NamedExecContext(ctx, query, attribute); err != nil {
		return fmt.Errorf("failed to create attribute: %w", translateError(err))
	}

	return nil
}

func (r *attributeRepository) Update(ctx context.Context, attribute *domain.Attribute) error {
	query := `
		UPDATE attributes
		SET name = :name, is_visible = :is_visible, is_variant = :is_variant, modified_time = :modified_time
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, attribute)
	if err != nil {
		return fmt.Errorf("failed to update attribute: %w", translateError(err))
	}

	return checkAffected(result, ErrAttributeNotFound)
}

// Delete removes an attribute together with every product link that uses it
func (r *attributeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM attributes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attribute: %w", err)
	}

	return checkAffected(result, ErrAttributeNotFound)
}

func (r *attributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attribute, error) {
	query := `SELECT ` + attributeColumns + ` FROM attributes WHERE id = $1`

	attribute := &domain.Attribute{}
	if err := r.db.GetContext(ctx, attribute, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttributeNotFound
		}
		return nil, fmt.Errorf("failed to find attribute by ID: %w", err)
	}

	return attribute, nil
}

func (r *attributeRepository) List(ctx context.Context, filter AttributeFilter) ([]*domain.Attribute, error) {
	var where whereBuilder
	if filter.Search != "" {
		where.add(`name ILIKE ? ESCAPE '\'`, containsPattern(filter.Search))
	}
	if filter.IsVariant != nil {
		where.add("is_variant = ?", *filter.IsVariant)
	}
	if filter.IsVisible != nil {
		where.add("is_visible = ?", *filter.IsVisible)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM attributes %s ORDER BY %s`,
		attributeColumns, where.String(), orderBy(filter.Ordering, attributeOrdering, "id ASC"),
	)

	attributes := []*domain.Attribute{}
	if err := r.db.SelectContext(ctx, &attributes, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list attributes: %w", err)
	}

	return attributes, nil
}
