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
	ErrProductAttributeNotFound = fmt.Errorf("product attribute %w", ErrNotFound)
)

// ProductAttributeFilter narrows a product attribute listing
type ProductAttributeFilter struct {
	ProductID   *uuid.UUID
	AttributeID *uuid.UUID
}

// ProductAttributeRepository defines the interface for product-attribute link data access.
// Rows are always loaded with their attribute.
type ProductAttributeRepository interface {
	Create(ctx context.Context, pa *domain.ProductAttribute) error
	Update(ctx context.Context, pa *domain.ProductAttribute) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteByProductID removes every link of a product and returns how many were removed.
	DeleteByProductID(ctx context.Context, productID uuid.UUID) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductAttribute, error)
	List(ctx context.Context, filter ProductAttributeFilter) ([]*domain.ProductAttribute, error)
	ListByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]*domain.ProductAttribute, error)
}

type productAttributeRepository struct {
	db DBTX
}

// NewProductAttributeRepository creates a new instance of ProductAttributeRepository
func NewProductAttributeRepository(db DBTX) ProductAttributeRepository {
	return &productAttributeRepository{db: db}
}

const productAttributeSelect = `
	SELECT pa.id, pa.product_id, pa.attribute_id, pa.value, pa.created_time, pa.modified_time,
	       a.id AS "attribute.id",
	       a.name AS "attribute.name",
	       a.is_visible AS "attribute.is_visible",
	       a.is_variant AS "attribute.is_variant",
	       a.created_time AS "attribute.created_time",
	       a.modified_time AS "attribute.modified_time"
	FROM product_attributes pa
	JOIN attributes a ON a.id = pa.attribute_id
`

func (r *productAttributeRepository) Create(ctx context.Context, pa *domain.ProductAttribute) error {
	query := `
		INSERT INTO product_attributes (id, product_id, attribute_id, value, created_time, modified_time)
		VALUES (:id, :product_id, :attribute_id, :value, :created_time, :modified_time)
	`

	if _, err := r.db.NamedExecContext(ctx, query, pa); err != nil {
		return fmt.Errorf("failed to create product attribute: %w", translateError(err))
	}

	return nil
}

func (r *productAttributeRepository) Update(ctx context.Context, pa *domain.ProductAttribute) error {
	query := `
		UPDATE product_attributes
		SET product_id = :product_id, attribute_id = :attribute_id, value = :value, modified_time = :modified_time
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, pa)
	if err != nil {
		return fmt.Errorf("failed to update product attribute: %w", translateError(err))
	}

	return checkAffected(result, ErrProductAttributeNotFound)
}

func (r *productAttributeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM product_attributes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product attribute: %w", err)
	}

	return checkAffected(result, ErrProductAttributeNotFound)
}

func (r *productAttributeRepository) DeleteByProductID(ctx context.Context, productID uuid.UUID) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM product_attributes WHERE product_id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete product attributes: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return removed, nil
}

func (r *productAttributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductAttribute, error) {
	pa := &domain.ProductAttribute{}
	if err := r.db.GetContext(ctx, pa, productAttributeSelect+` WHERE pa.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductAttributeNotFound
		}
		return nil, fmt.Errorf("failed to find product attribute by ID: %w", err)
	}

	return pa, nil
}

func (r *productAttributeRepository) List(ctx context.Context, filter ProductAttributeFilter) ([]*domain.ProductAttribute, error) {
	var where whereBuilder
	if filter.ProductID != nil {
		where.add("pa.product_id = ?", *filter.ProductID)
	}
	if filter.AttributeID != nil {
		where.add("pa.attribute_id = ?", *filter.AttributeID)
	}

	query := productAttributeSelect + where.String() + ` ORDER BY pa.id ASC`

	links := []*domain.ProductAttribute{}
	if err := r.db.SelectContext(ctx, &links, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list product attributes: %w", err)
	}

	return links, nil
}

// ListByProductIDs loads the links of several products at once, ordered by product then link ID
func (r *productAttributeRepository) ListByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]*domain.ProductAttribute, error) {
	links := []*domain.ProductAttribute{}
	if len(productIDs) == 0 {
		return links, nil
	}

	query, args, err := sqlx.In(productAttributeSelect+` WHERE pa.product_id IN (?) ORDER BY pa.product_id, pa.id`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build product attribute query: %w", err)
	}

	if err := r.db.SelectContext(ctx, &links, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, fmt.Errorf("failed to list product attributes: %w", err)
	}

	return links, nil
}
