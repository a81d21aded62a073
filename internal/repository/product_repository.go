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
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
)

// ProductFilter narrows a product listing. Zero values do not filter.
type ProductFilter struct {
	CategoryID *uuid.UUID
	IsActive   *bool
	BaseCode   string
	Search     string // case-insensitive substring of name, sku or base_code
}

// ProductRepository defines the interface for product data access.
// It persists rows as given; the save-time rule is applied by the caller.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// List returns matching products in ascending ID order.
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	// ListByBaseCodes returns every product with one of the base codes, in ascending ID order.
	ListByBaseCodes(ctx context.Context, baseCodes []string) ([]*domain.Product, error)
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, base_code, sku, name, image_url, price, quantity, is_active, category_id, created_time, modified_time`

// Create inserts a new product
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, base_code, sku, name, image_url, price, quantity, is_active, category_id, created_time, modified_time)
		VALUES (:id, :base_code, :sku, :name, :image_url, :price, :quantity, :is_active, :category_id, :created_time, :modified_time)
	`

	if _, err := r.db.NamedExecContext(ctx, query, product); err != nil {
		return fmt.Errorf("failed to create product: %w", translateError(err))
	}

	return nil
}

// Update overwrites every column of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET base_code = :base_code, sku = :sku, name = :name, image_url = :image_url,
		    price = :price, quantity = :quantity, is_active = :is_active,
		    category_id = :category_id, modified_time = :modified_time
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, product)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", translateError(err))
	}

	return checkAffected(result, ErrProductNotFound)
}

// Delete removes a product; the schema cascades to its product attributes
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return checkAffected(result, ErrProductNotFound)
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product := &domain.Product{}
	if err := r.db.GetContext(ctx, product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products with optional category, active flag, base code and text filters
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	var where whereBuilder
	if filter.CategoryID != nil {
		where.add("category_id = ?", *filter.CategoryID)
	}
	if filter.IsActive != nil {
		where.add("is_active = ?", *filter.IsActive)
	}
	if filter.BaseCode != "" {
		where.add("base_code = ?", filter.BaseCode)
	}
	if filter.Search != "" {
		where.add(`(name ILIKE ? ESCAPE '\' OR sku ILIKE ? ESCAPE '\' OR base_code ILIKE ? ESCAPE '\')`, containsPattern(filter.Search))
	}

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY id ASC`, productColumns, where.String())

	products := []*domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, where.args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// ListByBaseCodes loads whole variant families regardless of any list filter
func (r *productRepository) ListByBaseCodes(ctx context.Context, baseCodes []string) ([]*domain.Product, error) {
	products := []*domain.Product{}
	if len(baseCodes) == 0 {
		return products, nil
	}

	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE base_code IN (?) ORDER BY id ASC`, baseCodes)
	if err != nil {
		return nil, fmt.Errorf("failed to build product query: %w", err)
	}

	if err := r.db.SelectContext(ctx, &products, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return nil, fmt.Errorf("failed to list products by base code: %w", err)
	}

	return products, nil
}
