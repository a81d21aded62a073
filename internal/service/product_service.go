package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"product-catalog/internal/domain"
	"product-catalog/internal/metrics"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAttributes = errors.New("invalid attribute list")
)

// ProductInput carries every writable product field. Attributes is the
// complete attribute set of the product.
type ProductInput struct {
	BaseCode   string
	SKU        string
	Name       string
	ImageURL   *string
	Price      decimal.Decimal
	Quantity   int
	IsActive   bool
	CategoryID uuid.UUID
	Attributes []domain.AttributeValue
}

// ProductPatch carries a partial update. Nil fields keep their stored value;
// a nil Attributes keeps the current attribute set, a non-nil one replaces it.
type ProductPatch struct {
	BaseCode   *string
	SKU        *string
	Name       *string
	ImageURL   *string
	Price      *decimal.Decimal
	Quantity   *int
	IsActive   *bool
	CategoryID *uuid.UUID
	Attributes *[]domain.AttributeValue
}

// ProductService defines the interface for product business logic
type ProductService interface {
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error)
	Patch(ctx context.Context, id uuid.UUID, patch ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter repository.ProductFilter) ([]*ProductGroup, error)
}

type productService struct {
	repos repository.Repositories
	tx    repository.Transactor
	now   func() time.Time
}

// NewProductService creates a new instance of ProductService
func NewProductService(repos repository.Repositories, tx repository.Transactor) ProductService {
	return &productService{
		repos: repos,
		tx:    tx,
		now:   time.Now,
	}
}

// Create stores a new product and links it to the supplied attributes in one transaction
func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := checkAttributeValues(input.Attributes); err != nil {
		return nil, err
	}

	product := &domain.Product{ID: uuid.Must(uuid.NewV7())}
	input.applyTo(product)

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := s.save(ctx, repos, product, true); err != nil {
			return err
		}

		links, err := s.replaceAttributes(ctx, repos, product.ID, input.Attributes)
		if err != nil {
			return err
		}
		product.Attributes = links
		return nil
	})
	metrics.RecordProductWrite("create", writeOutcome(err))
	if err != nil {
		return nil, err
	}

	return product, nil
}

// Update overwrites a product and replaces its whole attribute set
func (s *productService) Update(ctx context.Context, id uuid.UUID, input ProductInput) (*domain.Product, error) {
	if err := checkAttributeValues(input.Attributes); err != nil {
		return nil, err
	}

	var product *domain.Product
	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		product, err = repos.Products.FindByID(ctx, id)
		if err != nil {
			return err
		}

		input.applyTo(product)
		if err := s.save(ctx, repos, product, false); err != nil {
			return err
		}

		product.Attributes, err = s.replaceAttributes(ctx, repos, product.ID, input.Attributes)
		return err
	})
	metrics.RecordProductWrite("update", writeOutcome(err))
	if err != nil {
		return nil, err
	}

	return product, nil
}

// Patch applies a partial update. The attribute set is replaced only when supplied.
func (s *productService) Patch(ctx context.Context, id uuid.UUID, patch ProductPatch) (*domain.Product, error) {
	if patch.Attributes != nil {
		if err := checkAttributeValues(*patch.Attributes); err != nil {
			return nil, err
		}
	}

	var product *domain.Product
	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		product, err = repos.Products.FindByID(ctx, id)
		if err != nil {
			return err
		}

		patch.applyTo(product)
		if err := s.save(ctx, repos, product, false); err != nil {
			return err
		}

		if patch.Attributes == nil {
			product.Attributes, err = repos.ProductAttributes.ListByProductIDs(ctx, []uuid.UUID{product.ID})
			return err
		}

		product.Attributes, err = s.replaceAttributes(ctx, repos, product.ID, *patch.Attributes)
		return err
	})
	metrics.RecordProductWrite("update", writeOutcome(err))
	if err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product and, through the schema, all of its attribute links
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repos.Products.Delete(ctx, id)
}

// Get returns a product with its category and attribute links
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, err := s.repos.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.hydrate(ctx, []*domain.Product{product}); err != nil {
		return nil, err
	}

	return product, nil
}

// List groups products by base code. The filter selects which groups appear
// and their main rows; each group then lists every active product sharing its
// base code, whether or not it matches the filter.
func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]*ProductGroup, error) {
	products, err := s.repos.Products.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(products))
	seen := make(map[string]bool)
	for _, p := range products {
		if !seen[p.BaseCode] {
			seen[p.BaseCode] = true
			codes = append(codes, p.BaseCode)
		}
	}

	siblings, err := s.repos.Products.ListByBaseCodes(ctx, codes)
	if err != nil {
		return nil, err
	}

	groups := GroupWithSiblings(products, siblings)

	var listed []*domain.Product
	for _, g := range groups {
		listed = append(listed, g.Variants...)
	}
	if err := s.hydrate(ctx, listed); err != nil {
		return nil, err
	}

	return groups, nil
}

// save is the single write path for products: the save-time rule runs
// before every insert or update.
func (s *productService) save(ctx context.Context, repos repository.Repositories, product *domain.Product, isNew bool) error {
	if err := product.PrepareForSave(); err != nil {
		return err
	}

	category, err := repos.Categories.FindByID(ctx, product.CategoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return fmt.Errorf("%w: category %s", repository.ErrInvalidReference, product.CategoryID)
		}
		return err
	}
	product.Category = category

	stamp(s.now, product)
	if isNew {
		return repos.Products.Create(ctx, product)
	}
	return repos.Products.Update(ctx, product)
}

// replaceAttributes deletes every attribute link of the product and creates
// one link per value. There is no partial merge.
func (s *productService) replaceAttributes(ctx context.Context, repos repository.Repositories, productID uuid.UUID, values []domain.AttributeValue) ([]*domain.ProductAttribute, error) {
	if _, err := repos.ProductAttributes.DeleteByProductID(ctx, productID); err != nil {
		return nil, err
	}

	links := make([]*domain.ProductAttribute, 0, len(values))
	for _, v := range values {
		attribute, err := repos.Attributes.FindByID(ctx, v.AttributeID)
		if err != nil {
			if errors.Is(err, repository.ErrAttributeNotFound) {
				return nil, fmt.Errorf("%w: attribute %s", repository.ErrInvalidReference, v.AttributeID)
			}
			return nil, err
		}

		link := &domain.ProductAttribute{
			ID:          uuid.Must(uuid.NewV7()),
			ProductID:   productID,
			AttributeID: attribute.ID,
			Value:       v.Value,
			Attribute:   *attribute,
		}
		links = append(links, link)
	}

	stamp(s.now, links...)
	for _, link := range links {
		if err := repos.ProductAttributes.Create(ctx, link); err != nil {
			return nil, err
		}
	}

	return links, nil
}

// hydrate attaches categories and attribute links to products
func (s *productService) hydrate(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	productIDs := make([]uuid.UUID, 0, len(products))
	categoryIDs := make([]uuid.UUID, 0, len(products))
	seen := make(map[uuid.UUID]bool)
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
		if !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			categoryIDs = append(categoryIDs, p.CategoryID)
		}
	}

	categories, err := s.repos.Categories.FindByIDs(ctx, categoryIDs)
	if err != nil {
		return err
	}

	links, err := s.repos.ProductAttributes.ListByProductIDs(ctx, productIDs)
	if err != nil {
		return err
	}

	byProduct := make(map[uuid.UUID][]*domain.ProductAttribute)
	for _, l := range links {
		byProduct[l.ProductID] = append(byProduct[l.ProductID], l)
	}

	for _, p := range products {
		p.Category = categories[p.CategoryID]
		p.Attributes = byProduct[p.ID]
		if p.Attributes == nil {
			p.Attributes = []*domain.ProductAttribute{}
		}
	}

	return nil
}

func (in ProductInput) applyTo(p *domain.Product) {
	p.BaseCode = in.BaseCode
	p.SKU = in.SKU
	p.Name = in.Name
	p.ImageURL = in.ImageURL
	p.Price = in.Price
	p.Quantity = in.Quantity
	p.IsActive = in.IsActive
	p.CategoryID = in.CategoryID
}

func (in ProductPatch) applyTo(p *domain.Product) {
	if in.BaseCode != nil {
		p.BaseCode = *in.BaseCode
	}
	if in.SKU != nil {
		p.SKU = *in.SKU
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.ImageURL != nil {
		p.ImageURL = in.ImageURL
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.CategoryID != nil {
		p.CategoryID = *in.CategoryID
	}
}

// checkAttributeValues rejects a payload listing the same attribute twice
func checkAttributeValues(values []domain.AttributeValue) error {
	seen := make(map[uuid.UUID]bool, len(values))
	for _, v := range values {
		if seen[v.AttributeID] {
			return fmt.Errorf("%w: attribute %s listed more than once", ErrInvalidAttributes, v.AttributeID)
		}
		seen[v.AttributeID] = true
	}
	return nil
}

func writeOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrNonPositivePrice):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
