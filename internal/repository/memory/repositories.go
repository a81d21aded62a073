package memory

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type categoryRepository struct{ *conn }

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.with(func(t *tables) error {
		if _, exists := t.categories[category.ID]; exists {
			return fmt.Errorf("failed to create category: %w: categories_pkey", repository.ErrAlreadyExists)
		}
		t.categories[category.ID] = *category
		return nil
	})
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	return r.with(func(t *tables) error {
		stored, exists := t.categories[category.ID]
		if !exists {
			return repository.ErrCategoryNotFound
		}
		stored.Name = category.Name
		stored.Description = category.Description
		stored.ModifiedTime = category.ModifiedTime
		t.categories[category.ID] = stored
		return nil
	})
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.with(func(t *tables) error {
		if _, exists := t.categories[id]; !exists {
			return repository.ErrCategoryNotFound
		}
		delete(t.categories, id)
		for pid, p := range t.products {
			if p.CategoryID == id {
				delete(t.products, pid)
				t.cascadeProduct(pid)
			}
		}
		return nil
	})
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var found *domain.Category
	err := r.with(func(t *tables) error {
		c, exists := t.categories[id]
		if !exists {
			return repository.ErrCategoryNotFound
		}
		found = &c
		return nil
	})
	return found, err
}

func (r *categoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Category, error) {
	found := make(map[uuid.UUID]*domain.Category, len(ids))
	err := r.with(func(t *tables) error {
		for _, id := range ids {
			if c, exists := t.categories[id]; exists {
				found[id] = &c
			}
		}
		return nil
	})
	return found, err
}

func (r *categoryRepository) List(ctx context.Context, filter repository.CategoryFilter) ([]*domain.Category, error) {
	categories := []*domain.Category{}
	err := r.with(func(t *tables) error {
		for _, c := range t.categories {
			if !containsFold(c.Name, filter.Search) {
				continue
			}
			categories = append(categories, &c)
		}
		return nil
	})

	field, desc := parseOrdering(filter.Ordering)
	slices.SortFunc(categories, func(a, b *domain.Category) int {
		switch field {
		case "name":
			return orderedThenID(cmp.Compare(a.Name, b.Name), desc, a.ID, b.ID)
		case "created_time":
			return orderedThenID(a.CreatedTime.Compare(b.CreatedTime), desc, a.ID, b.ID)
		}
		return domain.CompareIDs(a.ID, b.ID)
	})

	return categories, err
}

type attributeRepository struct{ *conn }

func (r *attributeRepository) Create(ctx context.Context, attribute *domain.Attribute) error {
	return r.with(func(t *tables) error {
		if err := t.checkAttributeName(attribute); err != nil {
			return fmt.Errorf("failed to create attribute: %w", err)
		}
		t.attributes[attribute.ID] = *attribute
		return nil
	})
}

func (r *attributeRepository) Update(ctx context.Context, attribute *domain.Attribute) error {
	return r.with(func(t *tables) error {
		stored, exists := t.attributes[attribute.ID]
		if !exists {
			return repository.ErrAttributeNotFound
		}
		if err := t.checkAttributeName(attribute); err != nil {
			return fmt.Errorf("failed to update attribute: %w", err)
		}
		stored.Name = attribute.Name
		stored.IsVisible = attribute.IsVisible
		stored.IsVariant = attribute.IsVariant
		stored.ModifiedTime = attribute.ModifiedTime
		t.attributes[attribute.ID] = stored
		return nil
	})
}

func (t *tables) checkAttributeName(attribute *domain.Attribute) error {
	for _, a := range t.attributes {
		if a.Name == attribute.Name && a.ID != attribute.ID {
			return fmt.Errorf("%w: attributes_name_key", repository.ErrAlreadyExists)
		}
	}
	return nil
}

func (r *attributeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.with(func(t *tables) error {
		if _, exists := t.attributes[id]; !exists {
			return repository.ErrAttributeNotFound
		}
		delete(t.attributes, id)
		for lid, l := range t.links {
			if l.AttributeID == id {
				delete(t.links, lid)
			}
		}
		return nil
	})
}

func (r *attributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Attribute, error) {
	var found *domain.Attribute
	err := r.with(func(t *tables) error {
		a, exists := t.attributes[id]
		if !exists {
			return repository.ErrAttributeNotFound
		}
		found = &a
		return nil
	})
	return found, err
}

func (r *attributeRepository) List(ctx context.Context, filter repository.AttributeFilter) ([]*domain.Attribute, error) {
	attributes := []*domain.Attribute{}
	err := r.with(func(t *tables) error {
		for _, a := range t.attributes {
			if !containsFold(a.Name, filter.Search) {
				continue
			}
			if filter.IsVariant != nil && a.IsVariant != *filter.IsVariant {
				continue
			}
			if filter.IsVisible != nil && a.IsVisible != *filter.IsVisible {
				continue
			}
			attributes = append(attributes, &a)
		}
		return nil
	})

	field, desc := parseOrdering(filter.Ordering)
	slices.SortFunc(attributes, func(a, b *domain.Attribute) int {
		switch field {
		case "name":
			return orderedThenID(cmp.Compare(a.Name, b.Name), desc, a.ID, b.ID)
		case "is_variant":
			return orderedThenID(compareBool(a.IsVariant, b.IsVariant), desc, a.ID, b.ID)
		}
		return domain.CompareIDs(a.ID, b.ID)
	})

	return attributes, err
}

type productRepository struct{ *conn }

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.with(func(t *tables) error {
		if _, exists := t.products[product.ID]; exists {
			return fmt.Errorf("failed to create product: %w: products_pkey", repository.ErrAlreadyExists)
		}
		if err := t.checkProduct(product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		t.products[product.ID] = detachProduct(product)
		return nil
	})
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.with(func(t *tables) error {
		stored, exists := t.products[product.ID]
		if !exists {
			return repository.ErrProductNotFound
		}
		if err := t.checkProduct(product); err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		updated := detachProduct(product)
		updated.CreatedTime = stored.CreatedTime
		t.products[product.ID] = updated
		return nil
	})
}

// maxPrice is the first value a NUMERIC(10,2) column cannot hold
var maxPrice = decimal.New(1, 8)

// checkProduct enforces the constraints the products table declares
func (t *tables) checkProduct(product *domain.Product) error {
	price := product.Price.Round(2)
	if price.Abs().GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%w: numeric field overflow", repository.ErrInvalidValue)
	}
	if price.Sign() <= 0 {
		return domain.ErrNonPositivePrice
	}
	if product.Quantity > math.MaxInt32 {
		return fmt.Errorf("%w: value out of range for type integer", repository.ErrInvalidValue)
	}
	if product.Quantity < 0 {
		return fmt.Errorf("%w: products_quantity_non_negative", repository.ErrInvalidValue)
	}
	if _, exists := t.categories[product.CategoryID]; !exists {
		return fmt.Errorf("%w: fk_products_category", repository.ErrInvalidReference)
	}
	for _, p := range t.products {
		if p.SKU == product.SKU && p.ID != product.ID {
			return fmt.Errorf("%w: products_sku_key", repository.ErrAlreadyExists)
		}
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.with(func(t *tables) error {
		if _, exists := t.products[id]; !exists {
			return repository.ErrProductNotFound
		}
		delete(t.products, id)
		t.cascadeProduct(id)
		return nil
	})
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var found *domain.Product
	err := r.with(func(t *tables) error {
		p, exists := t.products[id]
		if !exists {
			return repository.ErrProductNotFound
		}
		found = &p
		return nil
	})
	return found, err
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	products := []*domain.Product{}
	err := r.with(func(t *tables) error {
		for _, p := range t.products {
			if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
				continue
			}
			if filter.IsActive != nil && p.IsActive != *filter.IsActive {
				continue
			}
			if filter.BaseCode != "" && p.BaseCode != filter.BaseCode {
				continue
			}
			if filter.Search != "" &&
				!containsFold(p.Name, filter.Search) &&
				!containsFold(p.SKU, filter.Search) &&
				!containsFold(p.BaseCode, filter.Search) {
				continue
			}
			products = append(products, &p)
		}
		return nil
	})

	slices.SortFunc(products, func(a, b *domain.Product) int {
		return domain.CompareIDs(a.ID, b.ID)
	})

	return products, err
}

func (r *productRepository) ListByBaseCodes(ctx context.Context, baseCodes []string) ([]*domain.Product, error) {
	products := []*domain.Product{}
	err := r.with(func(t *tables) error {
		for _, p := range t.products {
			if slices.Contains(baseCodes, p.BaseCode) {
				products = append(products, &p)
			}
		}
		return nil
	})

	slices.SortFunc(products, func(a, b *domain.Product) int {
		return domain.CompareIDs(a.ID, b.ID)
	})

	return products, err
}

type productAttributeRepository struct{ *conn }

func (r *productAttributeRepository) Create(ctx context.Context, pa *domain.ProductAttribute) error {
	return r.with(func(t *tables) error {
		if _, exists := t.links[pa.ID]; exists {
			return fmt.Errorf("failed to create product attribute: %w: product_attributes_pkey", repository.ErrAlreadyExists)
		}
		if err := t.checkLink(pa); err != nil {
			return fmt.Errorf("failed to create product attribute: %w", err)
		}
		t.links[pa.ID] = *pa
		return nil
	})
}

func (r *productAttributeRepository) Update(ctx context.Context, pa *domain.ProductAttribute) error {
	return r.with(func(t *tables) error {
		stored, exists := t.links[pa.ID]
		if !exists {
			return repository.ErrProductAttributeNotFound
		}
		if err := t.checkLink(pa); err != nil {
			return fmt.Errorf("failed to update product attribute: %w", err)
		}
		stored.ProductID = pa.ProductID
		stored.AttributeID = pa.AttributeID
		stored.Value = pa.Value
		stored.ModifiedTime = pa.ModifiedTime
		t.links[pa.ID] = stored
		return nil
	})
}

func (t *tables) checkLink(pa *domain.ProductAttribute) error {
	if _, exists := t.products[pa.ProductID]; !exists {
		return fmt.Errorf("%w: fk_product_attributes_product", repository.ErrInvalidReference)
	}
	if _, exists := t.attributes[pa.AttributeID]; !exists {
		return fmt.Errorf("%w: fk_product_attributes_attribute", repository.ErrInvalidReference)
	}
	for _, l := range t.links {
		if l.ProductID == pa.ProductID && l.AttributeID == pa.AttributeID && l.ID != pa.ID {
			return fmt.Errorf("%w: product_attributes_product_attribute_key", repository.ErrAlreadyExists)
		}
	}
	return nil
}

func (r *productAttributeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.with(func(t *tables) error {
		if _, exists := t.links[id]; !exists {
			return repository.ErrProductAttributeNotFound
		}
		delete(t.links, id)
		return nil
	})
}

func (r *productAttributeRepository) DeleteByProductID(ctx context.Context, productID uuid.UUID) (int64, error) {
	var removed int64
	err := r.with(func(t *tables) error {
		for id, l := range t.links {
			if l.ProductID == productID {
				delete(t.links, id)
				removed++
			}
		}
		return nil
	})
	return removed, err
}

func (r *productAttributeRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProductAttribute, error) {
	var found *domain.ProductAttribute
	err := r.with(func(t *tables) error {
		l, exists := t.links[id]
		if !exists {
			return repository.ErrProductAttributeNotFound
		}
		found = t.joinAttribute(l)
		return nil
	})
	return found, err
}

func (r *productAttributeRepository) List(ctx context.Context, filter repository.ProductAttributeFilter) ([]*domain.ProductAttribute, error) {
	links := []*domain.ProductAttribute{}
	err := r.with(func(t *tables) error {
		for _, l := range t.links {
			if filter.ProductID != nil && l.ProductID != *filter.ProductID {
				continue
			}
			if filter.AttributeID != nil && l.AttributeID != *filter.AttributeID {
				continue
			}
			links = append(links, t.joinAttribute(l))
		}
		return nil
	})

	slices.SortFunc(links, func(a, b *domain.ProductAttribute) int {
		return domain.CompareIDs(a.ID, b.ID)
	})

	return links, err
}

func (r *productAttributeRepository) ListByProductIDs(ctx context.Context, productIDs []uuid.UUID) ([]*domain.ProductAttribute, error) {
	links := []*domain.ProductAttribute{}
	err := r.with(func(t *tables) error {
		for _, l := range t.links {
			if slices.Contains(productIDs, l.ProductID) {
				links = append(links, t.joinAttribute(l))
			}
		}
		return nil
	})

	slices.SortFunc(links, func(a, b *domain.ProductAttribute) int {
		if c := domain.CompareIDs(a.ProductID, b.ProductID); c != 0 {
			return c
		}
		return domain.CompareIDs(a.ID, b.ID)
	})

	return links, err
}

func (t *tables) joinAttribute(l domain.ProductAttribute) *domain.ProductAttribute {
	l.Attribute = t.attributes[l.AttributeID]
	return &l
}

// detachProduct strips the loaded relations before a product is stored
func detachProduct(p *domain.Product) domain.Product {
	stored := *p
	stored.Price = p.Price.Round(2)
	stored.Category = nil
	stored.Attributes = nil
	return stored
}

func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func parseOrdering(ordering string) (field string, desc bool) {
	if strings.HasPrefix(ordering, "-") {
		return ordering[1:], true
	}
	return ordering, false
}

func orderedThenID(c int, desc bool, a, b uuid.UUID) int {
	if c == 0 {
		return domain.CompareIDs(a, b)
	}
	if desc {
		return -c
	}
	return c
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
