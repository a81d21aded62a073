// Package seed loads a small demo catalog through the service layer, so the
// save-time rule and nested attribute handling apply to seeded rows too.
package seed

import (
	"context"
	"fmt"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Result summarises what Demo created
type Result struct {
	Categories int
	Attributes int
	Products   int
}

type demoProduct struct {
	baseCode string
	sku      string
	name     string
	price    string
	quantity int
	values   map[string]string
}

var demoCatalog = map[string][]demoProduct{
	"Shirts": {
		{"SHIRT-OXF", "SHIRT-OXF-WHT-M", "Oxford Shirt", "39.90", 12, map[string]string{"Color": "White", "Size": "M", "Material": "Cotton"}},
		{"SHIRT-OXF", "SHIRT-OXF-WHT-L", "Oxford Shirt", "39.90", 7, map[string]string{"Color": "White", "Size": "L", "Material": "Cotton"}},
		{"SHIRT-OXF", "SHIRT-OXF-BLU-M", "Oxford Shirt", "39.90", 0, map[string]string{"Color": "Blue", "Size": "M", "Material": "Cotton"}},
	},
	"Mugs": {
		{"MUG-CLS", "MUG-CLS-BLK", "Classic Mug", "9.50", 40, map[string]string{"Color": "Black", "Material": "Ceramic"}},
	},
}

// Attributes in creation order; variant attributes distinguish SKUs of one base code.
var demoAttributes = []service.AttributeInput{
	{Name: "Color", IsVisible: true, IsVariant: true},
	{Name: "Size", IsVisible: true, IsVariant: true},
	{Name: "Material", IsVisible: true},
}

// Demo creates the demo categories, attributes and products
func Demo(ctx context.Context, repos repository.Repositories, tx repository.Transactor, logger *zap.Logger) (Result, error) {
	var result Result

	attributes := service.NewAttributeService(repos.Attributes)
	attributeIDs := make(map[string]uuid.UUID, len(demoAttributes))
	for _, in := range demoAttributes {
		a, err := attributes.Create(ctx, in)
		if err != nil {
			return result, fmt.Errorf("failed to seed attribute %s: %w", in.Name, err)
		}
		attributeIDs[a.Name] = a.ID
		result.Attributes++
	}

	categories := service.NewCategoryService(repos.Categories)
	products := service.NewProductService(repos, tx)

	for _, categoryName := range []string{"Shirts", "Mugs"} {
		category, err := categories.Create(ctx, service.CategoryInput{Name: categoryName})
		if err != nil {
			return result, fmt.Errorf("failed to seed category %s: %w", categoryName, err)
		}
		result.Categories++

		for _, p := range demoCatalog[categoryName] {
			var values []domain.AttributeValue
			for _, a := range demoAttributes {
				if v, ok := p.values[a.Name]; ok {
					values = append(values, domain.AttributeValue{AttributeID: attributeIDs[a.Name], Value: v})
				}
			}

			product, err := products.Create(ctx, service.ProductInput{
				BaseCode:   p.baseCode,
				SKU:        p.sku,
				Name:       p.name,
				Price:      decimal.RequireFromString(p.price),
				Quantity:   p.quantity,
				IsActive:   true,
				CategoryID: category.ID,
				Attributes: values,
			})
			if err != nil {
				return result, fmt.Errorf("failed to seed product %s: %w", p.sku, err)
			}
			result.Products++

			logger.Debug("Seeded product", zap.String("sku", product.SKU), zap.Bool("active", product.IsActive))
		}
	}

	return result, nil
}
