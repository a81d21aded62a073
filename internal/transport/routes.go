package transport

import (
	"product-catalog/internal/repository"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handlers groups the catalog API handlers
type Handlers struct {
	Products          *ProductHandler
	Categories        *CategoryHandler
	Attributes        *AttributeHandler
	ProductAttributes *ProductAttributeHandler
}

// NewHandlers wires services and handlers on top of the given repositories
func NewHandlers(repos repository.Repositories, tx repository.Transactor, logger *zap.Logger) *Handlers {
	return &Handlers{
		Products:          NewProductHandler(service.NewProductService(repos, tx), logger),
		Categories:        NewCategoryHandler(service.NewCategoryService(repos.Categories), logger),
		Attributes:        NewAttributeHandler(service.NewAttributeService(repos.Attributes), logger),
		ProductAttributes: NewProductAttributeHandler(service.NewProductAttributeService(repos), logger),
	}
}

// RegisterRoutes mounts every catalog resource under /api
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		h.Products.RegisterRoutes(r)
		h.Categories.RegisterRoutes(r)
		h.Attributes.RegisterRoutes(r)
		h.ProductAttributes.RegisterRoutes(r)
	})
}
