package transport

import (
	"net/http"

	"product-catalog/internal/domain"
	"product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AttributeValueRequest is one entry of a product's nested attribute list
type AttributeValueRequest struct {
	AttributeID string `json:"attribute_id" validate:"required,uuid"`
	Value       string `json:"value" validate:"required,max=128"`
}

// ProductRequest represents the create and full update payload
type ProductRequest struct {
	BaseCode   string                  `json:"base_code" validate:"required,max=64"`
	SKU        string                  `json:"sku" validate:"required,max=64"`
	Name       string                  `json:"name" validate:"required,max=128"`
	ImageURL   *string                 `json:"image_url" validate:"omitempty,url,max=500"`
	Price      decimal.Decimal         `json:"price" validate:"money"`
	Quantity   int                     `json:"quantity" validate:"gte=0,lte=2147483647"`
	IsActive   *bool                   `json:"is_active"`
	CategoryID string                  `json:"category_id" validate:"required,uuid"`
	Attributes []AttributeValueRequest `json:"attributes" validate:"omitempty,unique=AttributeID,dive"`
}

// ProductPatchRequest represents a partial update; absent fields are left unchanged
type ProductPatchRequest struct {
	BaseCode   *string                  `json:"base_code" validate:"omitempty,min=1,max=64"`
	SKU        *string                  `json:"sku" validate:"omitempty,min=1,max=64"`
	Name       *string                  `json:"name" validate:"omitempty,min=1,max=128"`
	ImageURL   *string                  `json:"image_url" validate:"omitempty,url,max=500"`
	Price      *decimal.Decimal         `json:"price" validate:"omitempty,money"`
	Quantity   *int                     `json:"quantity" validate:"omitempty,gte=0,lte=2147483647"`
	IsActive   *bool                    `json:"is_active"`
	CategoryID *string                  `json:"category_id" validate:"omitempty,uuid"`
	Attributes *[]AttributeValueRequest `json:"attributes" validate:"omitempty,unique=AttributeID,dive"`
}

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Patch("/{id}", h.Patch)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns the product groups as a bare JSON array
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	filter := repository.ProductFilter{
		CategoryID: q.UUID("category"),
		IsActive:   q.Bool("is_active"),
		BaseCode:   q.String("base_code"),
		Search:     q.String("search"),
	}
	if !q.ok(w) {
		return
	}

	groups, err := h.productService.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Product listing")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, groups)
}

// Create handles product creation together with its attributes
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	product, err := h.productService.Create(r.Context(), req.toInput())
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Product creation")
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
		zap.Int("attributes", len(product.Attributes)),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Get returns a single product with its category and attributes
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Product lookup")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Update replaces a product and its whole attribute set
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	product, err := h.productService.Update(r.Context(), id, req.toInput())
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Product update")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Patch applies a partial product update
func (h *ProductHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ProductPatchRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	product, err := h.productService.Patch(r.Context(), id, req.toPatch())
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Product update")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product and its attribute links
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, err, h.logger, "Product deletion")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (req ProductRequest) toInput() service.ProductInput {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return service.ProductInput{
		BaseCode:   req.BaseCode,
		SKU:        req.SKU,
		Name:       req.Name,
		ImageURL:   req.ImageURL,
		Price:      req.Price,
		Quantity:   req.Quantity,
		IsActive:   isActive,
		CategoryID: uuid.MustParse(req.CategoryID),
		Attributes: attributeValues(req.Attributes),
	}
}

func (req ProductPatchRequest) toPatch() service.ProductPatch {
	patch := service.ProductPatch{
		BaseCode: req.BaseCode,
		SKU:      req.SKU,
		Name:     req.Name,
		ImageURL: req.ImageURL,
		Price:    req.Price,
		Quantity: req.Quantity,
		IsActive: req.IsActive,
	}

	if req.CategoryID != nil {
		id := uuid.MustParse(*req.CategoryID)
		patch.CategoryID = &id
	}
	if req.Attributes != nil {
		values := attributeValues(*req.Attributes)
		patch.Attributes = &values
	}

	return patch
}

// attributeValues converts validated request entries; ids were checked by the uuid tag
func attributeValues(entries []AttributeValueRequest) []domain.AttributeValue {
	values := make([]domain.AttributeValue, 0, len(entries))
	for _, e := range entries {
		values = append(values, domain.AttributeValue{
			AttributeID: uuid.MustParse(e.AttributeID),
			Value:       e.Value,
		})
	}
	return values
}
