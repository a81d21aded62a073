package transport

import (
	"net/http"

	"product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductAttributeRequest represents a single product-attribute link payload
type ProductAttributeRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	AttributeID string `json:"attribute_id" validate:"required,uuid"`
	Value       string `json:"value" validate:"required,max=128"`
}

func (req ProductAttributeRequest) toInput() service.ProductAttributeInput {
	return service.ProductAttributeInput{
		ProductID:   uuid.MustParse(req.ProductID),
		AttributeID: uuid.MustParse(req.AttributeID),
		Value:       req.Value,
	}
}

// ProductAttributeHandler handles HTTP requests for product-attribute links
type ProductAttributeHandler struct {
	productAttributeService service.ProductAttributeService
	logger                  *zap.Logger
}

// NewProductAttributeHandler creates a new ProductAttributeHandler
func NewProductAttributeHandler(productAttributeService service.ProductAttributeService, logger *zap.Logger) *ProductAttributeHandler {
	return &ProductAttributeHandler{
		productAttributeService: productAttributeService,
		logger:                  logger,
	}
}

// RegisterRoutes registers all product-attribute routes
func (h *ProductAttributeHandler) RegisterRoutes(r chi.Router) {
	r.Route("/product-attributes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns product-attribute links, optionally filtered by product or attribute
func (h *ProductAttributeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	filter := repository.ProductAttributeFilter{
		ProductID:   q.UUID("product"),
		AttributeID: q.UUID("attribute"),
	}
	if !q.ok(w) {
		return
	}

	links, err := h.productAttributeService.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Product attribute listing")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, links)
}

// Create links an attribute value to a product
func (h *ProductAttributeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductAttributeRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	link, err := h.productAttributeService.Create(r.Context(), req.toInput())
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Product attribute creation")
		return
	}

	h.logger.Info("Product attribute created",
		zap.String("product_attribute_id", link.ID.String()),
		zap.String("product_id", link.ProductID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, link)
}

// Get returns a single product-attribute link
func (h *ProductAttributeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	link, err := h.productAttributeService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Product attribute lookup")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, link)
}

// Update replaces the product, attribute and value of a link
func (h *ProductAttributeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req ProductAttributeRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	link, err := h.productAttributeService.Update(r.Context(), id, req.toInput())
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Product attribute update")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, link)
}

// Delete removes a product-attribute link
func (h *ProductAttributeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.productAttributeService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, err, h.logger, "Product attribute deletion")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
