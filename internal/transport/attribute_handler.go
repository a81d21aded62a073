package transport

import (
	"net/http"

	"product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AttributeRequest represents the attribute create and update payload.
// is_visible defaults to true, is_variant to false.
type AttributeRequest struct {
	Name      string `json:"name" validate:"required,max=128"`
	IsVisible *bool  `json:"is_visible"`
	IsVariant bool   `json:"is_variant"`
}

func (req AttributeRequest) toInput() service.AttributeInput {
	isVisible := true
	if req.IsVisible != nil {
		isVisible = *req.IsVisible
	}
	return service.AttributeInput{
		Name:      req.Name,
		IsVisible: isVisible,
		IsVariant: req.IsVariant,
	}
}

// AttributeHandler handles HTTP requests for attributes
type AttributeHandler struct {
	attributeService service.AttributeService
	logger           *zap.Logger
}

// NewAttributeHandler creates a new AttributeHandler
func NewAttributeHandler(attributeService service.AttributeService, logger *zap.Logger) *AttributeHandler {
	return &AttributeHandler{
		attributeService: attributeService,
		logger:           logger,
	}
}

// RegisterRoutes registers all attribute routes
func (h *AttributeHandler) RegisterRoutes(r chi.Router) {
	r.Route("/attributes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *AttributeHandler) List(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	filter := repository.AttributeFilter{
		Search:    q.String("search"),
		IsVariant: q.Bool("is_variant"),
		IsVisible: q.Bool("is_visible"),
		Ordering:  q.String("ordering"),
	}
	if !q.ok(w) {
		return
	}

	attributes, err := h.attributeService.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Attribute listing")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, attributes)
}

func (h *AttributeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req AttributeRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	attribute, err := h.attributeService.Create(r.Context(), req.toInput())
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Attribute creation")
		return
	}

	h.logger.Info("Attribute created", zap.String("attribute_id", attribute.ID.String()), zap.Stringer("attribute", attribute))
	middleware.RespondWithJSON(w, http.StatusCreated, attribute)
}

func (h *AttributeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	attribute, err := h.attributeService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Attribute lookup")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, attribute)
}

func (h *AttributeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req AttributeRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	attribute, err := h.attributeService.Update(r.Context(), id, req.toInput())
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Attribute update")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, attribute)
}

func (h *AttributeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.attributeService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, err, h.logger, "Attribute deletion")
		return
	}

	h.logger.Info("Attribute deleted", zap.String("attribute_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
