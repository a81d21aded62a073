package transport

import (
	"net/http"

	"product-catalog/internal/middleware"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryRequest represents the category create and update payload
type CategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=128"`
	Description *string `json:"description"`
}

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := &query{r: r}
	filter := repository.CategoryFilter{
		Search:   q.String("search"),
		Ordering: q.String("ordering"),
	}

	categories, err := h.categoryService.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Category listing")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	category, err := h.categoryService.Create(r.Context(), service.CategoryInput(req))
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Category creation")
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Category lookup")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req CategoryRequest
	if !decodeRequest(w, r, &req, h.logger) {
		return
	}

	category, err := h.categoryService.Update(r.Context(), id, service.CategoryInput(req))
	if err != nil {
		respondWithServiceError(w, err, h.logger, "Category update")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Delete removes a category; its products go with it
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, err, h.logger, "Category deletion")
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
