package transport

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"product-catalog/internal/domain"
	"product-catalog/internal/middleware"
	"product-catalog/internal/repository/memory"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiFixture struct {
	t      *testing.T
	router chi.Router
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	store := memory.New()
	router := chi.NewRouter()
	NewHandlers(store.Repositories(), store, zap.NewNop()).RegisterRoutes(router)

	return &apiFixture{t: t, router: router}
}

func (a *apiFixture) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		encoded, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *apiFixture) createCategory(name string) string {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/categories", map[string]interface{}{"name": name})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[domain.Category](a.t, w).ID.String()
}

func (a *apiFixture) createAttribute(name string, variant bool) string {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/attributes", map[string]interface{}{"name": name, "is_variant": variant})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[domain.Attribute](a.t, w).ID.String()
}

func (a *apiFixture) createProduct(body map[string]interface{}) domain.Product {
	a.t.Helper()

	w := a.do(http.MethodPost, "/api/products", body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[domain.Product](a.t, w)
}

func productBody(categoryID, baseCode, sku string, quantity int, attributes ...map[string]string) map[string]interface{} {
	if attributes == nil {
		attributes = []map[string]string{}
	}
	return map[string]interface{}{
		"base_code":   baseCode,
		"sku":         sku,
		"name":        "Product " + sku,
		"price":       "19.99",
		"quantity":    quantity,
		"category_id": categoryID,
		"attributes":  attributes,
	}
}

func attr(id, value string) map[string]string {
	return map[string]string{"attribute_id": id, "value": value}
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorDetail {
	t.Helper()
	return decodeBody[middleware.ErrorResponse](t, w).Error
}
