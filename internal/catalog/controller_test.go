package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"radagast/internal/domain"
	"radagast/internal/storage"
)

func newTestHandler(t *testing.T) (*Store, http.Handler) {
	t.Helper()
	collections := storage.NewCollections(storage.NewMemoryKV())
	store, ctrl := NewModule(collections, zap.NewNop(), false)
	require.NoError(t, store.Load(context.Background()))

	r := chi.NewRouter()
	ctrl.MountRoutes(r)
	return store, r
}

func doRequest(handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleCreateProduct(t *testing.T) {
	store, handler := newTestHandler(t)
	require.NoError(t, store.UpsertIngredient(context.Background(),
		domain.Ingredient{Name: "Basil", StockUnit: "g", AvailableQuantity: 10}))

	body := `{"name":"Basil Bread","category":"Bread","price":90,"recipe":[{"ingredientName":"Basil","quantity":2}]}`
	rec := doRequest(handler, http.MethodPost, "/products", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created domain.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, domain.StatusAvailable, created.Status)
}

func TestHandleCreateProduct_ValidationDetails(t *testing.T) {
	_, handler := newTestHandler(t)

	body := `{"name":"","price":-5,"recipe":[{"ingredientName":"","quantity":0}]}`
	rec := doRequest(handler, http.MethodPost, "/products", body)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	out := rec.Body.String()
	assert.Contains(t, out, "VALIDATION_ERROR")
	assert.Contains(t, out, "name is required")
	assert.Contains(t, out, "price must be non-negative")
	assert.Contains(t, out, "quantity must be positive")
}

func TestHandleListProducts_Filters(t *testing.T) {
	store, handler := newTestHandler(t)
	ctx := context.Background()
	require.NoError(t, store.UpsertIngredient(ctx, domain.Ingredient{Name: "Basil", AvailableQuantity: 10}))
	require.NoError(t, store.UpsertIngredient(ctx, domain.Ingredient{Name: "Flour", AvailableQuantity: 0}))

	_, err := store.UpsertProduct(ctx, domain.Product{Name: "Basil Bread", Category: "Bread", Price: 90, Barcode: "BB-01",
		Recipe: []domain.RecipeLine{{IngredientName: "Basil", Quantity: 1}}})
	require.NoError(t, err)
	_, err = store.UpsertProduct(ctx, domain.Product{Name: "Plain Loaf", Category: "Bread", Price: 50,
		Recipe: []domain.RecipeLine{{IngredientName: "Flour", Quantity: 1}}})
	require.NoError(t, err)

	var products []domain.Product

	rec := doRequest(handler, http.MethodGet, "/products?availableOnly=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Basil Bread", products[0].Name)

	rec = doRequest(handler, http.MethodGet, "/products?q=bb-01", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Basil Bread", products[0].Name)

	rec = doRequest(handler, http.MethodGet, "/products?category=Bread", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	assert.Len(t, products, 2)
}

func TestHandleDeleteProduct_NotFound(t *testing.T) {
	_, handler := newTestHandler(t)

	rec := doRequest(handler, http.MethodDelete, "/products/42", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSetStock(t *testing.T) {
	store, handler := newTestHandler(t)
	require.NoError(t, store.UpsertIngredient(context.Background(),
		domain.Ingredient{Name: "Basil", AvailableQuantity: 10}))

	rec := doRequest(handler, http.MethodPut, "/ingredients/Basil/stock", `{"availableQuantity":3}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 3.0, store.StockSnapshot()["Basil"])

	rec = doRequest(handler, http.MethodPut, "/ingredients/Basil/stock", `{"availableQuantity":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(handler, http.MethodPut, "/ingredients/Nothing/stock", `{"availableQuantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestImportExportRoundTrip(t *testing.T) {
	store, handler := newTestHandler(t)
	require.NoError(t, store.UpsertIngredient(context.Background(),
		domain.Ingredient{Name: "Basil", AvailableQuantity: 10}))

	csv := "name,category,price,imageUrl,recipe,status\n" +
		"Basil Bread,Bread,90,,Basil:2,Available\n"
	rec := doRequest(handler, http.MethodPost, "/import", csv)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"imported":1`)

	rec = doRequest(handler, http.MethodGet, "/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "Basil Bread,Bread,90")
}
