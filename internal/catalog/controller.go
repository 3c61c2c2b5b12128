package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
)

type Controller struct {
	store  *Store
	logger *zap.Logger
}

func NewController(store *Store, logger *zap.Logger) *Controller {
	return &Controller{
		store:  store,
		logger: logger,
	}
}

func (c *Controller) MountRoutes(r chi.Router) {
	r.Get("/products", c.HandleListProducts)
	r.Post("/products", c.HandleCreateProduct)
	r.Put("/products/{id}", c.HandleUpdateProduct)
	r.Delete("/products/{id}", c.HandleDeleteProduct)
	r.Get("/ingredients", c.HandleListIngredients)
	r.Post("/ingredients", c.HandleUpsertIngredient)
	r.Put("/ingredients/{name}/stock", c.HandleSetStock)
	r.Post("/import", c.HandleImportCSV)
	r.Get("/export", c.HandleExportCSV)
}

func (c *Controller) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products := c.store.Products()

	q := r.URL.Query()
	category := q.Get("category")
	search := strings.ToLower(strings.TrimSpace(q.Get("q")))
	availableOnly := q.Get("availableOnly") == "true"

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if availableOnly && p.Status != domain.StatusAvailable {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if search != "" {
			hay := strings.ToLower(p.Name + " " + p.Category + " " + p.Barcode)
			if !strings.Contains(hay, search) {
				continue
			}
		}
		filtered = append(filtered, p)
	}

	c.writeJSON(w, http.StatusOK, filtered)
}

func (c *Controller) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateProductRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	stored, err := c.store.UpsertProduct(r.Context(), productFromRequest(0, req))
	if err != nil {
		c.handleStoreError(w, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, stored)
}

func (c *Controller) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.writeValidationError(w, "invalid product id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		})
		return
	}

	if _, ok := c.store.ProductByID(id); !ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", "product not found")
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateProductRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	stored, err := c.store.UpsertProduct(r.Context(), productFromRequest(id, req))
	if err != nil {
		c.handleStoreError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, stored)
}

func (c *Controller) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		c.writeValidationError(w, "invalid product id", apperrors.ValidationDetail{
			Field:   "id",
			Message: "id must be a positive integer",
		})
		return
	}

	if err := c.store.RemoveProduct(r.Context(), id); err != nil {
		c.handleStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) HandleListIngredients(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, c.store.Ingredients())
}

func (c *Controller) HandleUpsertIngredient(w http.ResponseWriter, r *http.Request) {
	var req IngredientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	var details []apperrors.ValidationDetail
	if strings.TrimSpace(req.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if req.AvailableQuantity < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "availableQuantity", Message: "availableQuantity must be non-negative"})
	}
	if len(details) > 0 {
		c.writeValidationError(w, "validation failed", details...)
		return
	}

	ing := domain.Ingredient{
		Name:              strings.TrimSpace(req.Name),
		StockUnit:         req.StockUnit,
		AvailableQuantity: req.AvailableQuantity,
	}
	if err := c.store.UpsertIngredient(r.Context(), ing); err != nil {
		c.handleStoreError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, ing)
}

func (c *Controller) HandleSetStock(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req SetStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.AvailableQuantity < 0 {
		c.writeValidationError(w, "invalid stock quantity", apperrors.ValidationDetail{
			Field:   "availableQuantity",
			Message: "availableQuantity must be non-negative",
		})
		return
	}

	if err := c.store.SetIngredientStock(r.Context(), name, req.AvailableQuantity); err != nil {
		c.handleStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) HandleImportCSV(w http.ResponseWriter, r *http.Request) {
	products, err := ParseProductsCSV(r.Body)
	if err != nil {
		c.writeValidationError(w, "invalid CSV payload", apperrors.ValidationDetail{
			Field:   "body",
			Message: err.Error(),
		})
		return
	}

	count, err := c.store.ImportProducts(r.Context(), products)
	if err != nil {
		c.handleStoreError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, ImportResponse{Imported: count})
}

func (c *Controller) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products.csv"`)

	if err := WriteProductsCSV(w, c.store.Products()); err != nil {
		c.logger.Error("exporting products csv", zap.Error(err))
	}
}

func validateProductRequest(req ProductRequest) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.Name) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "name", Message: "name is required"})
	}
	if req.Price < 0 {
		details = append(details, apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"})
	}
	for idx, line := range req.Recipe {
		if strings.TrimSpace(line.IngredientName) == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "recipe[" + strconv.Itoa(idx) + "].ingredientName",
				Message: "ingredientName is required",
			})
		}
		if line.Quantity <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "recipe[" + strconv.Itoa(idx) + "].quantity",
				Message: "quantity must be positive",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

func productFromRequest(id int64, req ProductRequest) domain.Product {
	recipe := make([]domain.RecipeLine, len(req.Recipe))
	for i, line := range req.Recipe {
		recipe[i] = domain.RecipeLine{
			IngredientName: strings.TrimSpace(line.IngredientName),
			Quantity:       line.Quantity,
		}
	}
	return domain.Product{
		ID:       id,
		Name:     strings.TrimSpace(req.Name),
		Category: strings.TrimSpace(req.Category),
		Price:    req.Price,
		ImageRef: req.ImageURL,
		Barcode:  strings.TrimSpace(req.Barcode),
		Recipe:   recipe,
	}
}

func (c *Controller) handleStoreError(w http.ResponseWriter, err error) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsStorageError(err); ok {
		c.logger.Error("catalog persistence failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to persist catalog")
		return
	}
	c.logger.Error("catalog operation failed", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
