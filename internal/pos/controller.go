package pos

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"radagast/internal/domain"
	apperrors "radagast/internal/errors"
)

type Controller struct {
	register      *Register
	logger        *zap.Logger
	receiptHeader string
}

func NewController(register *Register, logger *zap.Logger, receiptHeader string) *Controller {
	return &Controller{
		register:      register,
		logger:        logger,
		receiptHeader: receiptHeader,
	}
}

func (c *Controller) MountRoutes(r chi.Router) {
	r.Get("/cart", c.HandleGetCart)
	r.Post("/cart/items", c.HandleAddItem)
	r.Put("/cart/items/{index}", c.HandleSetQuantity)
	r.Delete("/cart/items/{index}", c.HandleRemoveItem)
	r.Put("/cart/discount", c.HandleSetDiscount)
	r.Put("/cart/tax", c.HandleSetTax)
	r.Put("/cart/payment", c.HandleSetPayment)
	r.Post("/checkout", c.HandleCheckout)
	r.Get("/sales", c.HandleListSales)
	r.Get("/sales/summary", c.HandleSummary)
	r.Get("/sales/{id}", c.HandleGetSale)
	r.Get("/sales/{id}/receipt", c.HandleReceipt)
	r.Post("/sales/{id}/refund", c.HandleRefund)
}

func (c *Controller) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, cartResponse(c.register.Cart()))
}

func (c *Controller) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	if req.ProductID <= 0 {
		c.writeValidationError(w, "invalid productId", apperrors.ValidationDetail{
			Field:   "productId",
			Message: "productId must be a positive integer",
		})
		return
	}

	cart, err := c.register.AddProduct(req.ProductID)
	if err != nil {
		c.handleRegisterError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, cartResponse(cart))
}

func (c *Controller) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	index, ok := c.lineIndex(w, r)
	if !ok {
		return
	}

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	cart, err := c.register.SetLineQuantity(index, req.Quantity)
	if err != nil {
		c.handleRegisterError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, cartResponse(cart))
}

func (c *Controller) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	index, ok := c.lineIndex(w, r)
	if !ok {
		return
	}

	cart, err := c.register.RemoveLine(index)
	if err != nil {
		c.handleRegisterError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, cartResponse(cart))
}

func (c *Controller) HandleSetDiscount(w http.ResponseWriter, r *http.Request) {
	var req SetDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	cart, err := c.register.SetDiscount(domain.DiscountType(req.DiscountType), req.DiscountValue)
	if err != nil {
		c.handleRegisterError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, cartResponse(cart))
}

func (c *Controller) HandleSetTax(w http.ResponseWriter, r *http.Request) {
	var req SetTaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	cart, err := c.register.SetTaxPercent(req.TaxPercent)
	if err != nil {
		c.handleRegisterError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, cartResponse(cart))
}

func (c *Controller) HandleSetPayment(w http.ResponseWriter, r *http.Request) {
	var req SetPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	cart, err := c.register.SetPayment(domain.PaymentMethod(req.PaymentMethod), req.CashGiven)
	if err != nil {
		c.handleRegisterError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, cartResponse(cart))
}

func (c *Controller) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	sale, err := c.register.Checkout(r.Context())
	if err != nil {
		c.handleCheckoutError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, CheckoutResponse{
		TraceID:   traceID,
		Sale:      sale,
		Timestamp: time.Now().UTC(),
	})
}

func (c *Controller) HandleListSales(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, c.register.Sales())
}

func (c *Controller) HandleSummary(w http.ResponseWriter, r *http.Request) {
	c.writeJSON(w, http.StatusOK, c.register.Summarize())
}

func (c *Controller) HandleGetSale(w http.ResponseWriter, r *http.Request) {
	sale, ok := c.register.SaleByID(chi.URLParam(r, "id"))
	if !ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", "sale not found")
		return
	}
	c.writeJSON(w, http.StatusOK, sale)
}

func (c *Controller) HandleReceipt(w http.ResponseWriter, r *http.Request) {
	sale, ok := c.register.SaleByID(chi.URLParam(r, "id"))
	if !ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", "sale not found")
		return
	}

	receipt, err := RenderReceipt(c.receiptHeader, sale)
	if err != nil {
		c.logger.Error("rendering receipt failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to render receipt")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(receipt))
}

func (c *Controller) HandleRefund(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	saleID := chi.URLParam(r, "id")

	sale, err := c.register.Refund(r.Context(), saleID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		if _, ok := apperrors.IsAlreadyRefundedError(err); ok {
			c.writeError(w, http.StatusConflict, "ALREADY_REFUNDED", err.Error())
			return
		}
		if _, ok := apperrors.IsStorageError(err); ok {
			logger.Error("refund persistence failed", zap.Error(err))
			c.writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to persist refund")
			return
		}
		logger.Error("refund failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
		return
	}

	c.writeJSON(w, http.StatusOK, sale)
}

func (c *Controller) handleCheckoutError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if _, ok := apperrors.IsEmptyCartError(err); ok {
		c.writeError(w, http.StatusUnprocessableEntity, "EMPTY_CART", err.Error())
		return
	}
	if _, ok := apperrors.IsInsufficientPaymentError(err); ok {
		c.writeError(w, http.StatusUnprocessableEntity, "INSUFFICIENT_PAYMENT", err.Error())
		return
	}
	if _, ok := apperrors.IsStorageError(err); ok {
		logger.Error("checkout persistence failed", zap.Error(err))
		c.writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "failed to persist sale")
		return
	}
	logger.Error("checkout failed", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *Controller) handleRegisterError(w http.ResponseWriter, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	c.logger.Error("cart operation failed", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *Controller) lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		c.writeValidationError(w, "invalid line index", apperrors.ValidationDetail{
			Field:   "index",
			Message: "index must be a non-negative integer",
		})
		return 0, false
	}
	return index, true
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
