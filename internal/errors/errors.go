package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nfe, ok := err.(*NotFoundError); ok {
		return nfe, true
	}
	return nil, false
}

// EmptyCartError is returned when a checkout is attempted with no lines in
// the cart.
type EmptyCartError struct {
	Message string
}

func (e *EmptyCartError) Error() string {
	return e.Message
}

func NewEmptyCartError() *EmptyCartError {
	return &EmptyCartError{Message: "cart is empty"}
}

func IsEmptyCartError(err error) (*EmptyCartError, bool) {
	if ece, ok := err.(*EmptyCartError); ok {
		return ece, true
	}
	return nil, false
}

// InsufficientPaymentError is returned when a cash payment does not cover
// the cart total.
type InsufficientPaymentError struct {
	Message string
	Total   float64
	Given   float64
}

func (e *InsufficientPaymentError) Error() string {
	return e.Message
}

func NewInsufficientPaymentError(total, given float64) *InsufficientPaymentError {
	return &InsufficientPaymentError{
		Message: fmt.Sprintf("insufficient cash: %.2f given, %.2f due", given, total),
		Total:   total,
		Given:   given,
	}
}

func IsInsufficientPaymentError(err error) (*InsufficientPaymentError, bool) {
	if ipe, ok := err.(*InsufficientPaymentError); ok {
		return ipe, true
	}
	return nil, false
}

// AlreadyRefundedError is returned when a refund is attempted on a sale
// whose refund transition has already happened.
type AlreadyRefundedError struct {
	Message string
	SaleID  string
}

func (e *AlreadyRefundedError) Error() string {
	return e.Message
}

func NewAlreadyRefundedError(saleID string) *AlreadyRefundedError {
	return &AlreadyRefundedError{
		Message: fmt.Sprintf("sale %s is already refunded", saleID),
		SaleID:  saleID,
	}
}

func IsAlreadyRefundedError(err error) (*AlreadyRefundedError, bool) {
	if are, ok := err.(*AlreadyRefundedError); ok {
		return are, true
	}
	return nil, false
}

// StorageError wraps a persistence write failure. Read-side decode
// problems are not StorageErrors: malformed stored data degrades to an
// empty collection instead.
type StorageError struct {
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

func NewStorageError(message string, cause error) *StorageError {
	return &StorageError{Message: message, Cause: cause}
}

func IsStorageError(err error) (*StorageError, bool) {
	if se, ok := err.(*StorageError); ok {
		return se, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

func IsInternalError(err error) (*InternalError, bool) {
	if ie, ok := err.(*InternalError); ok {
		return ie, true
	}
	return nil, false
}
