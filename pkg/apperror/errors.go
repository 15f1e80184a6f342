package apperror

import (
	"errors"
	"net/http"
)

// Kind is a stable machine-readable error category for console clients
type Kind string

const (
	KindGeneric                Kind = ""
	KindMissingBusinessContext Kind = "missing_business_context"
	KindAccessDenied           Kind = "access_denied"
	KindEmptyCart              Kind = "empty_cart"
	KindPaymentMethodRequired  Kind = "payment_method_required"
	KindOrderRequired          Kind = "order_required"
	KindInsufficientTender     Kind = "insufficient_tender"
	KindOrderReadOnly          Kind = "order_read_only"
	KindItemNotFound           Kind = "item_not_found"
	KindSessionExpired         Kind = "session_expired"
	KindUpstream               Kind = "upstream"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches errors of the same kind, so errors.Is(err, ErrEmptyCart) holds
// for any empty-cart error regardless of message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Kind != KindGeneric {
		return e.Kind == t.Kind
	}
	return e == t
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}

	// Sale workflow errors
	ErrMissingBusinessContext = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindMissingBusinessContext, Message: "User has no business or branch association"}
	ErrAccessDenied           = &AppError{Code: http.StatusForbidden, Kind: KindAccessDenied, Message: "Order belongs to another cashier"}
	ErrEmptyCart              = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindEmptyCart, Message: "Cart is empty"}
	ErrPaymentMethodRequired  = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindPaymentMethodRequired, Message: "Select a payment method"}
	ErrOrderRequired          = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindOrderRequired, Message: "No active order for this sale"}
	ErrInsufficientTender     = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindInsufficientTender, Message: "Amount tendered is less than the total"}
	ErrOrderReadOnly          = &AppError{Code: http.StatusConflict, Kind: KindOrderReadOnly, Message: "Order can no longer be modified"}
	ErrItemNotFound           = &AppError{Code: http.StatusNotFound, Kind: KindItemNotFound, Message: "Item is not in the order"}
	ErrSessionExpired         = &AppError{Code: http.StatusUnauthorized, Kind: KindSessionExpired, Message: "Session expired, please sign in again"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewUpstreamError wraps an error reported by the POS backend
func NewUpstreamError(code int, message string) *AppError {
	if code < 400 {
		code = http.StatusBadGateway
	}
	return &AppError{
		Code:    code,
		Kind:    KindUpstream,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
