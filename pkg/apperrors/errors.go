package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error is an application error carrying the HTTP status it maps to.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap attaches a cause to a sentinel without mutating it.
func Wrap(sentinel *Error, err error) *Error {
	return &Error{Code: sentinel.Code, Message: sentinel.Message, Err: err}
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden      = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
	ErrUpstream       = New(http.StatusBadGateway, "Upstream service error", nil)
)

// Storefront error types
var (
	ErrLoginRequired   = New(http.StatusUnauthorized, "Please log in to continue", nil)
	ErrValidation      = New(http.StatusBadRequest, "Validation error", nil)
	ErrInvalidQuantity = New(http.StatusBadRequest, "Quantity must be at least 1", nil)
	ErrEmptyCart       = New(http.StatusConflict, "Your cart is empty", nil)
	ErrPaymentFailed   = New(http.StatusPaymentRequired, "Payment failed or was cancelled. Please try again.", nil)
	ErrInvalidOTP      = New(http.StatusUnauthorized, "Invalid OTP", nil)
	ErrResendCooldown  = New(http.StatusTooManyRequests, "Please wait before requesting another code", nil)
)

// FieldValidation carries per-field validation messages keyed by the JSON
// field name, so the client can highlight individual inputs.
type FieldValidation struct {
	Fields map[string]string
}

func (e *FieldValidation) Error() string {
	return "validation failed"
}

func NewFieldValidation(fields map[string]string) *FieldValidation {
	return &FieldValidation{Fields: fields}
}

// HandleError writes err to the gin context as a JSON response, mapping
// unknown errors to a 500. Controllers use this at their boundary so network
// failures always surface as a user-facing string (there is no retry layer).
func HandleError(c *gin.Context, err error) {
	var fieldErr *FieldValidation
	if errors.As(err, &fieldErr) {
		c.JSON(ErrValidation.Code, gin.H{"error": ErrValidation.Message, "fields": fieldErr.Fields})
		return
	}
	var appErr *Error
	if !errors.As(err, &appErr) {
		appErr = Wrap(ErrInternalServer, err)
	}
	switch {
	case appErr.Code == ErrLoginRequired.Code && appErr.Message == ErrLoginRequired.Message:
		// Contract the client keys its login modal off.
		c.JSON(appErr.Code, gin.H{"error": appErr.Message, "login_required": true})
	case appErr.Code == ErrEmptyCart.Code && appErr.Message == ErrEmptyCart.Message:
		c.JSON(appErr.Code, gin.H{"error": appErr.Message, "continue_shopping": true})
	default:
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
	}
}

// ErrorMiddleware converts errors attached to the gin context into JSON
// responses after the handler chain runs.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *Error
			if !errors.As(err, &appErr) {
				appErr = Wrap(ErrInternalServer, err)
			}
			c.JSON(appErr.Code, gin.H{"error": appErr.Message})
			c.Abort()
		}
	}
}
