package delivery

import (
	"errors"
	"net/http"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  string            `json:"Status"`
	Message string            `json:"Message"`
	Data    interface{}       `json:"Data,omitempty"`
	Fields  map[string]string `json:"Fields,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

// FailWithError writes the error envelope for a use case error. Validation
// failures carry their per-field messages, server side failures never leak
// their cause.
func FailWithError(c *gin.Context, prefix string, err error) {
	statusCode := mapErrorToStatus(err)

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		c.AbortWithStatusJSON(statusCode, Response{
			Status:  "Fail",
			Message: prefix + ": validation failed",
			Fields:  vErr.Fields,
		})
		return
	}

	message := err.Error()
	if statusCode >= http.StatusInternalServerError {
		message = publicMessage(err)
	}
	c.AbortWithStatusJSON(statusCode, Response{
		Status:  "Fail",
		Message: prefix + ": " + message,
	})
}

func publicMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrOrderItemPersistence,
		domain.ErrOrderPersistence,
		domain.ErrPaymentSession,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return domain.ErrPersistence.Error()
}

func mapErrorToStatus(err error) int {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuthenticationRequired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrDuplicateCheckout),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPaymentSession):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
