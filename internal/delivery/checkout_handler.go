package delivery

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const idempotencyHeader = "Idempotency-Key"

type CheckoutHandler struct {
	useCase usecase.CheckoutUseCase
	log     *logrus.Logger
}

func NewCheckoutHandler(uc usecase.CheckoutUseCase, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CheckoutHandler) RegisterRoutes(router gin.IRouter) {
	checkout := router.Group("/checkout")
	{
		checkout.POST("", h.Checkout)
		checkout.POST("/success", h.CompleteCheckout)
	}
}

// Checkout places an order from the caller's cart and returns the hosted
// payment page to redirect to.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	caller := callerFrom(c)
	idemKey := strings.TrimSpace(c.GetHeader(idempotencyHeader))
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "Checkout", "idempotency_key": idemKey})

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	result, err := h.useCase.CheckoutCart(ctx, caller, idemKey)
	if err != nil {
		handlerLogger.Errorf("Checkout failed: %v", err)
		FailWithError(c, "Checkout failed", err)
		return
	}

	handlerLogger.Infof("Order %s placed, redirecting to payment", result.OrderID)
	SuccessResponse(c, http.StatusCreated, "Checkout session created", result)
}

func (h *CheckoutHandler) CompleteCheckout(c *gin.Context) {
	caller := callerFrom(c)
	orderID := c.Query("order_id")
	handlerLogger := h.log.WithFields(logrus.Fields{
		"handler":    "CompleteCheckout",
		"order_id":   orderID,
		"session_id": c.Query("session_id"),
	})

	if orderID == "" {
		ErrorResponse(c, http.StatusBadRequest, "order_id query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := h.useCase.CompleteCheckout(ctx, caller, orderID)
	if err != nil {
		handlerLogger.Warnf("Failed to complete checkout: %v", err)
		FailWithError(c, "Failed to complete checkout", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order completed", order)
}
