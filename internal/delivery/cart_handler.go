package delivery

import (
	"context"
	"net/http"
	"time"

	"storefront/internal/domain"
	"storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CartHandler struct {
	useCase usecase.CartUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc usecase.CartUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterRoutes expects router to be behind AuthMiddleware.
func (h *CartHandler) RegisterRoutes(router gin.IRouter) {
	cart := router.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:id", h.UpdateQuantity)
		cart.DELETE("/items/:id", h.RemoveItem)
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	caller := callerFrom(c)
	handlerLogger := h.log.WithField("handler", "GetCart")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	summary, err := h.useCase.GetCart(ctx, caller)
	if err != nil {
		handlerLogger.Errorf("Failed to load cart: %v", err)
		FailWithError(c, "Failed to retrieve cart", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", summary)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	caller := callerFrom(c)
	handlerLogger := h.log.WithField("handler", "AddItem")

	var input domain.AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlerLogger.Warnf("Failed to bind JSON for add to cart: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.useCase.AddItem(ctx, caller, input)
	if err != nil {
		handlerLogger.Warnf("Failed to add product %s to cart: %v", input.ProductID, err)
		FailWithError(c, "Failed to add item to cart", err)
		return
	}
	SuccessResponse(c, http.StatusCreated, "Item added to cart", item)
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	caller := callerFrom(c)
	itemID := c.Param("id")
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "UpdateQuantity", "cart_item_id": itemID})

	var input domain.UpdateCartQuantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlerLogger.Warnf("Failed to bind JSON for cart quantity: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	item, err := h.useCase.UpdateQuantity(ctx, caller, itemID, input)
	if err != nil {
		handlerLogger.Warnf("Failed to update cart quantity: %v", err)
		FailWithError(c, "Failed to update cart item", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart item updated", item)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	caller := callerFrom(c)
	itemID := c.Param("id")
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "RemoveItem", "cart_item_id": itemID})

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.useCase.RemoveItem(ctx, caller, itemID); err != nil {
		handlerLogger.Warnf("Failed to remove cart item: %v", err)
		FailWithError(c, "Failed to remove cart item", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart item removed", nil)
}
