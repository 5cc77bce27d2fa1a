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

type ProfileHandler struct {
	profiles usecase.ProfileUseCase
	carts    usecase.CartUseCase
	log      *logrus.Logger
}

func NewProfileHandler(profiles usecase.ProfileUseCase, carts usecase.CartUseCase, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		carts:    carts,
		log:      logger,
	}
}

func (h *ProfileHandler) RegisterRoutes(router gin.IRouter) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PATCH("", h.UpdateProfile)
		profile.GET("/orders", h.OrderHistory)
		profile.POST("/orders/:id/reorder", h.Reorder)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	caller := callerFrom(c)
	handlerLogger := h.log.WithField("handler", "GetProfile")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.profiles.GetProfile(ctx, caller)
	if err != nil {
		handlerLogger.Errorf("Failed to load profile: %v", err)
		FailWithError(c, "Failed to retrieve profile", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	caller := callerFrom(c)
	handlerLogger := h.log.WithField("handler", "UpdateProfile")

	var update domain.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		handlerLogger.Warnf("Failed to bind JSON for profile update: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.profiles.UpdateProfile(ctx, caller, update)
	if err != nil {
		handlerLogger.Warnf("Failed to update profile: %v", err)
		FailWithError(c, "Failed to update profile", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile updated successfully", profile)
}

func (h *ProfileHandler) OrderHistory(c *gin.Context) {
	caller := callerFrom(c)
	handlerLogger := h.log.WithField("handler", "OrderHistory")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.profiles.OrderHistory(ctx, caller)
	if err != nil {
		handlerLogger.Errorf("Failed to load order history: %v", err)
		FailWithError(c, "Failed to retrieve orders", err)
		return
	}

	if len(orders) == 0 {
		SuccessResponse(c, http.StatusOK, "No orders found for this user", []domain.Order{})
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *ProfileHandler) Reorder(c *gin.Context) {
	caller := callerFrom(c)
	orderID := c.Param("id")
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "Reorder", "order_id": orderID})

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	result, err := h.carts.Reorder(ctx, caller, orderID)
	if err != nil {
		handlerLogger.Warnf("Failed to reorder: %v", err)
		FailWithError(c, "Failed to reorder", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Items added to cart", result)
}
