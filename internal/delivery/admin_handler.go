package delivery

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	useCase usecase.AdminUseCase
	log     *logrus.Logger
	now     func() time.Time
}

func NewAdminHandler(uc usecase.AdminUseCase, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		useCase: uc,
		log:     logger,
		now:     time.Now,
	}
}

// RegisterRoutes expects router to be behind AuthMiddleware and
// RequireAdmin. The use case checks the role again on every call.
func (h *AdminHandler) RegisterRoutes(router gin.IRouter) {
	admin := router.Group("/admin")
	{
		admin.POST("/products", h.CreateProduct)
		admin.PATCH("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)
		admin.GET("/orders", h.ListOrders)
		admin.PATCH("/orders/:id", h.UpdateOrderStatus)
		admin.GET("/users", h.ListUsers)
		admin.PATCH("/users/:id/role", h.ChangeUserRole)
		admin.GET("/dashboard", h.Dashboard)
	}
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	caller := callerFrom(c)
	handlerLogger := h.log.WithField("handler", "AdminCreateProduct")

	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlerLogger.Warnf("Failed to bind JSON for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := h.useCase.CreateProduct(ctx, caller, input)
	if err != nil {
		handlerLogger.Warnf("Failed to create product '%s': %v", input.Name, err)
		FailWithError(c, "Failed to create product", err)
		return
	}

	handlerLogger.Infof("Product created: ID %s, Name %s", product.ID, product.Name)
	SuccessResponse(c, http.StatusCreated, "Product created successfully", product)
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	caller := callerFrom(c)
	id := c.Param("id")
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "AdminUpdateProduct", "product_id": id})

	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		handlerLogger.Warnf("Failed to bind JSON for update product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := h.useCase.UpdateProduct(ctx, caller, id, input)
	if err != nil {
		handlerLogger.Warnf("Failed to update product: %v", err)
		FailWithError(c, "Failed to update product", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product updated successfully", product)
}

func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	caller := callerFrom(c)
	id := c.Param("id")
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "AdminDeleteProduct", "product_id": id})

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.useCase.DeleteProduct(ctx, caller, id); err != nil {
		handlerLogger.Warnf("Failed to delete product: %v", err)
		FailWithError(c, "Failed to delete product", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	caller := callerFrom(c)
	status := c.DefaultQuery("status", "all")
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "AdminListOrders", "status": status})

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	orders, err := h.useCase.ListOrders(ctx, caller, status)
	if err != nil {
		handlerLogger.Errorf("Failed to list orders: %v", err)
		FailWithError(c, "Failed to retrieve orders", err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	caller := callerFrom(c)
	id := c.Param("id")
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "AdminUpdateOrderStatus", "order_id": id})

	var updateRequest struct {
		Status *domain.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&updateRequest); err != nil {
		handlerLogger.Warnf("Failed to bind JSON for order status: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if updateRequest.Status == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'status' field is required")
		return
	}
	if !domain.IsValidStatus(*updateRequest.Status) {
		ErrorResponse(c, http.StatusBadRequest, fmt.Sprintf("Invalid request body: invalid status value '%s'", *updateRequest.Status))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	order, err := h.useCase.UpdateOrderStatus(ctx, caller, id, *updateRequest.Status)
	if err != nil {
		handlerLogger.Warnf("Failed to update order status: %v", err)
		FailWithError(c, "Failed to update order status", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Order status updated successfully", order)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	caller := callerFrom(c)
	handlerLogger := h.log.WithField("handler", "AdminListUsers")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.useCase.ListUsers(ctx, caller)
	if err != nil {
		handlerLogger.Errorf("Failed to list users: %v", err)
		FailWithError(c, "Failed to retrieve users", err)
		return
	}
	if users == nil {
		users = []domain.Profile{}
	}
	SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}

func (h *AdminHandler) ChangeUserRole(c *gin.Context) {
	caller := callerFrom(c)
	userID := c.Param("id")
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "AdminChangeUserRole", "user_id": userID})

	var change domain.RoleChange
	if err := c.ShouldBindJSON(&change); err != nil {
		handlerLogger.Warnf("Failed to bind JSON for role change: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.useCase.ChangeUserRole(ctx, caller, userID, change)
	if err != nil {
		handlerLogger.Warnf("Failed to change role: %v", err)
		FailWithError(c, "Failed to change user role", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "User role updated successfully", profile)
}

// Dashboard defaults to the current month when month or year is omitted.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	caller := callerFrom(c)
	handlerLogger := h.log.WithField("handler", "AdminDashboard")

	now := h.now()
	month, err := intQuery(c, "month", int(now.Month()))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid month parameter")
		return
	}
	year, err := intQuery(c, "year", now.Year())
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid year parameter")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stats, err := h.useCase.Dashboard(ctx, caller, month, year)
	if err != nil {
		handlerLogger.Warnf("Failed to build dashboard for %d/%d: %v", month, year, err)
		FailWithError(c, "Failed to retrieve dashboard", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Dashboard retrieved successfully", stats)
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
