package delivery

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	useCase usecase.CatalogUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.CatalogUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/latest", h.LatestProducts)
		products.GET("/featured", h.FeaturedProducts)
		products.GET("/:id", h.GetProduct)
		products.GET("/:id/related", h.RelatedProducts)
	}
}

// queryLimit returns 0 when the parameter is absent so the use case default
// applies.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, false
	}
	return limit, true
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "ListProducts")

	params := usecase.CatalogParams{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	products, err := h.useCase.ListProducts(ctx, params)
	if err != nil {
		handlerLogger.Errorf("Failed to list products: %v", err)
		FailWithError(c, "Failed to retrieve products", err)
		return
	}

	if products == nil {
		products = []domain.Product{}
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) LatestProducts(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "LatestProducts")

	limit, ok := queryLimit(c)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid limit parameter")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	products, err := h.useCase.LatestProducts(ctx, limit)
	if err != nil {
		handlerLogger.Errorf("Failed to list latest products: %v", err)
		FailWithError(c, "Failed to retrieve products", err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) FeaturedProducts(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "FeaturedProducts")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	products, err := h.useCase.FeaturedProducts(ctx)
	if err != nil {
		handlerLogger.Errorf("Failed to list featured products: %v", err)
		FailWithError(c, "Failed to retrieve products", err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "GetProduct", "product_id": id})

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := h.useCase.GetProduct(ctx, id)
	if err != nil {
		handlerLogger.Warnf("Failed to get product: %v", err)
		FailWithError(c, "Failed to retrieve product", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) RelatedProducts(c *gin.Context) {
	id := c.Param("id")
	handlerLogger := h.log.WithFields(logrus.Fields{"handler": "RelatedProducts", "product_id": id})

	limit, ok := queryLimit(c)
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "Invalid limit parameter")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	products, err := h.useCase.RelatedProducts(ctx, id, limit)
	if err != nil {
		handlerLogger.Warnf("Failed to select related products: %v", err)
		FailWithError(c, "Failed to retrieve related products", err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	SuccessResponse(c, http.StatusOK, "Related products retrieved successfully", products)
}
