package delivery

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterDeps struct {
	Identity domain.IdentityOracle
	Policy   usecase.Authorizer
	Catalog  usecase.CatalogUseCase
	Cart     usecase.CartUseCase
	Checkout usecase.CheckoutUseCase
	Profile  usecase.ProfileUseCase
	Admin    usecase.AdminUseCase
}

func NewRouter(deps RouterDeps, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	NewProductHandler(deps.Catalog, logger).RegisterRoutes(router)

	authed := router.Group("")
	authed.Use(AuthMiddleware(deps.Identity, logger))
	{
		NewCartHandler(deps.Cart, logger).RegisterRoutes(authed)
		NewCheckoutHandler(deps.Checkout, logger).RegisterRoutes(authed)
		NewProfileHandler(deps.Profile, deps.Cart, logger).RegisterRoutes(authed)
	}

	admin := authed.Group("")
	admin.Use(RequireAdmin(deps.Policy, logger))
	NewAdminHandler(deps.Admin, logger).RegisterRoutes(admin)

	logger.Info("Routes registered.")
	return router
}
