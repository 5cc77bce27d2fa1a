package delivery

import (
	"context"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const callerKey = "caller"

// AuthMiddleware verifies the bearer token and stores the resulting caller
// on the gin context.
func AuthMiddleware(oracle domain.IdentityOracle, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Middleware: Authorization header is missing")
			ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			log.Warn("Middleware: Invalid Authorization header format")
			ErrorResponse(c, http.StatusUnauthorized, "Invalid Authorization header format")
			c.Abort()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		caller, err := oracle.Verify(ctx, strings.TrimSpace(parts[1]))
		if err != nil {
			log.Warnf("Middleware: Token rejected: %v", err)
			ErrorResponse(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin(policy usecase.Authorizer, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := callerFrom(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := policy.RequireAdmin(ctx, caller); err != nil {
			log.Warnf("Middleware: Admin access denied for %s: %v", c.Request.URL.Path, err)
			FailWithError(c, "Admin access denied", err)
			return
		}
		c.Next()
	}
}

func callerFrom(c *gin.Context) *domain.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*domain.Caller)
	return caller
}

const requestIDHeader = "X-Request-ID"

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		c.Next()

		statusCode := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"status_code": statusCode,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"remote_ip":   c.ClientIP(),
			"latency_ms":  time.Since(startTime).Milliseconds(),
			"request_id":  reqID,
		})
		if caller := callerFrom(c); caller != nil {
			entry = entry.WithField("user_id", caller.UserID)
		}

		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
		case statusCode >= 500:
			entry.Error("Request completed with server error")
		case statusCode >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}
