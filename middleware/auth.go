package middleware

import (
	"net/http"
	"strings"

	"fleetbooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware.
const (
	ContextTenantID  = "tenantID"
	ContextUserID    = "userID"
	ContextAuthToken = "authToken"
)

// JWTAuthMiddleware validates the bearer token and stores the caller's tenant,
// user and raw token in the context. The raw token is forwarded to the fleet
// backend on the caller's behalf.
func JWTAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing or invalid Authorization header",
			})
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error:   "unauthorized",
				Message: "Missing or invalid Authorization header",
			})
			return
		}

		claims, err := utils.ExtractClaims(secret, tokenString)
		if err != nil {
			zap.L().Debug("JWTAuthMiddleware: token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid token",
			})
			return
		}

		c.Set(ContextTenantID, claims.TenantID)
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextAuthToken, tokenString)
		c.Next()
	}
}
