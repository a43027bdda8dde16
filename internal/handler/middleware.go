package handler

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/suprema-shop/auth-service/internal/apperrors"
	"github.com/suprema-shop/auth-service/internal/domain"
	"github.com/suprema-shop/auth-service/internal/dto"
	"github.com/suprema-shop/auth-service/internal/service"
)

const userContextKey = "user"

// Authenticate resolves the caller from the Authorization header and stores
// the user on the request context. A missing or malformed header is a 403;
// a bad, expired or stale token surfaces the service's own status.
func Authenticate(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error:   "Forbidden",
				Message: "You must login to continue",
			})
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			appErr := apperrors.From(err)
			c.AbortWithStatusJSON(appErr.Status, dto.ErrorResponse{
				Error:   appErr.Code,
				Message: appErr.Message,
			})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
// Must run after Authenticate.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !slices.Contains(roles, user.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error:   "Forbidden",
				Message: "Permission denied!",
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user placed by Authenticate.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}
