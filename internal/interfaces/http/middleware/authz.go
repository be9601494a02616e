package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vendorverse/backend/internal/domain/identity"
	"github.com/vendorverse/backend/internal/interfaces/http/dto"
)

// RequireRole returns middleware that allows only the given roles.
// It must run after JWT authentication so the role claim is present.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r.String()] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetJWTRole(c)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}

		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient role for this operation"))
			return
		}

		c.Next()
	}
}

// RequireSeller allows sellers and admins
func RequireSeller() gin.HandlerFunc {
	return RequireRole(identity.RoleSeller, identity.RoleAdmin)
}

// RequireAdmin allows admins only
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}
