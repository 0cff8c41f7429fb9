package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/AijiY/StudentManagement/internal/models"
	appErrors "github.com/AijiY/StudentManagement/pkg/errors"
	"github.com/AijiY/StudentManagement/pkg/response"
)

// RequireRoles admits only requests whose claims carry one of roles. It must
// run after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
