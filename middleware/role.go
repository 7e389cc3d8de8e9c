package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/utils"
)

// AdminRequired allows only company admins past. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role, exists := ctx.Get(ContextRoleKey)
		if !exists || role != models.RoleAdmin {
			utils.Error(ctx, http.StatusForbidden, 40301, "admin role required")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
