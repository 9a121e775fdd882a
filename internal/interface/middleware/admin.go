package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/robyajo/api-conatct/pkg/response"
)

// RequireAdmin gates admin routes on the session's resolved primary role.
// This is the coarse role-level check; per-user permission grants are not
// consulted here.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxUserRoleKey)
		if role != "admin" && role != "super_admin" {
			response.Error[any](c, http.StatusForbidden, "admin access required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
