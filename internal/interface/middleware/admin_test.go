package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func runAdminGate(role string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/users",
		func(c *gin.Context) {
			if role != "" {
				c.Set(CtxUserRoleKey, role)
			}
		},
		RequireAdmin(),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/users", nil))
	return w
}

func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, http.StatusOK, runAdminGate("admin").Code)
	assert.Equal(t, http.StatusOK, runAdminGate("super_admin").Code)
	assert.Equal(t, http.StatusForbidden, runAdminGate("user").Code)
	assert.Equal(t, http.StatusForbidden, runAdminGate("").Code)
}
