package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/robyajo/api-conatct/internal/container"
	handlers "github.com/robyajo/api-conatct/internal/interface/http"
	"github.com/robyajo/api-conatct/internal/interface/middleware"
	"github.com/robyajo/api-conatct/pkg/helpers"
)

// UserModule wires the user administration endpoints.
// All management routes require an authenticated admin session.
// GET /api/users/avatar/:file stays public so avatars can be embedded directly.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rg.GET("/users/avatar/:file", m.Handler.Avatar)

	admin := rg.Group("/")
	admin.Use(middleware.Auth(container.GetRedis(), m.JWT))
	admin.Use(middleware.RequireAdmin())
	admin.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		admin.GET("/users", m.Handler.List)
		admin.GET("/users/options", m.Handler.Options)
		admin.GET("/users/search", m.Handler.Search)
		admin.POST("/users", m.Handler.Create)
		admin.GET("/users/:id", m.Handler.Get)
		admin.PUT("/users/:id", m.Handler.Update)
		admin.DELETE("/users/:id", m.Handler.Delete)
		admin.POST("/users/:id/avatar", m.Handler.UploadAvatar)
	}
}
