package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/robyajo/api-conatct/internal/container"
	handlers "github.com/robyajo/api-conatct/internal/interface/http"
	"github.com/robyajo/api-conatct/internal/interface/middleware"
	"github.com/robyajo/api-conatct/pkg/helpers"
)

// AuthModule wires the authentication endpoints.
// Public: POST /api/auth/register, POST /api/auth/login, POST /api/auth/refresh
// Protected: POST /api/auth/logout, GET /api/auth/me
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()

	// Shared per-IP window across register, login and refresh
	authLimiter := middleware.RateLimit(container.GetRedis(), cfg.AuthRateLimitMax, cfg.AuthRateLimitWindow, middleware.KeyByIP(), middleware.AllowPrivateIP())

	rg.POST("/auth/register", authLimiter, m.Handler.Register)
	rg.POST("/auth/login", authLimiter, m.Handler.Login)
	rg.POST("/auth/refresh", authLimiter, m.Handler.Refresh)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.GET("/auth/me", m.Handler.Me)
	}
}
