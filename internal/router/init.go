package router

import (
	app "github.com/robyajo/api-conatct/internal/application"
	"github.com/robyajo/api-conatct/internal/container"
	pginfra "github.com/robyajo/api-conatct/internal/infrastructure/postgres"
	handlers "github.com/robyajo/api-conatct/internal/interface/http"
	"github.com/robyajo/api-conatct/internal/router/modules"
)

type UserModuleDeps struct {
	Service *app.UserAdminService
	Handler *handlers.UserHandler
}

type AuthModuleDeps struct {
	Service *app.AuthService
	Handler *handlers.AuthHandler
}

func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()

	users := pginfra.NewUserRepository(container.GetPGPool())
	access := pginfra.NewAccessRepository(container.GetPGPool())

	service := app.NewUserAdminService(
		users,
		access,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESUsersIndex,
		container.GetEventPub(),
		container.GetLogger(),
		cfg.BaseURL,
	)

	handler := handlers.NewUserHandler(service, container.GetLogger())

	return UserModuleDeps{Service: service, Handler: handler}
}

func buildAuthDeps() AuthModuleDeps {
	cfg := container.GetConfig()

	users := pginfra.NewUserRepository(container.GetPGPool())
	access := pginfra.NewAccessRepository(container.GetPGPool())

	service := app.NewAuthService(
		users,
		access,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetMailgun(),
		cfg.MailSendEnabled,
	)

	handler := handlers.NewAuthHandler(
		service,
		container.GetLogger(),
		cfg.CookieDomain,
		cfg.CookieSecure,
	)

	return AuthModuleDeps{Service: service, Handler: handler}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	authDeps := buildAuthDeps()
	userDeps := buildUserDeps()

	r.Add(modules.NewAuthModule(authDeps.Handler, container.GetJWT()))
	r.Add(modules.NewUserModule(userDeps.Handler, container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
