// Package shadowlink предоставляет маршруты для основного приложения.
package shadowlink

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/AvinFlower/shadow-link/internal/http/handlers/auth/changepassword"
	"github.com/AvinFlower/shadow-link/internal/http/handlers/auth/login"
	"github.com/AvinFlower/shadow-link/internal/http/handlers/auth/logout"
	"github.com/AvinFlower/shadow-link/internal/http/handlers/auth/register"
	configurationcreate "github.com/AvinFlower/shadow-link/internal/http/handlers/configuration/create"
	configurationlist "github.com/AvinFlower/shadow-link/internal/http/handlers/configuration/list"
	"github.com/AvinFlower/shadow-link/internal/http/handlers/health"
	serverlist "github.com/AvinFlower/shadow-link/internal/http/handlers/server/list"
	"github.com/AvinFlower/shadow-link/internal/http/handlers/user/credits"
	"github.com/AvinFlower/shadow-link/internal/http/handlers/user/profile"
	"github.com/AvinFlower/shadow-link/internal/http/handlers/user/update"
	"github.com/AvinFlower/shadow-link/internal/http/middlewarectx"
	authservice "github.com/AvinFlower/shadow-link/internal/services/auth"
	configservice "github.com/AvinFlower/shadow-link/internal/services/configuration"
	serverservice "github.com/AvinFlower/shadow-link/internal/services/server"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService,
	configurationService *configservice.ConfigurationService, serverService *serverservice.ServerService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Выход вне JWT-группы: обработчик разбирает токен сам,
		// повторный выход с погашенной сессией остается успешным
		r.Post("/logout", logout.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/profile", profile.New(logger, authService).ServeHTTP)
			r.Post("/change-password", changepassword.New(logger, authService).ServeHTTP)
			r.Post("/proxy-credits", credits.New(logger, authService).ServeHTTP)
			r.Get("/servers", serverlist.New(logger, serverService).ServeHTTP)

			// Конечные точки с идентификатором пользователя в пути:
			// доступ только к своим ресурсам, администратору — к любым
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.CheckUserMiddleware(logger))
				r.Put("/users/{userId}", update.New(logger, authService).ServeHTTP)
				r.Post("/users/configurations/{userId}", configurationcreate.New(logger, configurationService).ServeHTTP)
				r.Get("/users/configurations/{userId}", configurationlist.New(logger, configurationService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
