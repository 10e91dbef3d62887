// Package newsletterservice предоставляет маршруты для основного приложения.
package newsletterservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/letterpost/newsletter-service/internal/http/handlers/admin/dashboard"
	"github.com/letterpost/newsletter-service/internal/http/handlers/admin/password"
	"github.com/letterpost/newsletter-service/internal/http/handlers/admin/passwordform"
	"github.com/letterpost/newsletter-service/internal/http/handlers/auth/login"
	"github.com/letterpost/newsletter-service/internal/http/handlers/auth/loginform"
	"github.com/letterpost/newsletter-service/internal/http/handlers/auth/logout"
	"github.com/letterpost/newsletter-service/internal/http/handlers/health"
	"github.com/letterpost/newsletter-service/internal/http/handlers/newsletter/publish"
	"github.com/letterpost/newsletter-service/internal/http/handlers/subscription/confirm"
	"github.com/letterpost/newsletter-service/internal/http/handlers/subscription/subscribe"
	"github.com/letterpost/newsletter-service/internal/http/middlewarectx"
	"github.com/letterpost/newsletter-service/internal/lib/cookietoken"
	authservice "github.com/letterpost/newsletter-service/internal/services/auth"
	"github.com/letterpost/newsletter-service/internal/services/dispatch"
	subscriptionservice "github.com/letterpost/newsletter-service/internal/services/subscription"
	"github.com/letterpost/newsletter-service/internal/session"
)

// Services — зависимости, которые нужны обработчикам маршрутов.
type Services struct {
	Auth         *authservice.Service
	Subscription *subscriptionservice.Service
	Dispatcher   *dispatch.Dispatcher
	Users        dashboard.UserProvider
	Sessions     session.Store
	Maker        *cookietoken.Maker
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Get("/health", health.New(logger).ServeHTTP)
	r.Get("/login", loginform.New(logger, s.Maker).ServeHTTP)
	r.Post("/login", login.New(logger, s.Auth, s.Sessions, s.Maker).ServeHTTP)
	r.Get("/subscriptions/confirm", confirm.New(logger, s.Subscription).ServeHTTP)

	// Форма подписки открыта всем, поэтому прикрыта лимитером
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, 1, 3))
		r.Post("/subscriptions", subscribe.New(logger, s.Subscription).ServeHTTP)
	})

	// Публикация выпуска аутентифицируется через HTTP Basic
	r.Post("/newsletter", publish.New(logger, s.Auth, s.Dispatcher).ServeHTTP)

	// Кабинет администратора за сессионной аутентификацией
	r.Route("/admin", func(r chi.Router) {
		r.Use(middlewarectx.SessionMiddleware(s.Maker, s.Sessions, logger))
		r.Get("/dashboard", dashboard.New(logger, s.Users).ServeHTTP)
		r.Get("/password", passwordform.New(logger, s.Maker).ServeHTTP)
		r.Post("/password", password.New(logger, s.Auth, s.Sessions, s.Maker).ServeHTTP)
		r.Post("/logout", logout.New(logger, s.Sessions, s.Maker).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
