// Package uxassistant предоставляет маршруты для основного приложения.
package uxassistant

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/ux-assistant/internal/agents"
	"github.com/magabrotheeeer/ux-assistant/internal/config"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/health"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/payment/paymentintent"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/payment/pricing"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/user/accountremove"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/user/profileread"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/user/profileupdate"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/uxagent/agentlist"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/uxagent/chat"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/uxagent/conversationlist"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/uxagent/historyread"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/uxagent/historyremove"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/uxagent/knowledgelist"
	"github.com/magabrotheeeer/ux-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ux-assistant/internal/knowledge"
	authservice "github.com/magabrotheeeer/ux-assistant/internal/services/auth"
	chatservice "github.com/magabrotheeeer/ux-assistant/internal/services/chat"
	paymentservice "github.com/magabrotheeeer/ux-assistant/internal/services/payment"
	userservice "github.com/magabrotheeeer/ux-assistant/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	registry *agents.Registry, knowledgeService *knowledge.Service,
	availability health.Completer, dbChecker health.DBChecker,
	authService *authservice.Service, userService *userservice.Service,
	paymentService *paymentservice.Service, chatService *chatservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Get("/health", health.New(logger, availability, dbChecker).ServeHTTP)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Post("/payment/webhook", paymentwebhook.New(logger, paymentService, cfg.Stripe.WebhookSecret).ServeHTTP)
		r.Get("/payment/pricing", pricing.New(logger, paymentService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/ux-agent/chat", chat.New(logger, chatService).ServeHTTP)
			r.Get("/ux-agent/agents", agentlist.New(logger, registry).ServeHTTP)
			r.Get("/ux-agent/knowledge", knowledgelist.New(logger, knowledgeService, cfg.Knowledge.MaxResults).ServeHTTP)
			r.Get("/ux-agent/chat-history/{conversation_id}", historyread.New(logger, chatService).ServeHTTP)
			r.Delete("/ux-agent/chat-history/{conversation_id}", historyremove.New(logger, chatService).ServeHTTP)
			r.Get("/ux-agent/conversations", conversationlist.New(logger, chatService).ServeHTTP)
			r.Post("/payment/create-payment-intent", paymentintent.New(logger, paymentService).ServeHTTP)
			r.Get("/payment/payments", paymentlist.New(logger, paymentService).ServeHTTP)
			r.Get("/user/profile", profileread.New(logger, userService).ServeHTTP)
			r.Put("/user/profile", profileupdate.New(logger, userService).ServeHTTP)
			r.Delete("/user/account", accountremove.New(logger, userService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
