// Package uxassistant собирает HTTP-приложение: хранилище, кэш,
// базу знаний, LLM-клиент и все сервисы бизнес-уровня.
package uxassistant

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"
	"github.com/stripe/stripe-go/v79"

	"github.com/magabrotheeeer/ux-assistant/internal/agents"
	"github.com/magabrotheeeer/ux-assistant/internal/cache"
	"github.com/magabrotheeeer/ux-assistant/internal/completion"
	"github.com/magabrotheeeer/ux-assistant/internal/config"
	"github.com/magabrotheeeer/ux-assistant/internal/conversation"
	"github.com/magabrotheeeer/ux-assistant/internal/fallback"
	"github.com/magabrotheeeer/ux-assistant/internal/http/handlers/health"
	"github.com/magabrotheeeer/ux-assistant/internal/knowledge"
	"github.com/magabrotheeeer/ux-assistant/internal/lib/jwt"
	"github.com/magabrotheeeer/ux-assistant/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/ux-assistant/internal/lib/sl"
	"github.com/magabrotheeeer/ux-assistant/internal/migrations"
	"github.com/magabrotheeeer/ux-assistant/internal/models"
	authservice "github.com/magabrotheeeer/ux-assistant/internal/services/auth"
	chatservice "github.com/magabrotheeeer/ux-assistant/internal/services/chat"
	paymentservice "github.com/magabrotheeeer/ux-assistant/internal/services/payment"
	userservice "github.com/magabrotheeeer/ux-assistant/internal/services/user"
	"github.com/magabrotheeeer/ux-assistant/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	rabbit *amqp.Connection
}

// rabbitNotifier публикует уведомления об успешной оплате в очередь.
type rabbitNotifier struct {
	ch *amqp.Channel
}

func (n *rabbitNotifier) PublishPaymentConfirmed(msg models.PaymentConfirmation) error {
	return rabbitmq.PublishMessage(n.ch, "notifications", "payment_confirmed", msg)
}

// New создает приложение и все его зависимости.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	registry, err := agents.NewRegistry()
	if err != nil {
		return nil, err
	}
	classifier, err := fallback.NewClassifier()
	if err != nil {
		return nil, err
	}
	knowledgeService, err := knowledge.New(cfg.ResourcesDir, logger)
	if err != nil {
		return nil, err
	}

	var completer chatservice.Completer
	var availability health.Completer
	switch cfg.LLM.Provider {
	case "ollama":
		ollama := completion.NewOllamaClient(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.OllamaTimeout)
		completer = ollama
		availability = ollama
	default:
		gemini, err := completion.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		completer = gemini
	}

	stripe.Key = cfg.Stripe.SecretKey

	// Очередь уведомлений необязательна: без брокера платежи работают,
	// письма-подтверждения не отправляются.
	var notifier paymentservice.Notifier
	var rabbitConn *amqp.Connection
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		logger.Warn("rabbitmq unavailable, payment confirmations disabled", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			logger.Warn("rabbitmq channel setup failed, payment confirmations disabled", sl.Err(err))
			_ = conn.Close()
		} else {
			rabbitConn = conn
			notifier = &rabbitNotifier{ch: ch}
		}
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.New(db, jwtMaker)
	userService := userservice.New(db, cacheRedis, logger)
	paymentService := paymentservice.New(db, paymentservice.StripeIntentClient{}, notifier, logger)
	chatService := chatservice.New(registry, knowledgeService, completer, classifier,
		conversation.NewMemoryStore(), db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, registry, knowledgeService, availability, db,
		authService, userService, paymentService, chatService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: writeTimeout(cfg),
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		rabbit: rabbitConn,
	}, nil
}

// writeTimeout держит таймаут записи выше таймаута генерации Ollama,
// иначе сервер оборвёт медленный ответ локальной модели раньше,
// чем сдастся сам клиент.
func writeTimeout(cfg *config.Config) time.Duration {
	t := cfg.TimeoutHTTP
	if cfg.LLM.Provider == "ollama" && t <= cfg.OllamaTimeout {
		t = cfg.OllamaTimeout + 5*time.Second
	}
	return t
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		if a.rabbit != nil {
			_ = a.rabbit.Close()
		}
		return err
	}
}
