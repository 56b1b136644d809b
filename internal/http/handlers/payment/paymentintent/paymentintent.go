// Package paymentintent реализует HTTP-обработчик создания PaymentIntent.
//
// Handler принимает сумму, валюту и тип подписки, создаёт платёж через
// сервис оплаты и возвращает client secret для завершения оплаты на клиенте.
package paymentintent

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/ux-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ux-assistant/internal/http/response"
	"github.com/magabrotheeeer/ux-assistant/internal/lib/sl"
)

// Request — входные данные для создания платежа
type Request struct {
	AmountCents      int64  `json:"amount_cents" validate:"required,gt=0"`
	Currency         string `json:"currency" validate:"required,min=3,max=3"`
	SubscriptionType string `json:"subscription_type" validate:"required,oneof=basic premium"`
}

// Service описывает интерфейс бизнес-логики оплаты.
type Service interface {
	CreateIntent(ctx context.Context, userUID string, amountCents int64, currency, subscriptionType string) (clientSecret, intentID string, err error)
}

// Handler управляет HTTP-запросами создания платежей.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать PaymentIntent
// @Description Создает платёж у Stripe и сохраняет его в статусе pending. Возвращает client secret.
// @Tags Payment
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param request body Request true "Сумма, валюта и тип подписки"
// @Success 200 {object} map[string]any "Client secret и идентификатор intent"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка провайдера платежей"
// @Router /api/payment/create-payment-intent [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.paymentintent"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	clientSecret, intentID, err := h.service.CreateIntent(r.Context(),
		userUID, req.AmountCents, req.Currency, req.SubscriptionType)
	if err != nil {
		log.Error("failed to create payment intent", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create payment intent"))
		return
	}

	log.Info("payment intent created", slog.String("intent_id", intentID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"client_secret": clientSecret,
		"intent_id":     intentID,
	}))
}
