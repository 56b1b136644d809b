// Package pricing реализует HTTP-обработчик списка тарифных планов.
package pricing

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ux-assistant/internal/http/response"
	"github.com/magabrotheeeer/ux-assistant/internal/services/payment"
)

// Service описывает интерфейс получения тарифов.
type Service interface {
	Pricing() []payment.Plan
}

// Handler управляет HTTP-запросами списка тарифов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить тарифные планы
// @Description Возвращает фиксированные тарифы basic и premium.
// @Tags Payment
// @Produce  json
// @Success 200 {object} map[string]any "Список тарифов"
// @Router /api/payment/pricing [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.pricing"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans := h.service.Pricing()
	log.Info("pricing listed", slog.Int("plans", len(plans)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plans": plans,
	}))
}
