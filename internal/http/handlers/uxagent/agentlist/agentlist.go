// Package agentlist реализует HTTP-обработчик списка доступных агентов.
package agentlist

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ux-assistant/internal/http/response"
)

// Service описывает интерфейс реестра агентов.
type Service interface {
	Descriptions() map[string]string
}

// Handler управляет HTTP-запросами списка агентов.
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
// @Summary Получить список агентов
// @Description Возвращает фиксированный набор агентов и их описания.
// @Tags UXAgent
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} map[string]any "Идентификаторы и описания агентов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /api/ux-agent/agents [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.uxagent.agentlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	agents := h.service.Descriptions()
	log.Info("agents listed", slog.Int("count", len(agents)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"agents": agents,
	}))
}
