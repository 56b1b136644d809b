// Package historyread реализует HTTP-обработчик чтения истории диалога.
package historyread

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ux-assistant/internal/http/response"
	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

// Service описывает интерфейс чтения истории диалога.
type Service interface {
	History(conversationID int) ([]models.Message, bool)
}

// Handler управляет HTTP-запросами чтения истории.
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
// @Summary Получить историю диалога
// @Description Возвращает сообщения диалога по его идентификатору.
// @Tags UXAgent
// @Security ApiKeyAuth
// @Produce  json
// @Param conversation_id path int true "Идентификатор диалога"
// @Success 200 {object} map[string]any "История диалога"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Диалог не найден"
// @Router /api/ux-agent/chat-history/{conversation_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.uxagent.historyread"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	conversationID, err := strconv.Atoi(chi.URLParam(r, "conversation_id"))
	if err != nil {
		log.Error("invalid conversation id")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid conversation id"))
		return
	}

	history, ok := h.service.History(conversationID)
	if !ok {
		log.Info("conversation not found", slog.Int("conversation_id", conversationID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("conversation not found"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"conversation_id": conversationID,
		"chat_history":    history,
	}))
}
