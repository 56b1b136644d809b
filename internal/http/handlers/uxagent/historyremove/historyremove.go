// Package historyremove реализует HTTP-обработчик удаления истории диалога.
package historyremove

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ux-assistant/internal/http/response"
)

// Service описывает интерфейс удаления диалога.
type Service interface {
	Clear(ctx context.Context, conversationID int) bool
}

// Handler управляет HTTP-запросами удаления истории.
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
// @Summary Удалить историю диалога
// @Description Удаляет диалог и его сохранённый снимок.
// @Tags UXAgent
// @Security ApiKeyAuth
// @Produce  json
// @Param conversation_id path int true "Идентификатор диалога"
// @Success 200 {object} map[string]any "Диалог удалён"
// @Failure 400 {object} response.ErrorResponse "Некорректный идентификатор"
// @Failure 404 {object} response.ErrorResponse "Диалог не найден"
// @Router /api/ux-agent/chat-history/{conversation_id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.uxagent.historyremove"
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

	if !h.service.Clear(r.Context(), conversationID) {
		log.Info("conversation not found", slog.Int("conversation_id", conversationID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("conversation not found"))
		return
	}

	log.Info("conversation cleared", slog.Int("conversation_id", conversationID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": fmt.Sprintf("Chat history cleared for conversation %d", conversationID),
	}))
}
