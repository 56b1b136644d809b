// Package conversationlist реализует HTTP-обработчик списка диалогов пользователя.
package conversationlist

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ux-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ux-assistant/internal/http/response"
	"github.com/magabrotheeeer/ux-assistant/internal/lib/sl"
	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

// Service описывает интерфейс чтения сохранённых диалогов.
type Service interface {
	Conversations(ctx context.Context, username string) ([]models.Conversation, error)
}

// Handler управляет HTTP-запросами списка диалогов.
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
// @Summary Получить список диалогов
// @Description Возвращает сохранённые диалоги текущего пользователя от недавних к старым.
// @Tags UXAgent
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} map[string]any "Список диалогов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/ux-agent/conversations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.uxagent.conversationlist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	conversations, err := h.service.Conversations(r.Context(), username)
	if err != nil {
		log.Error("failed to list conversations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list conversations"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"conversations": conversations,
	}))
}
