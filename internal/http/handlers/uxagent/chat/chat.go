// Package chat реализует HTTP-обработчик одного хода диалога с агентом.
//
// Handler принимает сообщение пользователя, тип агента и необязательный
// идентификатор диалога, делегирует ход сервису чата и возвращает ответ
// вместе с актуальной историей диалога.
package chat

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
	"github.com/magabrotheeeer/ux-assistant/internal/services/chat"
)

// Request — входные данные одного хода диалога
type Request struct {
	Message        string `json:"message" validate:"required"`
	AgentType      string `json:"agent_type"`
	ConversationID int    `json:"conversation_id"`
}

// Service описывает интерфейс бизнес-логики чата.
type Service interface {
	Respond(ctx context.Context, username, agentID, message string, conversationID int) chat.Result
}

// Handler управляет HTTP-запросами чата с агентом.
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
// @Summary Отправить сообщение агенту
// @Description Обрабатывает один ход диалога: неизвестный agent_type разрешается в triage, при недоступности LLM возвращается заготовленный ответ.
// @Tags UXAgent
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param request body Request true "Сообщение, тип агента и идентификатор диалога"
// @Success 200 {object} map[string]any "Ответ агента и история диалога"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/ux-agent/chat [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.uxagent.chat"
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

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res := h.service.Respond(r.Context(), username, req.AgentType, req.Message, req.ConversationID)

	log.Info("chat turn completed",
		slog.String("agent_used", res.AgentUsed),
		slog.Int("conversation_id", res.ConversationID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"response":          res.Response,
		"agent_used":        res.AgentUsed,
		"knowledge_sources": res.KnowledgeSources,
		"conversation_id":   res.ConversationID,
		"chat_history":      res.ChatHistory,
	}))
}
