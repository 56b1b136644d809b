// Package knowledgelist реализует HTTP-обработчик базы знаний:
// сводка по загруженным документам и поиск по запросу.
package knowledgelist

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ux-assistant/internal/http/response"
	"github.com/magabrotheeeer/ux-assistant/internal/knowledge"
)

// Service описывает интерфейс базы знаний.
type Service interface {
	Summary() knowledge.Summary
	Search(query string, maxResults int) []knowledge.Result
}

// Handler управляет HTTP-запросами к базе знаний.
type Handler struct {
	log        *slog.Logger
	service    Service
	maxResults int
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service, maxResults int) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		maxResults: maxResults,
	}
}

// ServeHTTP godoc
// @Summary Получить сводку базы знаний
// @Description Возвращает сводку по загруженным документам. При переданном параметре q дополнительно выполняет поиск.
// @Tags UXAgent
// @Security ApiKeyAuth
// @Produce  json
// @Param q query string false "Поисковый запрос"
// @Success 200 {object} map[string]any "Сводка и результаты поиска"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /api/ux-agent/knowledge [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.uxagent.knowledgelist"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	data := map[string]any{
		"knowledge_summary": h.service.Summary(),
	}
	if query := r.URL.Query().Get("q"); query != "" {
		results := h.service.Search(query, h.maxResults)
		data["results"] = results
		log.Info("knowledge searched",
			slog.String("query", query), slog.Int("results", len(results)))
	}

	render.JSON(w, r, response.OKWithData(data))
}
