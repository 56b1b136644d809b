// Package health реализует HTTP-обработчик проверки работоспособности.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/ux-assistant/internal/http/response"
	"github.com/magabrotheeeer/ux-assistant/internal/lib/sl"
)

// Completer сообщает о доступности LLM-провайдера.
type Completer interface {
	Available(ctx context.Context) bool
}

// DBChecker сообщает о готовности базы данных.
type DBChecker interface {
	CheckDatabaseReady() error
}

// Handler управляет HTTP-запросами проверки работоспособности.
type Handler struct {
	log       *slog.Logger
	completer Completer
	db        DBChecker
}

// New создает новый Handler. completer и db могут быть nil,
// тогда соответствующая проверка не выполняется.
func New(log *slog.Logger, completer Completer, db DBChecker) *Handler {
	return &Handler{
		log:       log,
		completer: completer,
		db:        db,
	}
}

// ServeHTTP godoc
// @Summary Проверить работоспособность
// @Description Возвращает статус сервиса, доступность LLM-провайдера и готовность базы данных.
// @Tags Health
// @Produce  json
// @Success 200 {object} map[string]any "Статус сервиса"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	data := map[string]any{
		"status":  "healthy",
		"service": "ux-assistant",
	}
	if h.completer != nil {
		data["llm_available"] = h.completer.Available(r.Context())
	}
	if h.db != nil {
		err := h.db.CheckDatabaseReady()
		if err != nil {
			h.log.Warn("database readiness check failed",
				slog.String("op", op), sl.Err(err))
		}
		data["database_ready"] = err == nil
	}
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(data))
}
