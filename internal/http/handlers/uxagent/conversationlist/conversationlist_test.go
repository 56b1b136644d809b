package conversationlist

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/ux-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Conversations(ctx context.Context, username string) ([]models.Conversation, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func TestHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	t.Run("Успех - диалоги пользователя", func(t *testing.T) {
		service := new(ServiceMock)
		service.On("Conversations", mock.Anything, "alice").Return([]models.Conversation{
			{ID: 2, Username: "alice", AgentType: "workflow", Title: "second"},
			{ID: 1, Username: "alice", AgentType: "triage", Title: "first"},
		}, nil)

		h := New(logger, service)
		req := httptest.NewRequest(http.MethodGet, "/api/ux-agent/conversations", nil)
		ctx := context.WithValue(req.Context(), middlewarectx.User, "alice")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req.WithContext(ctx))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Status string `json:"status"`
			Data   struct {
				Conversations []models.Conversation `json:"conversations"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "OK", resp.Status)
		require.Len(t, resp.Data.Conversations, 2)
		assert.Equal(t, "second", resp.Data.Conversations[0].Title)
		service.AssertExpectations(t)
	})

	t.Run("Ошибка - пользователь не авторизован", func(t *testing.T) {
		h := New(logger, new(ServiceMock))
		req := httptest.NewRequest(http.MethodGet, "/api/ux-agent/conversations", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Ошибка - хранилище недоступно", func(t *testing.T) {
		service := new(ServiceMock)
		service.On("Conversations", mock.Anything, "alice").Return(nil, errors.New("db down"))

		h := New(logger, service)
		req := httptest.NewRequest(http.MethodGet, "/api/ux-agent/conversations", nil)
		ctx := context.WithValue(req.Context(), middlewarectx.User, "alice")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req.WithContext(ctx))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
