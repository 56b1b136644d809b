package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/ux-assistant/internal/http/middlewarectx"
	"github.com/magabrotheeeer/ux-assistant/internal/models"
	chatservice "github.com/magabrotheeeer/ux-assistant/internal/services/chat"
)

type ServiceMock struct{ mock.Mock }

func (m *ServiceMock) Respond(ctx context.Context, username, agentID, message string, conversationID int) chatservice.Result {
	args := m.Called(ctx, username, agentID, message, conversationID)
	return args.Get(0).(chatservice.Result)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func doRequest(t *testing.T, handler *Handler, body any, withUser bool) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/ux-agent/chat", bytes.NewReader(raw))
	if withUser {
		ctx := context.WithValue(req.Context(), middlewarectx.User, "alice")
		req = req.WithContext(ctx)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHandler_ServeHTTP(t *testing.T) {
	t.Run("Успех - ответ агента с историей", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("Respond", mock.Anything, "alice", "workflow", "How do I write a job story?", 0).
			Return(chatservice.Result{
				Response:         "**Job Story Writing Guide**",
				AgentUsed:        "workflow",
				KnowledgeSources: []string{},
				ConversationID:   1,
				ChatHistory: []models.Message{
					{Role: models.RoleUser, Content: "How do I write a job story?"},
					{Role: models.RoleAssistant, Content: "**Job Story Writing Guide**"},
				},
			})

		handler := New(newNoopLogger(), svc)
		rr := doRequest(t, handler, map[string]any{
			"message":    "How do I write a job story?",
			"agent_type": "workflow",
		}, true)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Status string `json:"status"`
			Data   struct {
				Response       string           `json:"response"`
				AgentUsed      string           `json:"agent_used"`
				ConversationID int              `json:"conversation_id"`
				ChatHistory    []models.Message `json:"chat_history"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "OK", resp.Status)
		assert.Equal(t, "**Job Story Writing Guide**", resp.Data.Response)
		assert.Equal(t, "workflow", resp.Data.AgentUsed)
		assert.Equal(t, 1, resp.Data.ConversationID)
		assert.Len(t, resp.Data.ChatHistory, 2)
	})

	t.Run("Ошибка - пустое сообщение", func(t *testing.T) {
		svc := new(ServiceMock)
		handler := New(newNoopLogger(), svc)

		rr := doRequest(t, handler, map[string]any{"agent_type": "workflow"}, true)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		svc.AssertNotCalled(t, "Respond",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Ошибка - нет пользователя в контексте", func(t *testing.T) {
		svc := new(ServiceMock)
		handler := New(newNoopLogger(), svc)

		rr := doRequest(t, handler, map[string]any{"message": "hello"}, false)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
