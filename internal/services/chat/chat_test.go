package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/ux-assistant/internal/agents"
	"github.com/magabrotheeeer/ux-assistant/internal/conversation"
	"github.com/magabrotheeeer/ux-assistant/internal/fallback"
	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

type CompleterMock struct{ mock.Mock }

func (m *CompleterMock) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type KnowledgeMock struct{ mock.Mock }

func (m *KnowledgeMock) Context(query string) (string, []string) {
	args := m.Called(query)
	return args.String(0), args.Get(1).([]string)
}

type SnapshotterMock struct{ mock.Mock }

func (m *SnapshotterMock) SnapshotConversation(ctx context.Context, c models.Conversation) error {
	return m.Called(ctx, c).Error(0)
}

func (m *SnapshotterMock) ListConversations(ctx context.Context, username string) ([]models.Conversation, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *SnapshotterMock) DeleteConversationSnapshot(ctx context.Context, conversationID int) error {
	return m.Called(ctx, conversationID).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(t *testing.T, completer Completer) *Service {
	registry, err := agents.NewRegistry()
	require.NoError(t, err)
	classifier, err := fallback.NewClassifier()
	require.NoError(t, err)

	knowledge := new(KnowledgeMock)
	knowledge.On("Context", mock.Anything).
		Return("No specific knowledge context found. Rely on general UX expertise.", []string{})

	return New(registry, knowledge, completer, classifier,
		conversation.NewMemoryStore(), nil, newNoopLogger())
}

func TestService_Respond_Completion(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "User: How do I plan a study?") &&
			strings.HasSuffix(prompt, "Assistant:")
	})).Return("Here is a study plan.", nil)

	svc := newTestService(t, completer)
	res := svc.Respond(context.Background(), "alice", "workflow", "How do I plan a study?", 0)

	assert.Equal(t, "Here is a study plan.", res.Response, "ответ LLM передаётся без изменений")
	assert.Equal(t, "workflow", res.AgentUsed)
	assert.Equal(t, 1, res.ConversationID)
	require.Len(t, res.ChatHistory, 2)
	assert.Equal(t, models.RoleUser, res.ChatHistory[0].Role)
	assert.Equal(t, models.RoleAssistant, res.ChatHistory[1].Role)
}

func TestService_Respond_FallbackOnCompletionError(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.Anything).
		Return("", errors.New("connection refused"))

	svc := newTestService(t, completer)
	res := svc.Respond(context.Background(), "alice", "writing", "Help me write a job story", 0)

	assert.True(t, strings.HasPrefix(res.Response, "**Job Story Writing Guide**"),
		"ошибка LLM маскируется заготовленным ответом")
	assert.Equal(t, "writing", res.AgentUsed)
	assert.Equal(t, 1, res.ConversationID)
	assert.Len(t, res.ChatHistory, 2)
}

func TestService_Respond_UnknownAgentResolvesToTriage(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.Anything).
		Return("", errors.New("unavailable"))

	svc := newTestService(t, completer)
	res := svc.Respond(context.Background(), "alice", "pirate", "Hello", 0)

	assert.Equal(t, "triage", res.AgentUsed)
	assert.True(t, strings.HasPrefix(res.Response, "I'm here to help with your UX questions!"))
}

func TestService_Respond_ContinuesConversation(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.Anything).
		Return("answer", nil)

	svc := newTestService(t, completer)
	first := svc.Respond(context.Background(), "alice", "thinking", "first question", 0)
	second := svc.Respond(context.Background(), "alice", "thinking", "follow-up", first.ConversationID)

	assert.Equal(t, first.ConversationID, second.ConversationID)
	assert.Len(t, second.ChatHistory, 4)

	// Промпт второго хода содержит историю и контекстные инструкции.
	calls := completer.Calls
	require.Len(t, calls, 2)
	secondPrompt := calls[1].Arguments.String(1)
	assert.Contains(t, secondPrompt, "Recent conversation history:")
	assert.Contains(t, secondPrompt, "User: first question")
	assert.Contains(t, secondPrompt, "Assistant: answer")
	assert.Contains(t, secondPrompt, "Important instructions:")
}

func TestService_Respond_SnapshotsConversation(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.Anything).Return("ok", nil)

	registry, err := agents.NewRegistry()
	require.NoError(t, err)
	classifier, err := fallback.NewClassifier()
	require.NoError(t, err)
	knowledge := new(KnowledgeMock)
	knowledge.On("Context", mock.Anything).Return("ctx", []string{"Doc"})
	snapshots := new(SnapshotterMock)
	snapshots.On("SnapshotConversation", mock.Anything, mock.MatchedBy(func(c models.Conversation) bool {
		return c.ID == 1 && c.Username == "alice" && c.AgentType == "workflow" && len(c.Messages) == 2
	})).Return(nil)

	svc := New(registry, knowledge, completer, classifier,
		conversation.NewMemoryStore(), snapshots, newNoopLogger())
	res := svc.Respond(context.Background(), "alice", "workflow", "question", 0)

	assert.Equal(t, []string{"Doc"}, res.KnowledgeSources)
	snapshots.AssertExpectations(t)
}

func TestService_Respond_SnapshotTitleKeepsRunesIntact(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.Anything).Return("ok", nil)

	registry, err := agents.NewRegistry()
	require.NoError(t, err)
	classifier, err := fallback.NewClassifier()
	require.NoError(t, err)
	knowledge := new(KnowledgeMock)
	knowledge.On("Context", mock.Anything).Return("ctx", []string{})
	snapshots := new(SnapshotterMock)
	snapshots.On("SnapshotConversation", mock.Anything, mock.MatchedBy(func(c models.Conversation) bool {
		return utf8.ValidString(c.Title) && utf8.RuneCountInString(c.Title) == 80
	})).Return(nil)

	svc := New(registry, knowledge, completer, classifier,
		conversation.NewMemoryStore(), snapshots, newNoopLogger())

	// Заголовок из кириллицы длиннее 80 рун: усечение по байтам
	// разрезало бы двухбайтовый символ на границе.
	svc.Respond(context.Background(), "alice", "triage", strings.Repeat("ю", 120), 0)
	snapshots.AssertExpectations(t)
}

func TestService_Conversations(t *testing.T) {
	completer := new(CompleterMock)

	t.Run("Успех - список диалогов пользователя", func(t *testing.T) {
		registry, err := agents.NewRegistry()
		require.NoError(t, err)
		classifier, err := fallback.NewClassifier()
		require.NoError(t, err)

		knowledge := new(KnowledgeMock)
		snapshots := new(SnapshotterMock)
		snapshots.On("ListConversations", mock.Anything, "alice").Return([]models.Conversation{
			{ID: 2, Username: "alice", AgentType: "workflow", Title: "second"},
			{ID: 1, Username: "alice", AgentType: "triage", Title: "first"},
		}, nil)

		svc := New(registry, knowledge, completer, classifier,
			conversation.NewMemoryStore(), snapshots, newNoopLogger())

		list, err := svc.Conversations(context.Background(), "alice")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "second", list[0].Title)
		snapshots.AssertExpectations(t)
	})

	t.Run("Успех - без хранилища снимков список пуст", func(t *testing.T) {
		svc := newTestService(t, completer)
		list, err := svc.Conversations(context.Background(), "alice")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestService_HistoryAndClear(t *testing.T) {
	completer := new(CompleterMock)
	completer.On("Complete", mock.Anything, mock.Anything).Return("ok", nil)

	svc := newTestService(t, completer)
	res := svc.Respond(context.Background(), "alice", "triage", "hello", 0)

	history, ok := svc.History(res.ConversationID)
	assert.True(t, ok)
	assert.Len(t, history, 2)

	_, ok = svc.History(999)
	assert.False(t, ok, "неизвестный диалог не существует")

	assert.True(t, svc.Clear(context.Background(), res.ConversationID))
	assert.False(t, svc.Clear(context.Background(), res.ConversationID),
		"повторная очистка сообщает об отсутствии диалога")
}
