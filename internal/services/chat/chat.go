// Package chat содержит логику бизнес-уровня одного хода диалога:
// построение промпта, вызов LLM и откат на заготовленные ответы.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/ux-assistant/internal/agents"
	"github.com/magabrotheeeer/ux-assistant/internal/conversation"
	"github.com/magabrotheeeer/ux-assistant/internal/lib/sl"
	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

// historyWindow — сколько последних сообщений попадает в промпт.
const historyWindow = 4

var (
	completionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_completions_total",
		Help: "Successful LLM completions.",
	})
	fallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_fallbacks_total",
		Help: "Turns answered by the keyword fallback.",
	})
)

// Completer описывает контракт LLM-клиента.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Fallback описывает контракт подбора заготовленного ответа.
type Fallback interface {
	Classify(message string, agent agents.Kind) (text string, category string)
}

// Knowledge описывает контракт базы знаний.
type Knowledge interface {
	// Context возвращает текст для промпта и названия использованных источников.
	Context(query string) (string, []string)
}

// Snapshotter ведёт долговременные снимки диалогов.
type Snapshotter interface {
	SnapshotConversation(ctx context.Context, c models.Conversation) error
	ListConversations(ctx context.Context, username string) ([]models.Conversation, error)
	DeleteConversationSnapshot(ctx context.Context, conversationID int) error
}

// Result — итог одного хода диалога.
type Result struct {
	Response         string
	AgentUsed        string
	KnowledgeSources []string
	ConversationID   int
	ChatHistory      []models.Message
}

// Service оркестрирует один ход диалога с агентом.
type Service struct {
	registry      *agents.Registry
	knowledge     Knowledge
	completer     Completer
	fallback      Fallback
	conversations conversation.Store
	snapshots     Snapshotter
	log           *slog.Logger
}

// New создает новый экземпляр Service. snapshots может быть nil,
// тогда долговременные снимки не ведутся.
func New(registry *agents.Registry, knowledge Knowledge, completer Completer,
	fallback Fallback, conversations conversation.Store, snapshots Snapshotter,
	log *slog.Logger) *Service {
	return &Service{
		registry:      registry,
		knowledge:     knowledge,
		completer:     completer,
		fallback:      fallback,
		conversations: conversations,
		snapshots:     snapshots,
		log:           log,
	}
}

// Respond обрабатывает одно сообщение пользователя. Ход не завершается
// видимой ошибкой: неизвестный агент разрешается в triage, любая ошибка
// LLM маскируется заготовленным ответом.
func (s *Service) Respond(ctx context.Context, username, agentID, message string, conversationID int) Result {
	const op = "chat.Respond"

	agent := s.registry.Resolve(agentID)
	convID, _ := s.conversations.GetOrCreate(conversationID)

	s.conversations.Append(convID, models.RoleUser, message)
	history := s.conversations.History(convID)

	knowledgeContext, sources := s.knowledge.Context(message)
	prompt := s.buildPrompt(agent, message, knowledgeContext, history)

	response, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		var category string
		response, category = s.fallback.Classify(message, agent.Kind)
		s.log.Warn("completion failed, using fallback",
			slog.String("op", op),
			slog.String("agent", string(agent.Kind)),
			slog.String("category", category),
			sl.Err(err))
		fallbacksTotal.Inc()
	} else {
		completionsTotal.Inc()
	}

	s.conversations.Append(convID, models.RoleAssistant, response)
	chatHistory := s.conversations.History(convID)

	s.snapshot(ctx, convID, username, agent, message, chatHistory)

	return Result{
		Response:         response,
		AgentUsed:        string(agent.Kind),
		KnowledgeSources: sources,
		ConversationID:   convID,
		ChatHistory:      chatHistory,
	}
}

// Conversations возвращает сохранённые диалоги пользователя.
// Без хранилища снимков список всегда пуст.
func (s *Service) Conversations(ctx context.Context, username string) ([]models.Conversation, error) {
	const op = "chat.Conversations"

	if s.snapshots == nil {
		return nil, nil
	}
	list, err := s.snapshots.ListConversations(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// History возвращает историю диалога и признак его существования.
func (s *Service) History(conversationID int) ([]models.Message, bool) {
	if !s.conversations.Exists(conversationID) {
		return nil, false
	}
	return s.conversations.History(conversationID), true
}

// Clear удаляет диалог из памяти и его снимок из базы.
func (s *Service) Clear(ctx context.Context, conversationID int) bool {
	const op = "chat.Clear"

	if !s.conversations.Exists(conversationID) {
		return false
	}
	s.conversations.Clear(conversationID)
	if s.snapshots != nil {
		if err := s.snapshots.DeleteConversationSnapshot(ctx, conversationID); err != nil {
			s.log.Warn("failed to delete conversation snapshot",
				slog.String("op", op), sl.Err(err))
		}
	}
	return true
}

// buildPrompt собирает составной промпт: инструкции персоны, контекст
// базы знаний, последние сообщения истории и текущий вопрос.
func (s *Service) buildPrompt(agent agents.Agent, message, knowledgeContext string, history []models.Message) string {
	var b strings.Builder
	b.WriteString(agent.Instructions)

	b.WriteString("\n\nRelevant UX knowledge context:\n")
	b.WriteString(knowledgeContext)

	if len(history) > 0 {
		b.WriteString("\n\nRecent conversation history:\n")
		start := len(history) - historyWindow
		if start < 0 {
			start = 0
		}
		for _, msg := range history[start:] {
			fmt.Fprintf(&b, "%s: %s\n", titleRole(msg.Role), msg.Content)
		}
		b.WriteString("\n\nImportant instructions:")
		b.WriteString("\n- If the user is asking for more details or clarification, provide additional helpful information")
		b.WriteString("\n- If the user is asking follow-up questions, answer them directly based on the conversation context")
		b.WriteString("\n- Do not repeat previous recommendations unless specifically asked")
		b.WriteString("\n- Be conversational and build on the previous conversation")
		b.WriteString("\n- If you've already recommended a specialist, focus on answering the user's current question")
	}

	fmt.Fprintf(&b, "\n\nUser: %s\n\nAssistant:", message)
	return b.String()
}

func titleRole(role string) string {
	if role == "" {
		return role
	}
	return strings.ToUpper(role[:1]) + role[1:]
}

// snapshot пишет долговременный снимок диалога. Ошибки не фатальны.
func (s *Service) snapshot(ctx context.Context, convID int, username string,
	agent agents.Agent, firstMessage string, history []models.Message) {
	const op = "chat.snapshot"

	if s.snapshots == nil {
		return
	}
	title := firstMessage
	if len(history) > 0 {
		title = history[0].Content
	}
	if runes := []rune(title); len(runes) > 80 {
		title = string(runes[:80])
	}
	err := s.snapshots.SnapshotConversation(ctx, models.Conversation{
		ID:        convID,
		Username:  username,
		AgentType: string(agent.Kind),
		Title:     title,
		Messages:  history,
	})
	if err != nil {
		s.log.Warn("failed to snapshot conversation",
			slog.String("op", op), sl.Err(err))
	}
}
