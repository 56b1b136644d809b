package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

// SnapshotConversation сохраняет снимок диалога целиком (upsert по
// идентификатору диалога). Сообщения сериализуются в JSONB.
func (s *Storage) SnapshotConversation(ctx context.Context, c models.Conversation) error {
	const op = "storage.SnapshotConversation"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	messages, err := json.Marshal(c.Messages)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO conversations (conversation_id, username, agent_type, title, messages, updated_at)
			  VALUES ($1, $2, $3, $4, $5, NOW())
			  ON CONFLICT (conversation_id) DO UPDATE
			  SET agent_type = EXCLUDED.agent_type,
			      title = EXCLUDED.title,
			      messages = EXCLUDED.messages,
			      updated_at = NOW()`
	if _, err = s.DB.ExecContext(ctx, query,
		c.ID, c.Username, c.AgentType, c.Title, messages); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListConversations возвращает снимки диалогов пользователя
// от недавних к старым.
func (s *Storage) ListConversations(ctx context.Context, username string) ([]models.Conversation, error) {
	const op = "storage.ListConversations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT conversation_id, username, agent_type, title, messages, updated_at
			  FROM conversations
			  WHERE username = $1
			  ORDER BY updated_at DESC, conversation_id DESC`
	rows, err := s.DB.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Conversation
	for rows.Next() {
		var c models.Conversation
		var messages []byte
		if err = rows.Scan(&c.ID, &c.Username, &c.AgentType, &c.Title,
			&messages, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = json.Unmarshal(messages, &c.Messages); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeleteConversationSnapshot удаляет сохранённый снимок диалога.
func (s *Storage) DeleteConversationSnapshot(ctx context.Context, conversationID int) error {
	const op = "storage.DeleteConversationSnapshot"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM conversations WHERE conversation_id = $1`
	if _, err := s.DB.ExecContext(ctx, query, conversationID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
