// Package models содержит доменные структуры диалога с агентом.
package models

import "time"

// Роли сообщений внутри диалога.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message — одно сообщение диалога с меткой роли и временем добавления.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation — упорядоченный журнал сообщений одного диалога.
// Порядок сообщений совпадает с порядком добавления.
type Conversation struct {
	ID        int       `json:"id"`
	Username  string    `json:"username,omitempty"`
	AgentType string    `json:"agent_type"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	UpdatedAt time.Time `json:"updated_at"`
}
