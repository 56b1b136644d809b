package conversation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

func TestMemoryStore_GetOrCreate(t *testing.T) {
	s := NewMemoryStore()

	id1, history := s.GetOrCreate(0)
	assert.Equal(t, 1, id1, "первый диалог получает идентификатор 1")
	assert.Empty(t, history)

	id2, _ := s.GetOrCreate(-5)
	assert.Equal(t, 2, id2, "идентификаторы растут монотонно")

	s.Append(id1, models.RoleUser, "hello")
	sameID, sameHistory := s.GetOrCreate(id1)
	assert.Equal(t, id1, sameID)
	assert.Len(t, sameHistory, 1)

	id3, _ := s.GetOrCreate(999)
	assert.Equal(t, 3, id3, "неизвестный идентификатор создаёт новый диалог")
}

func TestMemoryStore_AppendTrimsHistory(t *testing.T) {
	s := NewMemoryStore()
	id, _ := s.GetOrCreate(0)

	for i := 1; i <= 25; i++ {
		s.Append(id, models.RoleUser, fmt.Sprintf("message %d", i))
	}

	history := s.History(id)
	assert.Len(t, history, MaxMessages, "хранятся ровно последние 20 сообщений")
	assert.Equal(t, "message 6", history[0].Content, "старые сообщения отброшены")
	assert.Equal(t, "message 25", history[len(history)-1].Content)
	assert.False(t, history[0].Timestamp.IsZero())
}

func TestMemoryStore_ClearAndExists(t *testing.T) {
	s := NewMemoryStore()
	id, _ := s.GetOrCreate(0)
	s.Append(id, models.RoleAssistant, "hi")

	assert.True(t, s.Exists(id))
	s.Clear(id)
	assert.False(t, s.Exists(id))
	assert.Empty(t, s.History(id))

	// Повторная очистка не падает.
	s.Clear(id)
}

func TestMemoryStore_HistoryReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	id, _ := s.GetOrCreate(0)
	s.Append(id, models.RoleUser, "original")

	history := s.History(id)
	history[0].Content = "mutated"

	assert.Equal(t, "original", s.History(id)[0].Content)
}
