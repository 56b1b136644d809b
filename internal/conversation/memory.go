package conversation

import (
	"sync"
	"time"

	"github.com/magabrotheeeer/ux-assistant/internal/models"
)

// MemoryStore — потокобезопасная реализация Store в памяти.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int
	logs   map[int][]models.Message
}

// NewMemoryStore создаёт пустое хранилище, идентификаторы начинаются с 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		logs:   make(map[int][]models.Message),
	}
}

var _ Store = (*MemoryStore)(nil)

// GetOrCreate возвращает существующий диалог или заводит новый.
func (s *MemoryStore) GetOrCreate(id int) (int, []models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id > 0 {
		if log, ok := s.logs[id]; ok {
			return id, copyMessages(log)
		}
	}
	id = s.nextID
	s.nextID++
	s.logs[id] = nil
	return id, nil
}

// Append добавляет сообщение и усекает историю до MaxMessages последних.
func (s *MemoryStore) Append(id int, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := append(s.logs[id], models.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
	if len(log) > MaxMessages {
		log = log[len(log)-MaxMessages:]
	}
	s.logs[id] = log
}

// History возвращает копию истории диалога.
func (s *MemoryStore) History(id int) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMessages(s.logs[id])
}

// Clear удаляет диалог.
func (s *MemoryStore) Clear(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, id)
}

// Exists сообщает, известен ли диалог.
func (s *MemoryStore) Exists(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.logs[id]
	return ok
}

func copyMessages(src []models.Message) []models.Message {
	if len(src) == 0 {
		return nil
	}
	dst := make([]models.Message, len(src))
	copy(dst, src)
	return dst
}
