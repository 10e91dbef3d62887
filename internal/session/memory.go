package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore — хранилище сессий в памяти процесса. Используется в тестах
// вместо Redis; контракт тот же, что у RedisStore.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

type memoryEntry struct {
	userUID   string
	expiresAt time.Time
}

// NewMemoryStore создает пустое in-memory хранилище сессий.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
	}
}

// Create создает сессию для пользователя и возвращает её идентификатор.
func (s *MemoryStore) Create(_ context.Context, userUID string) (string, error) {
	const op = "session.MemoryStore.Create"

	id, err := newSessionID()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = memoryEntry{
		userUID:   userUID,
		expiresAt: time.Now().Add(s.ttl),
	}
	return id, nil
}

// UserUID возвращает uid владельца сессии или "" без ошибки, если сессии нет.
func (s *MemoryStore) UserUID(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return "", nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, sessionID)
		return "", nil
	}
	return entry.userUID, nil
}

// Destroy удаляет сессию.
func (s *MemoryStore) Destroy(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
