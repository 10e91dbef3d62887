// Package session реализует серверные сессии операторов поверх внешнего
// key-value хранилища. Клиент держит только непрозрачный идентификатор
// (в подписанной куке); содержимое сессии между запросами не кэшируется,
// поэтому хранилище остается авторитетным для любого числа реплик сервиса.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/letterpost/newsletter-service/internal/cache"
)

// Store описывает контракт хранилища сессий.
//
// UserUID на отсутствующий, просроченный или подделанный идентификатор
// возвращает ("", nil) — "сессии нет"; ошибкой считается только недоступность
// самого хранилища.
type Store interface {
	// Create создает сессию для пользователя и возвращает её идентификатор.
	Create(ctx context.Context, userUID string) (string, error)

	// UserUID возвращает uid владельца сессии или "" без ошибки, если сессии нет.
	UserUID(ctx context.Context, sessionID string) (string, error)

	// Destroy удаляет сессию. Удаление несуществующей сессии не ошибка.
	Destroy(ctx context.Context, sessionID string) error
}

const keyPrefix = "session:"

// sessionIDLen — 32 случайных байта, не меньше 128 бит энтропии.
const sessionIDLen = 32

func newSessionID() (string, error) {
	raw := make([]byte, sessionIDLen)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// RedisStore хранит сессии в Redis со сроком жизни, управляемым самим Redis.
type RedisStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewRedisStore создает хранилище сессий поверх подключения к Redis.
func NewRedisStore(c *cache.Cache, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

// Create создает сессию для пользователя и возвращает её идентификатор.
func (s *RedisStore) Create(ctx context.Context, userUID string) (string, error) {
	const op = "session.RedisStore.Create"

	id, err := newSessionID()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Db.Set(ctx, keyPrefix+id, userUID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UserUID возвращает uid владельца сессии.
func (s *RedisStore) UserUID(ctx context.Context, sessionID string) (string, error) {
	const op = "session.RedisStore.UserUID"

	val, err := s.cache.Db.Get(ctx, keyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return val, nil
}

// Destroy удаляет сессию из Redis.
func (s *RedisStore) Destroy(ctx context.Context, sessionID string) error {
	const op = "session.RedisStore.Destroy"

	if err := s.cache.Db.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
