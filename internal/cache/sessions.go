package cache

import (
	"context"
	"fmt"
	"time"
)

// Session — серверная запись сессии. Токен принимается только пока
// такая запись существует: её удаление означает выход из системы,
// истечение TTL — окончание сессии.
type Session struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func sessionKey(uid string) string {
	return "session:" + uid
}

// CreateSession сохраняет запись сессии с временем жизни ttl.
func (c *Cache) CreateSession(ctx context.Context, uid string, session Session, ttl time.Duration) error {
	const op = "cache.CreateSession"
	if err := c.Set(ctx, sessionKey(uid), session, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetSession возвращает запись сессии и признак её существования.
// Ошибка означает недоступность хранилища, а не отсутствие сессии.
func (c *Cache) GetSession(ctx context.Context, uid string) (*Session, bool, error) {
	const op = "cache.GetSession"
	var session Session
	found, err := c.Get(ctx, sessionKey(uid), &session)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, false, nil
	}
	return &session, true, nil
}

// DeleteSession уничтожает запись сессии. Идемпотентна:
// удаление несуществующей сессии не является ошибкой.
func (c *Cache) DeleteSession(ctx context.Context, uid string) error {
	const op = "cache.DeleteSession"
	if err := c.Invalidate(ctx, sessionKey(uid)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
