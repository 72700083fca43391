package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter - token bucket на каждый ключ (отправителя). Неактивные ключи вычищаются в фоне.
type KeyedLimiter struct {
	keys       map[string]*keyLimiter
	mu         sync.Mutex
	rate       rate.Limit
	burst      int
	expiration time.Duration
	logger     *slog.Logger

	ctx context.Context
}

func NewKeyedLimiter(ctx context.Context, requests int, window time.Duration, logger *slog.Logger) *KeyedLimiter {
	r := rate.Limit(float64(requests) / window.Seconds())

	l := &KeyedLimiter{
		keys:       make(map[string]*keyLimiter),
		rate:       r,
		burst:      requests,
		expiration: 1 * time.Hour,
		logger:     logger,
		ctx:        ctx,
	}

	go l.cleanupKeys()

	return l
}

func (l *KeyedLimiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, exists := l.keys[key]
	if !exists {
		entry = &keyLimiter{
			limiter:  rate.NewLimiter(l.rate, l.burst),
			lastSeen: time.Now(),
		}
		l.keys[key] = entry
	} else {
		entry.lastSeen = time.Now()
	}

	return entry.limiter
}

func (l *KeyedLimiter) cleanupKeys() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			removed := 0

			for key, entry := range l.keys {
				if time.Since(entry.lastSeen) > l.expiration {
					delete(l.keys, key)
					removed++
				}
			}
			l.mu.Unlock()

			if removed > 0 {
				l.logger.Debug("Очищены неактивные лимитеры", "removed", removed)
			}
		case <-l.ctx.Done():
			return
		}
	}
}

// Allow расходует один токен ключа. Пустой ключ не ограничивается.
func (l *KeyedLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	return l.getLimiter(key).Allow()
}

// Size возвращает число отслеживаемых ключей.
func (l *KeyedLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.keys)
}
