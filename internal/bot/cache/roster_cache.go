package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/central-university-dev/go-wanbit/internal/common/metrics"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const keyPrefix = "wanbit:roster:"

type RosterProvider interface {
	FetchRoster(ctx context.Context, groupID string) (*models.Roster, error)
}

// RosterCache - кэширующая обертка над транспортом для списков участников групп.
// Ошибки Redis не прерывают запрос: при сбое кэша состав берется у транспорта.
type RosterCache struct {
	client *redis.Client
	next   RosterProvider
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisClient(ctx context.Context, addr, password string, db int, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ошибка при подключении к Redis: %w", err)
	}

	logger.Info("Соединение с Redis успешно установлено", "addr", addr)

	return client, nil
}

func NewRosterCache(client *redis.Client, next RosterProvider, ttl time.Duration, logger *slog.Logger) *RosterCache {
	return &RosterCache{
		client: client,
		next:   next,
		ttl:    ttl,
		logger: logger,
	}
}

func rosterKey(groupID string) string {
	return keyPrefix + models.StorageKey(groupID)
}

func (c *RosterCache) FetchRoster(ctx context.Context, groupID string) (*models.Roster, error) {
	roster, err := c.get(ctx, groupID)

	switch {
	case err != nil:
		metrics.RecordRosterCache("error")
		c.logger.Warn("Ошибка чтения состава группы из кэша",
			"error", err,
			"group_id", groupID,
		)
	case roster != nil:
		metrics.RecordRosterCache("hit")
		return roster, nil
	default:
		metrics.RecordRosterCache("miss")
	}

	roster, err = c.next.FetchRoster(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if err := c.set(ctx, groupID, roster); err != nil {
		c.logger.Warn("Не удалось сохранить состав группы в кэш",
			"error", err,
			"group_id", groupID,
		)
	}

	return roster, nil
}

// Invalidate удаляет состав группы из кэша, например после изменения списка администраторов.
func (c *RosterCache) Invalidate(ctx context.Context, groupID string) error {
	if err := c.client.Del(ctx, rosterKey(groupID)).Err(); err != nil {
		return fmt.Errorf("ошибка при удалении данных из Redis: %w", err)
	}

	c.logger.Debug("Состав группы удален из кэша", "group_id", groupID)

	return nil
}

func (c *RosterCache) get(ctx context.Context, groupID string) (*models.Roster, error) {
	data, err := c.client.Get(ctx, rosterKey(groupID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("ошибка при получении данных из Redis: %w", err)
	}

	var roster models.Roster
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("ошибка при десериализации данных из Redis: %w", err)
	}

	return &roster, nil
}

func (c *RosterCache) set(ctx context.Context, groupID string, roster *models.Roster) error {
	data, err := json.Marshal(roster)
	if err != nil {
		return fmt.Errorf("ошибка при сериализации данных для Redis: %w", err)
	}

	if err := c.client.Set(ctx, rosterKey(groupID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("ошибка при сохранении данных в Redis: %w", err)
	}

	return nil
}
