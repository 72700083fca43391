package command

import (
	"context"

	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

type Handler func(ctx context.Context, c *Context) error

// Definition описывает команду. После загрузки в реестр не изменяется.
type Definition struct {
	Name        string
	Description string
	Usage       string
	Triggers    []string
	Tier        models.AccessTier
	// GroupOnly выносит команду в menugrupo; проверку чата выполняет сам обработчик.
	GroupOnly   bool
	Handler     Handler
}

// Source отдает определения команд, сгруппированные по уровню доступа.
type Source interface {
	Definitions(ctx context.Context) (map[models.AccessTier][]*Definition, error)
}

// StaticSource - источник из фиксированного списка, собранного при старте.
type StaticSource []*Definition

func (s StaticSource) Definitions(_ context.Context) (map[models.AccessTier][]*Definition, error) {
	grouped := make(map[models.AccessTier][]*Definition)

	for _, def := range s {
		grouped[def.Tier] = append(grouped[def.Tier], def)
	}

	return grouped, nil
}
