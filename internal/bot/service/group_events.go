package service

import (
	"context"
	"log/slog"

	"github.com/central-university-dev/go-wanbit/internal/common/metrics"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

type RosterInvalidator interface {
	Invalidate(ctx context.Context, groupID string) error
}

type Welcomer interface {
	Welcome(ctx context.Context, evt *models.GroupEvent) error
}

// GroupEvents обрабатывает изменения состава группы: сбрасывает кэш
// администраторов и приветствует новых участников.
type GroupEvents struct {
	rosters RosterInvalidator
	welcome Welcomer
	logger  *slog.Logger
}

// NewGroupEvents принимает nil для rosters и welcome, если кэш или приветствия отключены.
func NewGroupEvents(rosters RosterInvalidator, welcome Welcomer, logger *slog.Logger) *GroupEvents {
	return &GroupEvents{
		rosters: rosters,
		welcome: welcome,
		logger:  logger,
	}
}

func (g *GroupEvents) HandleGroupEvent(ctx context.Context, evt *models.GroupEvent) {
	if evt == nil || evt.GroupID == "" {
		return
	}

	metrics.RecordGroupEvent(string(evt.Action))

	g.logger.Info("Событие группы",
		"group_id", evt.GroupID,
		"action", evt.Action,
		"participants", len(evt.Participants),
		"actor_id", evt.ActorID,
	)

	// Состав изменился, кэш администраторов мог устареть при любом действии.
	if g.rosters != nil {
		if err := g.rosters.Invalidate(ctx, evt.GroupID); err != nil {
			g.logger.Warn("Не удалось сбросить кэш администраторов",
				"error", err,
				"group_id", evt.GroupID,
			)
		}
	}

	if evt.Action != models.GroupJoin || g.welcome == nil {
		return
	}

	if err := g.welcome.Welcome(ctx, evt); err != nil {
		g.logger.Error("Ошибка при приветствии участников",
			"error", err,
			"group_id", evt.GroupID,
		)
	}
}
