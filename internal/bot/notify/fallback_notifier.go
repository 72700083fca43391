package notify

import (
	"context"
	"log/slog"

	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

type FallbackNotifier struct {
	primary   Notifier
	secondary Notifier
	logger    *slog.Logger
}

func NewFallbackNotifier(primary, secondary Notifier, logger *slog.Logger) *FallbackNotifier {
	return &FallbackNotifier{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (n *FallbackNotifier) NotifyIncident(ctx context.Context, incident *models.Incident) error {
	err := n.primary.NotifyIncident(ctx, incident)
	if err == nil {
		return nil
	}

	n.logger.Warn("Основной канал уведомлений недоступен, переключаемся на резервный",
		"primaryError", err,
		"incident_id", incident.ID,
	)

	if fallbackErr := n.secondary.NotifyIncident(ctx, incident); fallbackErr != nil {
		return err
	}

	return nil
}

func (n *FallbackNotifier) NotifySuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	err := n.primary.NotifySuggestion(ctx, suggestion)
	if err == nil {
		return nil
	}

	n.logger.Warn("Основной канал уведомлений недоступен, переключаемся на резервный",
		"primaryError", err,
		"sender", suggestion.SenderID,
	)

	if fallbackErr := n.secondary.NotifySuggestion(ctx, suggestion); fallbackErr != nil {
		return err
	}

	return nil
}
