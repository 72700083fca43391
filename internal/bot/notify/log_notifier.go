package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/central-university-dev/go-wanbit/internal/common/metrics"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyIncident(_ context.Context, incident *models.Incident) error {
	assignID(incident)

	n.logger.Error("Инцидент при выполнении команды",
		"incident_id", incident.ID,
		"command", incident.Command,
		"sender", incident.SenderID,
		"chat_id", incident.ChatID,
		"error", incident.Error,
		"stack", incident.Stack,
	)

	metrics.RecordNotification(kindIncident, "log", "success")

	return nil
}

func (n *LogNotifier) NotifySuggestion(_ context.Context, suggestion *models.Suggestion) error {
	n.logger.Info("Новое предложение от пользователя",
		"sender", suggestion.SenderID,
		"push_name", suggestion.PushName,
		"chat_id", suggestion.ChatID,
		"text", suggestion.Text,
	)

	metrics.RecordNotification(kindSuggestion, "log", "success")

	return nil
}

func assignID(incident *models.Incident) {
	if incident.ID == "" {
		incident.ID = uuid.NewString()
	}
}
