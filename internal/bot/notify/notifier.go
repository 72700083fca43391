package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/central-university-dev/go-wanbit/internal/bot/domain"
	"github.com/central-university-dev/go-wanbit/internal/config"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

type NotifierType string

const (
	LogNotifierType   NotifierType = "LOG"
	KafkaNotifierType NotifierType = "KAFKA"
	OwnerNotifierType NotifierType = "OWNER"
)

const (
	kindIncident   = "incident"
	kindSuggestion = "suggestion"
)

// Notifier доставляет разработчику сведения о сбоях команд и предложения пользователей.
type Notifier interface {
	NotifyIncident(ctx context.Context, incident *models.Incident) error
	NotifySuggestion(ctx context.Context, suggestion *models.Suggestion) error
}

type NotifierFactory struct {
	config *config.Config
	logger *slog.Logger
}

func NewNotifierFactory(config *config.Config, logger *slog.Logger) *NotifierFactory {
	return &NotifierFactory{
		config: config,
		logger: logger,
	}
}

// CreateNotifier собирает нотификатор по NOTIFY_TRANSPORT. Все варианты кроме LOG
// дублируются в лог при недоступности основного канала.
func (f *NotifierFactory) CreateNotifier(messenger domain.Messenger) (Notifier, func() error, error) {
	notifierType := NotifierType(strings.ToUpper(f.config.NotifyTransport))

	f.logger.Info("Создание нотификатора",
		"type", notifierType,
	)

	logNotifier := NewLogNotifier(f.logger)
	noop := func() error { return nil }

	switch notifierType {
	case LogNotifierType, "":
		return logNotifier, noop, nil
	case KafkaNotifierType:
		brokers := strings.Split(f.config.KafkaBrokers, ",")
		kafkaNotifier := NewKafkaNotifier(brokers, f.config.TopicIncidents, f.config.TopicSuggestions, f.logger)

		return NewFallbackNotifier(kafkaNotifier, logNotifier, f.logger), kafkaNotifier.Close, nil
	case OwnerNotifierType:
		ownerNotifier := NewOwnerNotifier(messenger, f.config.OwnerID)

		return NewFallbackNotifier(ownerNotifier, logNotifier, f.logger), noop, nil
	default:
		return nil, nil, fmt.Errorf("неизвестный тип нотификатора: %s", notifierType)
	}
}
