package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-faster/jx"
	"github.com/segmentio/kafka-go"

	"github.com/central-university-dev/go-wanbit/internal/common/metrics"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

type KafkaNotifier struct {
	incidents   *kafka.Writer
	suggestions *kafka.Writer
	logger      *slog.Logger
}

func newWriter(brokers []string, topic string, logger *slog.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Logger:                 kafka.LoggerFunc(logger.Debug),
		ErrorLogger:            kafka.LoggerFunc(logger.Error),
	}
}

func NewKafkaNotifier(brokers []string, incidentsTopic, suggestionsTopic string, logger *slog.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		incidents:   newWriter(brokers, incidentsTopic, logger),
		suggestions: newWriter(brokers, suggestionsTopic, logger),
		logger:      logger,
	}
}

func (n *KafkaNotifier) NotifyIncident(ctx context.Context, incident *models.Incident) error {
	assignID(incident)

	n.logger.Info("Отправка инцидента в Kafka",
		"incident_id", incident.ID,
		"command", incident.Command,
		"topic", n.incidents.Topic,
	)

	err := n.incidents.WriteMessages(ctx, kafka.Message{
		Key:   []byte(incident.ID),
		Value: EncodeIncident(incident),
		Time:  time.Now(),
	})
	if err != nil {
		metrics.RecordNotification(kindIncident, "kafka", "error")
		return fmt.Errorf("ошибка при отправке сообщения в Kafka: %w", err)
	}

	metrics.RecordNotification(kindIncident, "kafka", "success")

	return nil
}

func (n *KafkaNotifier) NotifySuggestion(ctx context.Context, suggestion *models.Suggestion) error {
	err := n.suggestions.WriteMessages(ctx, kafka.Message{
		Key:   []byte(models.StorageKey(suggestion.SenderID)),
		Value: EncodeSuggestion(suggestion),
		Time:  time.Now(),
	})
	if err != nil {
		metrics.RecordNotification(kindSuggestion, "kafka", "error")
		return fmt.Errorf("ошибка при отправке сообщения в Kafka: %w", err)
	}

	metrics.RecordNotification(kindSuggestion, "kafka", "success")

	return nil
}

func (n *KafkaNotifier) Close() error {
	if err := n.incidents.Close(); err != nil {
		return err
	}

	return n.suggestions.Close()
}

func EncodeIncident(incident *models.Incident) []byte {
	var e jx.Encoder

	e.ObjStart()
	e.FieldStart("id")
	e.Str(incident.ID)
	e.FieldStart("command")
	e.Str(incident.Command)
	e.FieldStart("sender")
	e.Str(incident.SenderID)
	e.FieldStart("chatId")
	e.Str(incident.ChatID)
	e.FieldStart("error")
	e.Str(incident.Error)
	e.FieldStart("stack")
	e.Str(incident.Stack)
	e.FieldStart("createdAt")
	e.Str(incident.CreatedAt.UTC().Format(time.RFC3339Nano))
	e.ObjEnd()

	return e.Bytes()
}

func EncodeSuggestion(suggestion *models.Suggestion) []byte {
	var e jx.Encoder

	e.ObjStart()
	e.FieldStart("sender")
	e.Str(suggestion.SenderID)
	e.FieldStart("pushName")
	e.Str(suggestion.PushName)
	e.FieldStart("chatId")
	e.Str(suggestion.ChatID)
	e.FieldStart("text")
	e.Str(suggestion.Text)
	e.FieldStart("createdAt")
	e.Str(suggestion.CreatedAt.UTC().Format(time.RFC3339Nano))
	e.ObjEnd()

	return e.Bytes()
}

// DecodeIncident - обратное к EncodeIncident, используется потребителями топика.
func DecodeIncident(data []byte) (*models.Incident, error) {
	incident := &models.Incident{}

	err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error

		switch string(key) {
		case "id":
			incident.ID, err = d.Str()
		case "command":
			incident.Command, err = d.Str()
		case "sender":
			incident.SenderID, err = d.Str()
		case "chatId":
			incident.ChatID, err = d.Str()
		case "error":
			incident.Error, err = d.Str()
		case "stack":
			incident.Stack, err = d.Str()
		case "createdAt":
			var raw string
			if raw, err = d.Str(); err == nil {
				incident.CreatedAt, err = time.Parse(time.RFC3339Nano, raw)
			}
		default:
			err = d.Skip()
		}

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе инцидента: %w", err)
	}

	return incident, nil
}
