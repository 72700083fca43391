package notify

import (
	"context"
	"fmt"

	"github.com/central-university-dev/go-wanbit/internal/bot/domain"
	"github.com/central-university-dev/go-wanbit/internal/common/metrics"
	customerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const maxStackLength = 1500

// OwnerNotifier пересылает инциденты владельцу бота личным сообщением.
type OwnerNotifier struct {
	messenger domain.Messenger
	ownerID   string
}

func NewOwnerNotifier(messenger domain.Messenger, ownerID string) *OwnerNotifier {
	return &OwnerNotifier{
		messenger: messenger,
		ownerID:   ownerID,
	}
}

func (n *OwnerNotifier) NotifyIncident(ctx context.Context, incident *models.Incident) error {
	if n.ownerID == "" {
		return &customerrors.ErrInvalidIdentity{ID: n.ownerID}
	}

	assignID(incident)

	err := n.messenger.SendText(ctx, n.ownerID, FormatIncident(incident), domain.SendOptions{})
	if err != nil {
		metrics.RecordNotification(kindIncident, "owner", "error")
		return fmt.Errorf("ошибка при отправке инцидента владельцу: %w", err)
	}

	metrics.RecordNotification(kindIncident, "owner", "success")

	return nil
}

// NotifySuggestion ничего не делает: команда sugestao сама пересылает текст владельцу.
func (n *OwnerNotifier) NotifySuggestion(_ context.Context, _ *models.Suggestion) error {
	return nil
}

func FormatIncident(incident *models.Incident) string {
	stack := incident.Stack
	if len(stack) > maxStackLength {
		stack = stack[:maxStackLength] + "..."
	}

	return fmt.Sprintf("🚨 *Erro ao executar comando!*\n\n"+
		"🆔 Incidente: %s\n"+
		"🕒 Horário: %s\n"+
		"💬 Comando: %s\n"+
		"👤 Usuário: %s\n"+
		"👥 Chat: %s\n"+
		"❌ Erro: %s\n\n"+
		"```%s```",
		incident.ID,
		incident.CreatedAt.Format("2006-01-02 15:04:05"),
		incident.Command,
		models.StorageKey(incident.SenderID),
		incident.ChatID,
		incident.Error,
		stack,
	)
}

// FormatSuggestion - текст предложения для владельца.
func FormatSuggestion(suggestion *models.Suggestion) string {
	return fmt.Sprintf("📢 *Nova Sugestão Recebida!*\n\n"+
		"🕒 Horário: %s\n"+
		"👤 Número: %s\n"+
		"💡 Sugestão: %s",
		suggestion.CreatedAt.Format("02/01/2006 15:04:05"),
		models.StorageKey(suggestion.SenderID),
		suggestion.Text,
	)
}
