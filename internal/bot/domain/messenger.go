package domain

import (
	"context"

	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

type SendOptions struct {
	Quoted   *models.InboundMessage
	Mentions []string
}

// Messenger - исходящая сторона транспорта, общая для WhatsApp и Telegram.
type Messenger interface {
	SendText(ctx context.Context, chatID, text string, opts SendOptions) error

	SendReaction(ctx context.Context, msg *models.InboundMessage, emoji string) error

	SendSticker(ctx context.Context, chatID string, data []byte, opts SendOptions) error

	SendImage(ctx context.Context, chatID string, data []byte, caption string, opts SendOptions) error

	FetchRoster(ctx context.Context, groupID string) (*models.Roster, error)

	DownloadMedia(ctx context.Context, msg *models.InboundMessage, kind models.MediaKind) ([]byte, error)

	JoinedGroups(ctx context.Context) ([]models.Roster, error)
}

// MessageHandler получает каждое входящее событие транспорта.
type MessageHandler interface {
	Dispatch(ctx context.Context, msg *models.InboundMessage) DispatchResult
}

// GroupEventHandler получает изменения состава групп: вход, выход, повышение и понижение.
type GroupEventHandler interface {
	HandleGroupEvent(ctx context.Context, evt *models.GroupEvent)
}

type DispatchState string

const (
	StateCompleted      DispatchState = "completed"
	StateFailed         DispatchState = "failed"
	StateDeniedByPolicy DispatchState = "denied_by_policy"
	StateUnknownCommand DispatchState = "unknown_command"
	StateNotACommand    DispatchState = "not_a_command"
	StateThrottled      DispatchState = "throttled"
)

type DispatchResult struct {
	State   DispatchState
	Command string
	Tier    models.AccessTier
	Err     error
}
