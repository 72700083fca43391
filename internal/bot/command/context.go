package command

import (
	"context"
	"log/slog"
	"strings"

	"github.com/central-university-dev/go-wanbit/internal/bot/domain"
	domainerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const (
	BotEmoji = "🤖"

	ReactSuccess = "😊"
	ReactWait    = "⏳"
	ReactWarning = "⚠️"
	ReactError   = "❌"
)

type RosterProvider interface {
	FetchRoster(ctx context.Context, groupID string) (*models.Roster, error)
}

// Settings - данные бота, доступные командам.
type Settings struct {
	Prefix  string
	OwnerID string
	BotName string
	BotLink string
}

// Context - объект возможностей, который получает обработчик команды.
type Context struct {
	Settings

	Definition *Definition
	Invocation *models.Invocation

	Args          []string
	FullArgs      string
	SenderID      string
	ChatID        string
	IsGroup       bool
	IsReply       bool
	ReplyTargetID string
	PushName      string
	Message       *models.InboundMessage

	messenger domain.Messenger
	rosters   RosterProvider
	logger    *slog.Logger
}

// Builder собирает Context для каждого вызова.
type Builder struct {
	settings  Settings
	messenger domain.Messenger
	rosters   RosterProvider
	logger    *slog.Logger
}

// NewBuilder: rosters может быть кэширующей оберткой над messenger; nil означает сам messenger.
func NewBuilder(settings Settings, messenger domain.Messenger, rosters RosterProvider, logger *slog.Logger) *Builder {
	if rosters == nil {
		rosters = messenger
	}

	return &Builder{
		settings:  settings,
		messenger: messenger,
		rosters:   rosters,
		logger:    logger,
	}
}

func (b *Builder) Build(inv *models.Invocation, def *Definition) *Context {
	return &Context{
		Settings:      b.settings,
		Definition:    def,
		Invocation:    inv,
		Args:          inv.Args,
		FullArgs:      inv.FullArgs,
		SenderID:      inv.SenderID,
		ChatID:        inv.ChatID,
		IsGroup:       inv.IsGroup,
		IsReply:       inv.IsReply,
		ReplyTargetID: inv.ReplyTargetID,
		PushName:      inv.PushName,
		Message:       inv.Message,
		messenger:     b.messenger,
		rosters:       b.rosters,
		logger:        b.logger.With("command", def.Name, "chat_id", inv.ChatID),
	}
}

func (c *Context) Logger() *slog.Logger {
	return c.logger
}

func (c *Context) Tier() models.AccessTier {
	return c.Definition.Tier
}

// JoinedArgs склеивает аргументы через пробел.
func (c *Context) JoinedArgs() string {
	return strings.Join(c.Args, " ")
}

func (c *Context) IsImage() bool {
	return c.Invocation.Media == models.MediaImage
}

func (c *Context) IsVideo() bool {
	return c.Invocation.Media == models.MediaVideo
}

func (c *Context) IsSticker() bool {
	return c.Invocation.Media == models.MediaSticker
}

func (c *Context) SendTextWithoutEmoji(ctx context.Context, text string) error {
	return c.messenger.SendText(ctx, c.ChatID, text, domain.SendOptions{})
}

func (c *Context) SendText(ctx context.Context, text string) error {
	return c.messenger.SendText(ctx, c.ChatID, BotEmoji+" "+text, domain.SendOptions{})
}

func (c *Context) SendReply(ctx context.Context, text string) error {
	return c.messenger.SendText(ctx, c.ChatID, BotEmoji+" "+text, domain.SendOptions{Quoted: c.Message})
}

func (c *Context) SendMentions(ctx context.Context, text string, mentions ...string) error {
	return c.messenger.SendText(ctx, c.ChatID, text, domain.SendOptions{Mentions: mentions})
}

func (c *Context) SendToOwner(ctx context.Context, text string) error {
	if c.OwnerID == "" {
		return &domainerrors.ErrInvalidIdentity{ID: c.OwnerID}
	}

	return c.messenger.SendText(ctx, c.OwnerID, text, domain.SendOptions{})
}

func (c *Context) SendReact(ctx context.Context, emoji string) error {
	return c.messenger.SendReaction(ctx, c.Message, emoji)
}

func (c *Context) SendSuccessReact(ctx context.Context) error {
	return c.SendReact(ctx, ReactSuccess)
}

func (c *Context) SendWaitReact(ctx context.Context) error {
	return c.SendReact(ctx, ReactWait)
}

func (c *Context) SendWarningReact(ctx context.Context) error {
	return c.SendReact(ctx, ReactWarning)
}

func (c *Context) SendErrorReact(ctx context.Context) error {
	return c.SendReact(ctx, ReactError)
}

func (c *Context) SendSuccessReply(ctx context.Context, text string) error {
	c.react(ctx, ReactSuccess)
	return c.SendReply(ctx, ReactSuccess+" "+text)
}

func (c *Context) SendWaitReply(ctx context.Context, text string) error {
	c.react(ctx, ReactWait)
	return c.SendReply(ctx, ReactWait+" Aguarde "+text)
}

func (c *Context) SendWarningReply(ctx context.Context, text string) error {
	c.react(ctx, ReactWarning)
	return c.SendReply(ctx, ReactWarning+" Atenção! "+text)
}

func (c *Context) SendErrorReply(ctx context.Context, text string) error {
	c.react(ctx, ReactError)
	return c.SendReply(ctx, ReactError+" Erro! "+text)
}

// react не прерывает ответ: реакция вторична по отношению к тексту.
func (c *Context) react(ctx context.Context, emoji string) {
	if err := c.SendReact(ctx, emoji); err != nil {
		c.logger.Warn("Не удалось отправить реакцию", "emoji", emoji, "error", err)
	}
}

func (c *Context) SendSticker(ctx context.Context, data []byte) error {
	return c.messenger.SendSticker(ctx, c.ChatID, data, domain.SendOptions{Quoted: c.Message})
}

func (c *Context) SendImage(ctx context.Context, data []byte, caption string, mentions ...string) error {
	return c.messenger.SendImage(ctx, c.ChatID, data, caption, domain.SendOptions{Quoted: c.Message, Mentions: mentions})
}

func (c *Context) DownloadImage(ctx context.Context) ([]byte, error) {
	return c.download(ctx, models.MediaImage)
}

func (c *Context) DownloadVideo(ctx context.Context) ([]byte, error) {
	return c.download(ctx, models.MediaVideo)
}

func (c *Context) DownloadSticker(ctx context.Context) ([]byte, error) {
	return c.download(ctx, models.MediaSticker)
}

func (c *Context) download(ctx context.Context, kind models.MediaKind) ([]byte, error) {
	if c.Invocation.Media != kind {
		return nil, &domainerrors.ErrMediaNotFound{Kind: string(kind)}
	}

	return c.messenger.DownloadMedia(ctx, c.Message, kind)
}

func (c *Context) Roster(ctx context.Context) (*models.Roster, error) {
	if !c.IsGroup {
		return nil, &domainerrors.ErrGroupNotFound{GroupID: c.ChatID}
	}

	return c.rosters.FetchRoster(ctx, c.ChatID)
}

func (c *Context) JoinedGroups(ctx context.Context) ([]models.Roster, error) {
	return c.messenger.JoinedGroups(ctx)
}

// IsOwner сообщает, является ли отправитель глобальным владельцем бота.
func (c *Context) IsOwner() bool {
	return models.SameIdentity(c.SenderID, c.OwnerID)
}
