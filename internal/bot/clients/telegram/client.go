package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/central-university-dev/go-wanbit/internal/bot/domain"
	customerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

type Client struct {
	bot    *tgbotapi.BotAPI
	files  *resty.Client
	logger *slog.Logger

	mu     sync.RWMutex
	groups map[int64]string
}

// NewClient подключается к Bot API. Пустой endpoint означает публичный api.telegram.org.
func NewClient(token, endpoint string, files *resty.Client, logger *slog.Logger) (*Client, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: 90 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании Telegram клиента: %w", err)
	}

	return &Client{
		bot:    bot,
		files:  files,
		logger: logger,
		groups: make(map[int64]string),
	}, nil
}

func (c *Client) Username() string {
	return c.bot.Self.UserName
}

func parseChatID(id string) (int64, error) {
	chatID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, &customerrors.ErrInvalidIdentity{ID: id}
	}

	return chatID, nil
}

func replyTo(opts domain.SendOptions) int {
	if opts.Quoted == nil {
		return 0
	}

	id, err := strconv.Atoi(opts.Quoted.ID)
	if err != nil {
		return 0
	}

	return id
}

func (c *Client) SendText(_ context.Context, chatID, text string, opts domain.SendOptions) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(id, text)
	msg.ReplyToMessageID = replyTo(opts)

	if _, err := c.bot.Send(msg); err != nil {
		return fmt.Errorf("ошибка при отправке сообщения: %w", err)
	}

	return nil
}

type reactionType struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
}

// SendReaction вызывает setMessageReaction напрямую: в telegram-bot-api v5 для него нет конфигурации.
func (c *Client) SendReaction(_ context.Context, msg *models.InboundMessage, emoji string) error {
	chatID, err := parseChatID(msg.ChatID)
	if err != nil {
		return err
	}

	messageID, err := strconv.Atoi(msg.ID)
	if err != nil {
		return &customerrors.ErrInvalidArgument{Message: "идентификатор сообщения: " + msg.ID}
	}

	reaction, err := json.Marshal([]reactionType{{Type: "emoji", Emoji: emoji}})
	if err != nil {
		return err
	}

	params := tgbotapi.Params{"reaction": string(reaction)}
	params.AddNonZero64("chat_id", chatID)
	params.AddNonZero("message_id", messageID)

	if _, err := c.bot.MakeRequest("setMessageReaction", params); err != nil {
		return fmt.Errorf("ошибка при отправке реакции: %w", err)
	}

	return nil
}

func (c *Client) SendSticker(_ context.Context, chatID string, data []byte, opts domain.SendOptions) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}

	sticker := tgbotapi.NewSticker(id, tgbotapi.FileBytes{Name: "sticker.webp", Bytes: data})
	sticker.ReplyToMessageID = replyTo(opts)

	if _, err := c.bot.Send(sticker); err != nil {
		return fmt.Errorf("ошибка при отправке стикера: %w", err)
	}

	return nil
}

func (c *Client) SendImage(_ context.Context, chatID string, data []byte, caption string, opts domain.SendOptions) error {
	id, err := parseChatID(chatID)
	if err != nil {
		return err
	}

	photo := tgbotapi.NewPhoto(id, tgbotapi.FileBytes{Name: "image.png", Bytes: data})
	photo.Caption = caption
	photo.ReplyToMessageID = replyTo(opts)

	if _, err := c.bot.Send(photo); err != nil {
		return fmt.Errorf("ошибка при отправке изображения: %w", err)
	}

	return nil
}

// FetchRoster возвращает только администраторов: Bot API не отдает полный список участников.
func (c *Client) FetchRoster(_ context.Context, groupID string) (*models.Roster, error) {
	id, err := parseChatID(groupID)
	if err != nil {
		return nil, err
	}

	chatConfig := tgbotapi.ChatConfig{ChatID: id}

	chat, err := c.bot.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: chatConfig})
	if err != nil {
		return nil, &customerrors.ErrGroupNotFound{GroupID: groupID}
	}

	admins, err := c.bot.GetChatAdministrators(tgbotapi.ChatAdministratorsConfig{ChatConfig: chatConfig})
	if err != nil {
		return nil, fmt.Errorf("не удалось получить администраторов группы %s: %w", groupID, err)
	}

	c.remember(chat.ID, chat.Title)

	return toRoster(chat, admins), nil
}

// JoinedGroups перечисляет группы, из которых бот получал сообщения за время работы процесса.
func (c *Client) JoinedGroups(_ context.Context) ([]models.Roster, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rosters := make([]models.Roster, 0, len(c.groups))
	for id, title := range c.groups {
		rosters = append(rosters, models.Roster{GroupID: formatID(id), Name: title})
	}

	sort.Slice(rosters, func(i, j int) bool { return rosters[i].GroupID < rosters[j].GroupID })

	return rosters, nil
}

func (c *Client) remember(chatID int64, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.groups[chatID] = title
}

func (c *Client) DownloadMedia(ctx context.Context, msg *models.InboundMessage, kind models.MediaKind) ([]byte, error) {
	id, ok := c.mediaFileID(msg, kind)
	if !ok {
		return nil, &customerrors.ErrMediaNotFound{Kind: string(kind)}
	}

	url, err := c.bot.GetFileDirectURL(id)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить ссылку на файл: %w", err)
	}

	resp, err := c.files.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("ошибка при скачивании медиа: %w", err)
	}

	if resp.IsError() {
		return nil, &customerrors.HTTPError{StatusCode: resp.StatusCode(), Message: "ошибка при скачивании медиа"}
	}

	return resp.Body(), nil
}

func (c *Client) mediaFileID(msg *models.InboundMessage, kind models.MediaKind) (string, bool) {
	if raw, ok := msg.Raw.(*tgbotapi.Message); ok {
		if id, found := fileID(raw, kind); found {
			return id, true
		}
	}

	if msg.Quoted != nil {
		if raw, ok := msg.Quoted.Raw.(*tgbotapi.Message); ok {
			return fileID(raw, kind)
		}
	}

	return "", false
}
