package whatsapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/mattn/go-sqlite3" // драйвер хранилища сессии whatsmeow
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"golang.org/x/sync/semaphore"
	"google.golang.org/protobuf/proto"

	"github.com/central-university-dev/go-wanbit/internal/bot/domain"
	customerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const transportName = "whatsapp"

type Client struct {
	client    *whatsmeow.Client
	container *sqlstore.Container
	logger    *slog.Logger

	dispatchTimeout time.Duration
	handler         domain.MessageHandler
	groupHandler    domain.GroupEventHandler
	connected       atomic.Bool

	// inflight ограничивает число одновременных обработок событий.
	inflight *semaphore.Weighted

	// mu связывает проверку stopping с wg.Add, чтобы Stop не пропустил запущенную обработку.
	mu       sync.Mutex
	stopping bool
	wg       sync.WaitGroup

	baseCtx  context.Context
	cancel   context.CancelFunc
	qrCancel context.CancelFunc
}

func NewClient(
	ctx context.Context,
	sessionPath string,
	dispatchTimeout time.Duration,
	concurrency int,
	logger *slog.Logger,
) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(sessionPath), 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог сессии: %w", err)
	}

	container, err := sqlstore.New(ctx, "sqlite3",
		fmt.Sprintf("file:%s?_foreign_keys=on", sessionPath),
		newLogAdapter(logger, "whatsmeow/db"))
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть хранилище сессии: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		_ = container.Close()
		return nil, fmt.Errorf("не удалось получить устройство: %w", err)
	}

	if concurrency < 1 {
		concurrency = 1
	}

	c := &Client{
		client:          whatsmeow.NewClient(device, newLogAdapter(logger, "whatsmeow/client")),
		container:       container,
		logger:          logger,
		dispatchTimeout: dispatchTimeout,
		inflight:        semaphore.NewWeighted(int64(concurrency)),
	}

	c.client.AddEventHandler(c.handleEvent)

	return c, nil
}

// OnGroupEvent подключает обработчик изменений состава групп. Вызывается до Start.
func (c *Client) OnGroupEvent(handler domain.GroupEventHandler) {
	c.groupHandler = handler
}

// Start подключается к WhatsApp. Без сохраненной сессии QR-код для входа пишется в лог.
func (c *Client) Start(ctx context.Context, handler domain.MessageHandler) error {
	c.handler = handler
	c.baseCtx, c.cancel = context.WithCancel(context.WithoutCancel(ctx))

	if c.client.Store.ID != nil {
		if err := c.client.Connect(); err != nil {
			return fmt.Errorf("не удалось подключиться к WhatsApp: %w", err)
		}

		return nil
	}

	var qrCtx context.Context

	qrCtx, c.qrCancel = context.WithCancel(c.baseCtx)

	qrChan, err := c.client.GetQRChannel(qrCtx)
	if err != nil {
		return fmt.Errorf("не удалось получить канал QR-кодов: %w", err)
	}

	if err := c.client.Connect(); err != nil {
		return fmt.Errorf("не удалось подключиться к WhatsApp: %w", err)
	}

	go c.logQRCodes(qrCtx, qrChan)

	return nil
}

// logQRCodes не учитывается в wg: Stop прерывает вход отменой qrCtx, не дожидаясь его.
func (c *Client) logQRCodes(ctx context.Context, qrChan <-chan whatsmeow.QRChannelItem) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-qrChan:
			if !ok {
				return
			}

			switch evt.Event {
			case whatsmeow.QRChannelEventCode:
				c.logger.Info("Отсканируйте QR-код для входа", "code", evt.Code, "timeout", evt.Timeout)
			case whatsmeow.QRChannelSuccess.Event:
				c.logger.Info("Вход в WhatsApp выполнен")
			default:
				c.logger.Warn("Событие входа по QR-коду", "event", evt.Event)
			}
		}
	}
}

// Stop перестает принимать новые события, ждет уже запущенные обработки, затем отключается.
func (c *Client) Stop(ctx context.Context) error {
	if c.qrCancel != nil {
		c.qrCancel()
	}

	c.mu.Lock()
	c.stopping = true
	c.mu.Unlock()

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		c.logger.Warn("Не дождались завершения обработки сообщений", "error", ctx.Err())
	}

	if c.cancel != nil {
		c.cancel()
	}

	c.client.Disconnect()

	return c.container.Close()
}

func (c *Client) handleEvent(evt any) {
	switch v := evt.(type) {
	case *events.Connected:
		c.connected.Store(true)
		c.logger.Info("Подключено к WhatsApp")

	case *events.Disconnected:
		c.connected.Store(false)
		c.logger.Warn("Соединение с WhatsApp потеряно")

	case *events.LoggedOut:
		c.connected.Store(false)
		c.logger.Error("Сессия WhatsApp завершена", "reason", v.Reason)

	case *events.Message:
		if msg := toInbound(v); msg != nil {
			c.dispatch(msg)
		}

	case *events.GroupInfo:
		for _, groupEvt := range toGroupEvents(v) {
			c.dispatchGroupEvent(groupEvt)
		}
	}
}

// spawn запускает обработку события в отдельной горутине с таймаутом.
// Ожидает свободный слот, поэтому число одновременных обработок ограничено.
func (c *Client) spawn(run func(ctx context.Context)) bool {
	c.mu.Lock()
	if c.stopping {
		c.mu.Unlock()
		return false
	}

	c.wg.Add(1)
	c.mu.Unlock()

	if err := c.inflight.Acquire(c.baseCtx, 1); err != nil {
		c.wg.Done()
		return false
	}

	go func() {
		defer c.wg.Done()
		defer c.inflight.Release(1)

		ctx, cancel := context.WithTimeout(c.baseCtx, c.dispatchTimeout)
		defer cancel()

		run(ctx)
	}()

	return true
}

func (c *Client) dispatch(msg *models.InboundMessage) {
	if c.handler == nil {
		return
	}

	c.spawn(func(ctx context.Context) {
		result := c.handler.Dispatch(ctx, msg)
		if result.Err != nil {
			c.logger.Warn("Обработка сообщения завершилась ошибкой",
				"chat_id", msg.ChatID,
				"state", result.State,
				"command", result.Command,
				"error", result.Err,
			)

			return
		}

		c.logger.Debug("Сообщение обработано", "chat_id", msg.ChatID, "state", result.State, "command", result.Command)
	})
}

func (c *Client) dispatchGroupEvent(evt *models.GroupEvent) {
	if c.groupHandler == nil {
		return
	}

	c.spawn(func(ctx context.Context) {
		if evt.Action == models.GroupJoin {
			c.resolvePhoneNumbers(ctx, evt)
		}

		c.groupHandler.HandleGroupEvent(ctx, evt)
	})
}

// resolvePhoneNumbers заменяет скрытые идентификаторы (LID) участников номерами телефонов,
// если сессия их знает; иначе идентификатор остается прежним.
func (c *Client) resolvePhoneNumbers(ctx context.Context, evt *models.GroupEvent) {
	if c.client == nil || c.client.Store == nil || c.client.Store.LIDs == nil {
		return
	}

	for i, id := range evt.Participants {
		jid, err := types.ParseJID(id)
		if err != nil || jid.Server != types.HiddenUserServer {
			continue
		}

		pn, err := c.client.Store.LIDs.GetPNForLID(ctx, jid)
		if err != nil || pn.IsEmpty() {
			c.logger.Debug("Номер участника по LID не найден", "lid", id, "error", err)
			continue
		}

		evt.Participants[i] = pn.String()

		if name, ok := evt.Names[id]; ok {
			delete(evt.Names, id)
			evt.Names[pn.String()] = name
		}
	}
}

func (c *Client) ensureConnected() error {
	if !c.connected.Load() && !c.client.IsConnected() {
		return &customerrors.ErrNotConnected{Transport: transportName}
	}

	return nil
}

// Health сообщает, есть ли активное соединение с WhatsApp.
func (c *Client) Health(_ context.Context) error {
	return c.ensureConnected()
}

func parseJID(id string) (types.JID, error) {
	jid, err := types.ParseJID(id)
	if err != nil || jid.IsEmpty() {
		return types.EmptyJID, &customerrors.ErrInvalidIdentity{ID: id}
	}

	return jid, nil
}

func (c *Client) send(ctx context.Context, chatID string, msg *waE2E.Message) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}

	jid, err := parseJID(chatID)
	if err != nil {
		return err
	}

	if _, err := c.client.SendMessage(ctx, jid, msg); err != nil {
		return fmt.Errorf("ошибка при отправке сообщения: %w", err)
	}

	return nil
}

func (c *Client) SendText(ctx context.Context, chatID, text string, opts domain.SendOptions) error {
	return c.send(ctx, chatID, textMessage(text, opts))
}

func (c *Client) SendReaction(ctx context.Context, msg *models.InboundMessage, emoji string) error {
	chat, err := parseJID(msg.ChatID)
	if err != nil {
		return err
	}

	sender, err := parseJID(msg.SenderID())
	if err != nil {
		return err
	}

	return c.send(ctx, msg.ChatID, c.client.BuildReaction(chat, sender, msg.ID, emoji))
}

func (c *Client) upload(ctx context.Context, data []byte) (whatsmeow.UploadResponse, error) {
	if err := c.ensureConnected(); err != nil {
		return whatsmeow.UploadResponse{}, err
	}

	uploaded, err := c.client.Upload(ctx, data, whatsmeow.MediaImage)
	if err != nil {
		return whatsmeow.UploadResponse{}, fmt.Errorf("ошибка при загрузке медиа: %w", err)
	}

	return uploaded, nil
}

func (c *Client) SendSticker(ctx context.Context, chatID string, data []byte, opts domain.SendOptions) error {
	uploaded, err := c.upload(ctx, data)
	if err != nil {
		return err
	}

	return c.send(ctx, chatID, &waE2E.Message{
		StickerMessage: &waE2E.StickerMessage{
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
			Mimetype:      proto.String("image/webp"),
			ContextInfo:   buildContextInfo(opts),
		},
	})
}

func (c *Client) SendImage(ctx context.Context, chatID string, data []byte, caption string, opts domain.SendOptions) error {
	uploaded, err := c.upload(ctx, data)
	if err != nil {
		return err
	}

	return c.send(ctx, chatID, &waE2E.Message{
		ImageMessage: &waE2E.ImageMessage{
			URL:           proto.String(uploaded.URL),
			DirectPath:    proto.String(uploaded.DirectPath),
			MediaKey:      uploaded.MediaKey,
			FileEncSHA256: uploaded.FileEncSHA256,
			FileSHA256:    uploaded.FileSHA256,
			FileLength:    proto.Uint64(uploaded.FileLength),
			Mimetype:      proto.String(http.DetectContentType(data)),
			Caption:       proto.String(caption),
			ContextInfo:   buildContextInfo(opts),
		},
	})
}

func (c *Client) FetchRoster(ctx context.Context, groupID string) (*models.Roster, error) {
	if !models.IsGroupID(groupID) {
		return nil, &customerrors.ErrGroupNotFound{GroupID: groupID}
	}

	jid, err := parseJID(groupID)
	if err != nil {
		return nil, err
	}

	info, err := c.client.GetGroupInfo(ctx, jid)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить участников группы %s: %w", groupID, err)
	}

	return toRoster(info), nil
}

func (c *Client) JoinedGroups(ctx context.Context) ([]models.Roster, error) {
	groups, err := c.client.GetJoinedGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить список групп: %w", err)
	}

	rosters := make([]models.Roster, 0, len(groups))
	for _, group := range groups {
		rosters = append(rosters, *toRoster(group))
	}

	return rosters, nil
}

func (c *Client) DownloadMedia(ctx context.Context, msg *models.InboundMessage, kind models.MediaKind) ([]byte, error) {
	media, ok := downloadable(msg, kind)
	if !ok {
		return nil, &customerrors.ErrMediaNotFound{Kind: string(kind)}
	}

	data, err := c.client.Download(ctx, media)
	if err != nil {
		return nil, fmt.Errorf("ошибка при скачивании медиа: %w", err)
	}

	return data, nil
}
