package telegram

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/central-university-dev/go-wanbit/internal/bot/domain"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const pollTimeoutSeconds = 60

type Poller struct {
	client          *Client
	handler         domain.MessageHandler
	groupHandler    domain.GroupEventHandler
	dispatchTimeout time.Duration
	logger          *slog.Logger

	updatesChan tgbotapi.UpdatesChannel
	stopChan    chan struct{}
	wg          sync.WaitGroup
	baseCtx     context.Context
	cancel      context.CancelFunc
}

func NewPoller(client *Client, dispatchTimeout time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		client:          client,
		dispatchTimeout: dispatchTimeout,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// OnGroupEvent подключает обработчик входа и выхода участников. Вызывается до Start.
func (p *Poller) OnGroupEvent(handler domain.GroupEventHandler) {
	p.groupHandler = handler
}

func (p *Poller) Start(ctx context.Context, handler domain.MessageHandler) error {
	p.logger.Info("Запуск Telegram поллера", "bot", p.client.Username())

	p.handler = handler
	p.baseCtx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds

	p.updatesChan = p.client.bot.GetUpdatesChan(u)

	p.wg.Add(1)

	go func() {
		defer p.wg.Done()

		for {
			select {
			case <-p.stopChan:
				p.logger.Info("Получен сигнал остановки поллера")
				return
			case update, ok := <-p.updatesChan:
				if !ok {
					return
				}

				p.processUpdate(&update)
			}
		}
	}()

	return nil
}

// Stop прекращает получение обновлений и ждет обработку уже принятых сообщений.
func (p *Poller) Stop(ctx context.Context) error {
	p.logger.Info("Остановка Telegram поллера")

	p.client.bot.StopReceivingUpdates()
	close(p.stopChan)

	done := make(chan struct{})

	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warn("Не дождались завершения обработки сообщений", "error", ctx.Err())
	}

	if p.cancel != nil {
		p.cancel()
	}

	return nil
}

func (p *Poller) processUpdate(update *tgbotapi.Update) {
	if p.groupHandler != nil {
		for _, evt := range toGroupEvents(update.Message) {
			p.processGroupEvent(evt)
		}
	}

	msg := toInbound(update.Message, p.client.Username())
	if msg == nil {
		return
	}

	if msg.IsGroup {
		p.client.remember(update.Message.Chat.ID, update.Message.Chat.Title)
	}

	p.wg.Add(1)

	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(p.baseCtx, p.dispatchTimeout)
		defer cancel()

		result := p.handler.Dispatch(ctx, msg)
		if result.Err != nil {
			p.logger.Warn("Ошибка при обработке сообщения",
				"chat_id", msg.ChatID,
				"state", result.State,
				"command", result.Command,
				"error", result.Err,
			)

			return
		}

		p.logger.Debug("Сообщение обработано", "chat_id", msg.ChatID, "state", result.State, "command", result.Command)
	}()
}

func (p *Poller) processGroupEvent(evt *models.GroupEvent) {
	p.wg.Add(1)

	go func() {
		defer p.wg.Done()

		ctx, cancel := context.WithTimeout(p.baseCtx, p.dispatchTimeout)
		defer cancel()

		p.groupHandler.HandleGroupEvent(ctx, evt)
	}()
}
