package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/central-university-dev/go-wanbit/internal/bot/command"
	"github.com/central-university-dev/go-wanbit/internal/bot/domain"
	"github.com/central-university-dev/go-wanbit/internal/bot/normalizer"
	"github.com/central-university-dev/go-wanbit/internal/bot/permission"
	"github.com/central-university-dev/go-wanbit/internal/bot/registry"
	"github.com/central-university-dev/go-wanbit/internal/common/metrics"
	domainerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const tracerName = "github.com/central-university-dev/go-wanbit/internal/bot/service"

const (
	replyNoPermission      = "Você não tem permissão para executar este comando!"
	replyGroupNotRented    = "Este grupo não possui um aluguel ativo! Adquira o acesso com o dono do bot."
	replyDirectNotRented   = "Você não possui acesso ao bot! Adquira o acesso com o dono do bot."
	replyInvalidParameters = "Parâmetros inválidos! "
	replyDanger            = "Erro ao executar o comando!"
	replyUnclassified      = "Ocorreu um erro ao executar o comando: %s! O desenvolvedor foi notificado."
	replyUnknownCommand    = "Comando não encontrado! Use %smenu para ver os comandos disponíveis."
)

type Housekeeper interface {
	UpsertUser(ctx context.Context, userID, name string) error

	UpsertGroup(ctx context.Context, groupID, name string) error
}

type CommandLookup interface {
	Lookup(ctx context.Context, token string) (registry.Match, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, req permission.Request) permission.Decision
}

type IncidentNotifier interface {
	NotifyIncident(ctx context.Context, incident *models.Incident) error
}

type Throttler interface {
	Allow(key string) bool
}

type Options struct {
	Transport           string
	ReplyUnknownCommand bool
	HousekeepingTimeout time.Duration
}

// Dispatcher проводит входящее сообщение через весь конвейер:
// нормализация, ограничение частоты, учет, поиск, авторизация, вызов, классификация.
type Dispatcher struct {
	normalizer  *normalizer.Normalizer
	throttler   Throttler
	housekeeper Housekeeper
	commands    CommandLookup
	authorizer  Authorizer
	builder     *command.Builder
	incidents   IncidentNotifier
	opts        Options
	logger      *slog.Logger
	tracer      trace.Tracer
}

func NewDispatcher(
	norm *normalizer.Normalizer,
	throttler Throttler,
	housekeeper Housekeeper,
	commands CommandLookup,
	authorizer Authorizer,
	builder *command.Builder,
	incidents IncidentNotifier,
	opts Options,
	logger *slog.Logger,
) *Dispatcher {
	if opts.HousekeepingTimeout <= 0 {
		opts.HousekeepingTimeout = 3 * time.Second
	}

	return &Dispatcher{
		normalizer:  norm,
		throttler:   throttler,
		housekeeper: housekeeper,
		commands:    commands,
		authorizer:  authorizer,
		builder:     builder,
		incidents:   incidents,
		opts:        opts,
		logger:      logger,
		tracer:      otel.Tracer(tracerName),
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg *models.InboundMessage) (result domain.DispatchResult) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Паника в конвейере обработки сообщения",
				"panic", r,
				"stack", string(debug.Stack()),
			)

			result = domain.DispatchResult{State: domain.StateFailed, Err: fmt.Errorf("panic: %v", r)}
		}

		metrics.RecordDispatch(string(result.State))
	}()

	inv, ok := d.normalizer.Normalize(msg)
	if !ok {
		return domain.DispatchResult{State: domain.StateNotACommand}
	}

	metrics.RecordInboundMessage(d.opts.Transport, inv.IsGroup)

	ctx, span := d.tracer.Start(ctx, "dispatch "+inv.CommandToken,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("wanbit.command.token", inv.CommandToken),
			attribute.Bool("wanbit.chat.group", inv.IsGroup),
			attribute.Int("wanbit.command.args", len(inv.Args)),
		),
	)
	defer span.End()

	result = d.dispatch(ctx, inv)

	span.SetAttributes(attribute.String("wanbit.dispatch.state", string(result.State)))

	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, string(result.State))
	}

	return result
}

func (d *Dispatcher) dispatch(ctx context.Context, inv *models.Invocation) domain.DispatchResult {
	if d.throttler != nil && !d.throttler.Allow(models.StorageKey(inv.SenderID)) {
		d.logger.Debug("Превышен лимит запросов отправителя",
			"sender", inv.SenderID,
			"command", inv.CommandToken,
		)

		return domain.DispatchResult{State: domain.StateThrottled, Command: inv.CommandToken}
	}

	d.housekeeping(ctx, inv)

	match, err := d.commands.Lookup(ctx, inv.CommandToken)
	if err != nil {
		return d.unknownCommand(ctx, inv, err)
	}

	def := match.Definition
	commandCtx := d.builder.Build(inv, def)

	decision := d.authorizer.Authorize(ctx, permission.Request{
		Tier:     match.Tier,
		SenderID: inv.SenderID,
		ChatID:   inv.ChatID,
		IsGroup:  inv.IsGroup,
	})

	metrics.RecordPermissionDecision(string(match.Tier), decision.String())

	if decision != permission.Allow {
		return d.denied(ctx, commandCtx, decision)
	}

	start := time.Now()
	stack, err := d.invoke(ctx, commandCtx)
	duration := time.Since(start)

	kind, failure := command.Classify(err)

	outcome := "success"
	if err != nil {
		outcome = kind.String()
	}

	metrics.RecordCommandExecution(def.Name, outcome, duration)

	if err == nil {
		d.logger.Info("Команда выполнена",
			"command", def.Name,
			"tier", match.Tier,
			"sender", inv.SenderID,
			"chat_id", inv.ChatID,
			"media", string(inv.Media),
			"args", len(inv.Args),
			"duration", duration,
		)

		return domain.DispatchResult{State: domain.StateCompleted, Command: def.Name, Tier: match.Tier}
	}

	d.classify(ctx, commandCtx, kind, failure, err, stack)

	return domain.DispatchResult{State: domain.StateFailed, Command: def.Name, Tier: match.Tier, Err: err}
}

// housekeeping обновляет записи отправителя и группы. Ошибки только логируются.
func (d *Dispatcher) housekeeping(ctx context.Context, inv *models.Invocation) {
	if d.housekeeper == nil {
		return
	}

	hctx, cancel := context.WithTimeout(ctx, d.opts.HousekeepingTimeout)
	defer cancel()

	if err := d.housekeeper.UpsertUser(hctx, inv.SenderID, inv.PushName); err != nil {
		metrics.RecordHousekeepingError(domainerrors.OpUpsertUser)
		d.logger.Error("Ошибка при сохранении пользователя",
			"error", err,
			"sender", inv.SenderID,
		)
	}

	if !inv.IsGroup {
		return
	}

	if err := d.housekeeper.UpsertGroup(hctx, inv.ChatID, ""); err != nil {
		metrics.RecordHousekeepingError(domainerrors.OpUpsertGroup)
		d.logger.Error("Ошибка при сохранении группы",
			"error", err,
			"chat_id", inv.ChatID,
		)
	}
}

func (d *Dispatcher) unknownCommand(ctx context.Context, inv *models.Invocation, err error) domain.DispatchResult {
	if !errors.Is(err, &domainerrors.ErrUnknownCommand{}) {
		d.logger.Error("Ошибка при поиске команды",
			"error", err,
			"command", inv.CommandToken,
		)

		return domain.DispatchResult{State: domain.StateFailed, Command: inv.CommandToken, Err: err}
	}

	d.logger.Debug("Команда не найдена",
		"command", inv.CommandToken,
		"sender", inv.SenderID,
		"chat_id", inv.ChatID,
	)

	if d.opts.ReplyUnknownCommand {
		c := d.builder.Build(inv, &command.Definition{Name: inv.CommandToken})

		if replyErr := c.SendWarningReply(ctx, fmt.Sprintf(replyUnknownCommand, inv.Prefix)); replyErr != nil {
			d.logger.Warn("Не удалось отправить ответ", "error", replyErr, "chat_id", inv.ChatID)
		}
	}

	return domain.DispatchResult{State: domain.StateUnknownCommand, Command: inv.CommandToken}
}

func (d *Dispatcher) denied(ctx context.Context, c *command.Context, decision permission.Decision) domain.DispatchResult {
	text := replyNoPermission

	if decision == permission.DenyEntitlement {
		text = replyDirectNotRented
		if c.IsGroup {
			text = replyGroupNotRented
		}
	}

	d.logger.Warn("Доступ к команде запрещен",
		"command", c.Definition.Name,
		"tier", c.Tier(),
		"decision", decision.String(),
		"sender", c.SenderID,
		"chat_id", c.ChatID,
	)

	if err := c.SendWarningReply(ctx, text); err != nil {
		d.logger.Warn("Не удалось отправить ответ", "error", err, "chat_id", c.ChatID)
	}

	return domain.DispatchResult{State: domain.StateDeniedByPolicy, Command: c.Definition.Name, Tier: c.Tier()}
}

// invoke вызывает обработчик; паника превращается в неклассифицированную ошибку со стеком.
func (d *Dispatcher) invoke(ctx context.Context, c *command.Context) (stack string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("паника в команде %s: %v", c.Definition.Name, r)
			stack = string(debug.Stack())
		}
	}()

	err = c.Definition.Handler(ctx, c)
	if err != nil {
		stack = fmt.Sprintf("%+v", err)
	}

	return stack, err
}

func (d *Dispatcher) classify(
	ctx context.Context,
	c *command.Context,
	kind command.Kind,
	failure *command.Failure,
	err error,
	stack string,
) {
	var replyErr error

	switch kind {
	case command.KindInvalidParameter:
		d.logger.Warn("Некорректные параметры команды",
			"command", c.Definition.Name,
			"detail", failure.Message,
			"sender", c.SenderID,
		)

		replyErr = c.SendWarningReply(ctx, replyInvalidParameters+failure.Message)
	case command.KindWarning:
		d.logger.Warn("Предупреждение команды",
			"command", c.Definition.Name,
			"detail", failure.Message,
			"sender", c.SenderID,
		)

		replyErr = c.SendWarningReply(ctx, failure.Message)
	case command.KindDanger:
		d.logger.Error("Ошибка выполнения команды",
			"command", c.Definition.Name,
			"error", err,
			"stack", stack,
			"sender", c.SenderID,
			"chat_id", c.ChatID,
		)

		replyErr = c.SendErrorReply(ctx, replyDanger)
	default:
		d.logger.Error("Непредвиденная ошибка команды",
			"command", c.Definition.Name,
			"error", err,
			"stack", stack,
			"sender", c.SenderID,
			"chat_id", c.ChatID,
		)

		replyErr = c.SendErrorReply(ctx, fmt.Sprintf(replyUnclassified, c.Definition.Name))

		d.reportIncident(ctx, c, err, stack)
	}

	if replyErr != nil {
		d.logger.Warn("Не удалось отправить ответ", "error", replyErr, "chat_id", c.ChatID)
	}
}

func (d *Dispatcher) reportIncident(ctx context.Context, c *command.Context, err error, stack string) {
	if d.incidents == nil {
		return
	}

	incident := &models.Incident{
		Command:   c.Definition.Name,
		SenderID:  c.SenderID,
		ChatID:    c.ChatID,
		Error:     err.Error(),
		Stack:     stack,
		CreatedAt: time.Now().UTC(),
	}

	if notifyErr := d.incidents.NotifyIncident(ctx, incident); notifyErr != nil {
		d.logger.Error("Не удалось уведомить разработчика",
			"error", notifyErr,
			"command", c.Definition.Name,
		)
	}
}
