package welcome

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/central-university-dev/go-wanbit/internal/bot/domain"
	"github.com/central-university-dev/go-wanbit/internal/common/metrics"
	customerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

const (
	DefaultTemplate = "Bem-vindo @{memberName} ao grupo {groupName}! 🎉\n\n" +
		"Fique à vontade para participar das conversas. Respeito e diversidade são valores importantes por aqui! 💪"

	defaultGroupName = "Grupo"

	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

type GroupStore interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
}

type Sender interface {
	SendText(ctx context.Context, chatID, text string, opts domain.SendOptions) error
}

type Variables struct {
	MemberID   string
	MemberName string
	GroupName  string
	At         time.Time
}

// Render подставляет в шаблон {memberName}, {groupName}, {date} и {time}.
// Участник попадает в упоминания, только если шаблон содержит {memberName}.
func Render(template string, vars Variables) (string, []string, error) {
	switch {
	case strings.TrimSpace(template) == "":
		return "", nil, &customerrors.ErrInvalidArgument{Message: "пустой шаблон приветствия"}
	case vars.MemberName == "":
		return "", nil, &customerrors.ErrInvalidArgument{Message: "не указано имя участника"}
	case vars.GroupName == "":
		return "", nil, &customerrors.ErrInvalidArgument{Message: "не указано название группы"}
	}

	text := strings.NewReplacer(
		"{memberName}", vars.MemberName,
		"{groupName}", vars.GroupName,
		"{date}", vars.At.Format(dateLayout),
		"{time}", vars.At.Format(timeLayout),
	).Replace(template)

	var mentions []string
	if vars.MemberID != "" && strings.Contains(template, "{memberName}") {
		mentions = []string{vars.MemberID}
	}

	return text, mentions, nil
}

// Service приветствует новых участников группы по ее шаблону.
type Service struct {
	store    GroupStore
	sender   Sender
	location *time.Location
	logger   *slog.Logger

	now func() time.Time
}

func NewService(store GroupStore, sender Sender, location *time.Location, logger *slog.Logger) *Service {
	if location == nil {
		location = time.UTC
	}

	return &Service{
		store:    store,
		sender:   sender,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// Welcome отправляет приветствие каждому вошедшему участнику. Ошибка по одному
// участнику не прерывает остальных; все ошибки возвращаются вместе.
func (s *Service) Welcome(ctx context.Context, evt *models.GroupEvent) error {
	if evt == nil || evt.Action != models.GroupJoin || len(evt.Participants) == 0 {
		return nil
	}

	group := s.group(ctx, evt.GroupID)
	if group != nil && !group.WelcomeEnabled {
		s.logger.Debug("Приветствие отключено в группе", "group_id", evt.GroupID)
		return nil
	}

	groupName := defaultGroupName
	template := DefaultTemplate

	if group != nil {
		if group.Name != "" {
			groupName = group.Name
		}

		if group.WelcomeMessage != "" {
			template = group.WelcomeMessage
		}
	}

	at := s.now().In(s.location)

	var errs error

	for _, memberID := range evt.Participants {
		name := evt.Names[memberID]
		if name == "" {
			name = models.StorageKey(memberID)
		}

		s.logger.Info("Новый участник группы",
			"group_id", evt.GroupID,
			"member_id", memberID,
			"member_name", name,
		)

		if err := s.send(ctx, evt.GroupID, template, Variables{
			MemberID:   memberID,
			MemberName: name,
			GroupName:  groupName,
			At:         at,
		}); err != nil {
			metrics.RecordWelcome("error")
			s.logger.Error("Не удалось отправить приветствие",
				"error", err,
				"group_id", evt.GroupID,
				"member_id", memberID,
			)

			errs = multierr.Append(errs, err)

			continue
		}

		metrics.RecordWelcome("success")
		s.logger.Info("Приветствие отправлено", "group_id", evt.GroupID, "member_id", memberID)
	}

	return errs
}

func (s *Service) group(ctx context.Context, groupID string) *models.Group {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		s.logger.Warn("Группа не прочитана из базы, используется название по умолчанию",
			"error", err,
			"group_id", groupID,
		)

		return nil
	}

	return group
}

func (s *Service) send(ctx context.Context, groupID, template string, vars Variables) error {
	text, mentions, err := Render(template, vars)
	if err != nil {
		return err
	}

	if err := s.sender.SendText(ctx, groupID, text, domain.SendOptions{Mentions: mentions}); err != nil {
		return fmt.Errorf("ошибка при отправке приветствия: %w", err)
	}

	return nil
}
