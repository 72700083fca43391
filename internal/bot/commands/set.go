package commands

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/central-university-dev/go-wanbit/internal/bot/command"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

// MaxGamePoints - верхняя граница выигрыша в рулетке и суммы кражи, включительно.
const MaxGamePoints = 100

type PointsStore interface {
	GetDailyStatus(ctx context.Context, userID, groupID string) (*models.DailyStatus, error)
	ClaimRoulette(ctx context.Context, userID, groupID string, points int64) (*models.DailyStatus, error)
	Steal(ctx context.Context, thiefID, victimID, groupID string, amount int64) error
}

type AccessStore interface {
	GrantPermission(ctx context.Context, userID string) error
	SetRentalDate(ctx context.Context, groupID, name string, expiry time.Time) error
}

type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type StickerRenderer interface {
	ImageSticker(ctx context.Context, data []byte) ([]byte, error)
	VideoSticker(ctx context.Context, data []byte) ([]byte, error)
	TextSticker(ctx context.Context, text string) ([]byte, error)
}

type WelcomeStore interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	SetWelcome(ctx context.Context, groupID string, enabled bool, template string) error
}

type SuggestionNotifier interface {
	NotifySuggestion(ctx context.Context, suggestion *models.Suggestion) error
}

// Catalog - реестр, из которого menu берет список команд, а reload сбрасывает кэш.
type Catalog interface {
	Definitions(ctx context.Context, tier models.AccessTier) ([]*command.Definition, error)
	Invalidate()
	Load(ctx context.Context) error
}

type Deps struct {
	Points      PointsStore
	Access      AccessStore
	AI          Completer
	Stickers    StickerRenderer
	Suggestions SuggestionNotifier
	Welcome     WelcomeStore
	Logger      *slog.Logger

	// Roll возвращает случайное число в [0, n). По умолчанию math/rand/v2.
	Roll func(n int) int
	Now  func() time.Time
}

// Set - набор встроенных команд бота. Реализует command.Source.
type Set struct {
	deps    Deps
	catalog Catalog
	defs    []*command.Definition
}

func NewSet(deps Deps) *Set {
	if deps.Roll == nil {
		deps.Roll = rand.IntN
	}

	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := &Set{deps: deps}

	s.defs = append(s.defs, s.memberCommands()...)
	s.defs = append(s.defs, s.adminCommands()...)
	s.defs = append(s.defs, s.ownerCommands()...)

	return s
}

// Bind подключает реестр, построенный поверх этого набора.
func (s *Set) Bind(catalog Catalog) {
	s.catalog = catalog
}

func (s *Set) Definitions(ctx context.Context) (map[models.AccessTier][]*command.Definition, error) {
	return command.StaticSource(s.defs).Definitions(ctx)
}

func (s *Set) roll() int64 {
	return int64(s.deps.Roll(MaxGamePoints + 1))
}
