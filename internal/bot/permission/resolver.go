package permission

import (
	"context"
	"log/slog"
	"time"

	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

type Decision int

const (
	DenyPermission Decision = iota
	DenyEntitlement
	Allow
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyEntitlement:
		return "deny_entitlement"
	default:
		return "deny_permission"
	}
}

type RosterProvider interface {
	FetchRoster(ctx context.Context, groupID string) (*models.Roster, error)
}

type EntitlementStore interface {
	HasStandingPermission(ctx context.Context, userID string) (bool, error)
	GetGroupRental(ctx context.Context, groupID string) (*time.Time, error)
}

type Request struct {
	Tier     models.AccessTier
	SenderID string
	ChatID   string
	IsGroup  bool
}

type rule struct {
	name  string
	apply func(ctx context.Context, req Request) (Decision, bool)
}

// Resolver применяет правила строго по порядку; первое сработавшее правило решает.
type Resolver struct {
	ownerID      string
	rosters      RosterProvider
	entitlements EntitlementStore
	logger       *slog.Logger
	now          func() time.Time

	rules []rule
}

func NewResolver(ownerID string, rosters RosterProvider, entitlements EntitlementStore, logger *slog.Logger) *Resolver {
	r := &Resolver{
		ownerID:      ownerID,
		rosters:      rosters,
		entitlements: entitlements,
		logger:       logger,
		now:          time.Now,
	}

	r.rules = []rule{
		{name: "global_owner", apply: r.globalOwner},
		{name: "member", apply: r.member},
		{name: "admin", apply: r.admin},
		{name: "owner_tier", apply: denyTier(models.TierOwner)},
	}

	return r
}

// WithClock подменяет источник времени для проверки аренды.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

func (r *Resolver) Authorize(ctx context.Context, req Request) Decision {
	for _, rl := range r.rules {
		if decision, ok := rl.apply(ctx, req); ok {
			r.logger.Debug("Решение о доступе",
				"rule", rl.name,
				"decision", decision.String(),
				"tier", req.Tier,
				"sender", req.SenderID,
				"chat_id", req.ChatID,
			)

			return decision
		}
	}

	r.logger.Warn("Неизвестный уровень доступа, доступ запрещен",
		"tier", req.Tier,
		"sender", req.SenderID,
	)

	return DenyPermission
}

func (r *Resolver) globalOwner(_ context.Context, req Request) (Decision, bool) {
	if models.SameIdentity(req.SenderID, r.ownerID) {
		return Allow, true
	}

	return DenyPermission, false
}

func (r *Resolver) member(ctx context.Context, req Request) (Decision, bool) {
	if req.Tier != models.TierMember {
		return DenyPermission, false
	}

	if r.entitled(ctx, req) {
		return Allow, true
	}

	return DenyEntitlement, true
}

// entitled: в личке нужна постоянная подписка отправителя, в группе - действующая аренда.
// Ошибка хранилища трактуется как отсутствие доступа.
func (r *Resolver) entitled(ctx context.Context, req Request) bool {
	if !req.IsGroup {
		ok, err := r.entitlements.HasStandingPermission(ctx, req.SenderID)
		if err != nil {
			r.logger.Error("Ошибка при проверке подписки пользователя",
				"error", err,
				"sender", req.SenderID,
			)

			return false
		}

		return ok
	}

	expiry, err := r.entitlements.GetGroupRental(ctx, req.ChatID)
	if err != nil {
		r.logger.Error("Ошибка при проверке аренды группы",
			"error", err,
			"chat_id", req.ChatID,
		)

		return false
	}

	return expiry != nil && expiry.After(r.now())
}

func (r *Resolver) admin(ctx context.Context, req Request) (Decision, bool) {
	if req.Tier != models.TierAdmin {
		return DenyPermission, false
	}

	if !req.IsGroup {
		return DenyPermission, true
	}

	roster, err := r.rosters.FetchRoster(ctx, req.ChatID)
	if err != nil {
		r.logger.Error("Не удалось получить список участников группы",
			"error", err,
			"chat_id", req.ChatID,
		)

		return DenyPermission, true
	}

	if roster == nil || len(roster.Participants) == 0 {
		return DenyPermission, true
	}

	participant, ok := roster.Find(req.SenderID)
	if !ok {
		return DenyPermission, true
	}

	if participant.HasAdminRights() || models.SameIdentity(participant.ID, roster.OwnerID) {
		return Allow, true
	}

	return DenyPermission, true
}

func denyTier(tier models.AccessTier) func(context.Context, Request) (Decision, bool) {
	return func(_ context.Context, req Request) (Decision, bool) {
		return DenyPermission, req.Tier == tier
	}
}
