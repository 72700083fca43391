package repository

import (
	"context"
	"time"

	"github.com/central-university-dev/go-wanbit/internal/domain/models"
)

// Store - хранилище пользователей, групп, аренды и игры очков.
// Идентификаторы приводятся к ключу хранения внутри реализации.
type Store interface {
	UpsertUser(ctx context.Context, userID, name string) error
	UpsertGroup(ctx context.Context, groupID, name string) error

	GetGroupRental(ctx context.Context, groupID string) (*time.Time, error)
	HasStandingPermission(ctx context.Context, userID string) (bool, error)
	GrantPermission(ctx context.Context, userID string) error
	SetRentalDate(ctx context.Context, groupID, name string, expiry time.Time) error

	// GetGroup возвращает nil без ошибки, если группа еще не сохранялась.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	SetWelcome(ctx context.Context, groupID string, enabled bool, template string) error

	GetPoints(ctx context.Context, userID, groupID string) (int64, error)
	GetDailyStatus(ctx context.Context, userID, groupID string) (*models.DailyStatus, error)
	ClaimRoulette(ctx context.Context, userID, groupID string, points int64) (*models.DailyStatus, error)
	ClaimSteal(ctx context.Context, userID, groupID string) error
	AddPoints(ctx context.Context, userID, groupID string, delta int64) (int64, error)
	TransferPoints(ctx context.Context, fromID, toID, groupID string, amount int64) error
	Steal(ctx context.Context, thiefID, victimID, groupID string, amount int64) error

	ResetDailyLimits(ctx context.Context) (int64, error)
}
