package sql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/central-university-dev/go-wanbit/internal/common/metrics"
	"github.com/central-university-dev/go-wanbit/internal/database"
	customerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
	"github.com/central-university-dev/go-wanbit/pkg/txs"
)

const (
	upsertUserQuery = `
INSERT INTO users (id, name, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW())
ON CONFLICT (id) DO UPDATE
SET name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
    updated_at = NOW()`

	upsertGroupQuery = `
INSERT INTO groups (id, name, created_at, updated_at)
VALUES ($1, $2, NOW(), NOW())
ON CONFLICT (id) DO UPDATE
SET name = COALESCE(NULLIF(EXCLUDED.name, ''), groups.name),
    updated_at = NOW()`

	grantPermissionQuery = `
INSERT INTO users (id, has_permission, created_at, updated_at)
VALUES ($1, TRUE, NOW(), NOW())
ON CONFLICT (id) DO UPDATE
SET has_permission = TRUE,
    updated_at = NOW()`

	setRentalDateQuery = `
INSERT INTO groups (id, name, expire_rental, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
ON CONFLICT (id) DO UPDATE
SET expire_rental = EXCLUDED.expire_rental,
    name = COALESCE(NULLIF(EXCLUDED.name, ''), groups.name),
    updated_at = NOW()`

	// Повторный вызов за день не проходит WHERE, строка не меняется и RETURNING пуст.
	claimRouletteQuery = `
INSERT INTO user_groups (user_id, group_id, points, roulettes, created_at, updated_at)
VALUES ($1, $2, $3, 1, NOW(), NOW())
ON CONFLICT (user_id, group_id) DO UPDATE
SET points = user_groups.points + EXCLUDED.points,
    roulettes = user_groups.roulettes + 1,
    updated_at = NOW()
WHERE user_groups.roulettes = 0
RETURNING points, roulettes, stole_today`

	claimStealQuery = `
INSERT INTO user_groups (user_id, group_id, stole_today, created_at, updated_at)
VALUES ($1, $2, TRUE, NOW(), NOW())
ON CONFLICT (user_id, group_id) DO UPDATE
SET stole_today = TRUE,
    updated_at = NOW()
WHERE user_groups.stole_today = FALSE
RETURNING user_id`

	creditPointsQuery = `
INSERT INTO user_groups (user_id, group_id, points, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
ON CONFLICT (user_id, group_id) DO UPDATE
SET points = GREATEST(user_groups.points + EXCLUDED.points, 0),
    updated_at = NOW()
RETURNING points`

	debitPointsQuery = `
UPDATE user_groups
SET points = points - $3,
    updated_at = NOW()
WHERE user_id = $1 AND group_id = $2 AND points >= $3
RETURNING points`

	getGroupQuery = `
SELECT id, name, expire_rental, welcome_message, welcome_enabled, created_at, updated_at
FROM groups
WHERE id = $1`

	setWelcomeQuery = `
INSERT INTO groups (id, welcome_message, welcome_enabled, created_at, updated_at)
VALUES ($1, $2, $3, NOW(), NOW())
ON CONFLICT (id) DO UPDATE
SET welcome_message = EXCLUDED.welcome_message,
    welcome_enabled = EXCLUDED.welcome_enabled,
    updated_at = NOW()`

	resetDailyLimitsQuery = `
UPDATE user_groups
SET roulettes = 0,
    stole_today = FALSE,
    updated_at = NOW()
WHERE roulettes <> 0 OR stole_today`
)

type Store struct {
	db        *database.PostgresDB
	txManager *txs.TxManager
}

func NewStore(db *database.PostgresDB, txManager *txs.TxManager) *Store {
	return &Store{db: db, txManager: txManager}
}

func observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	metrics.RecordDatabaseQuery(operation, status, time.Since(start))
}

func (s *Store) UpsertUser(ctx context.Context, userID, name string) error {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	_, err := querier.Exec(ctx, upsertUserQuery, models.StorageKey(userID), name)
	observe(customerrors.OpUpsertUser, start, err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: customerrors.OpUpsertUser, Cause: err}
	}

	return nil
}

func (s *Store) UpsertGroup(ctx context.Context, groupID, name string) error {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	_, err := querier.Exec(ctx, upsertGroupQuery, models.StorageKey(groupID), name)
	observe(customerrors.OpUpsertGroup, start, err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: customerrors.OpUpsertGroup, Cause: err}
	}

	return nil
}

func (s *Store) GetGroupRental(ctx context.Context, groupID string) (*time.Time, error) {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	var expiry *time.Time

	err := querier.QueryRow(ctx, "SELECT expire_rental FROM groups WHERE id = $1", models.StorageKey(groupID)).
		Scan(&expiry)
	if errors.Is(err, pgx.ErrNoRows) {
		observe(customerrors.OpGetGroupRental, start, nil)
		return nil, nil
	}

	observe(customerrors.OpGetGroupRental, start, err)

	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: customerrors.OpGetGroupRental, Cause: err}
	}

	return expiry, nil
}

func (s *Store) HasStandingPermission(ctx context.Context, userID string) (bool, error) {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	var allowed bool

	err := querier.QueryRow(ctx, "SELECT has_permission FROM users WHERE id = $1", models.StorageKey(userID)).
		Scan(&allowed)
	if errors.Is(err, pgx.ErrNoRows) {
		observe(customerrors.OpGetPermission, start, nil)
		return false, nil
	}

	observe(customerrors.OpGetPermission, start, err)

	if err != nil {
		return false, &customerrors.ErrSQLExecution{Operation: customerrors.OpGetPermission, Cause: err}
	}

	return allowed, nil
}

func (s *Store) GrantPermission(ctx context.Context, userID string) error {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	_, err := querier.Exec(ctx, grantPermissionQuery, models.StorageKey(userID))
	observe(customerrors.OpGrantPermission, start, err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: customerrors.OpGrantPermission, Cause: err}
	}

	return nil
}

func (s *Store) SetRentalDate(ctx context.Context, groupID, name string, expiry time.Time) error {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	_, err := querier.Exec(ctx, setRentalDateQuery, models.StorageKey(groupID), name, expiry)
	observe(customerrors.OpSetRentalDate, start, err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: customerrors.OpSetRentalDate, Cause: err}
	}

	return nil
}

func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	group := &models.Group{}

	err := querier.QueryRow(ctx, getGroupQuery, models.StorageKey(groupID)).Scan(
		&group.ID,
		&group.Name,
		&group.ExpireRental,
		&group.WelcomeMessage,
		&group.WelcomeEnabled,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		observe(customerrors.OpGetGroup, start, nil)
		return nil, nil
	}

	observe(customerrors.OpGetGroup, start, err)

	if err != nil {
		return nil, &customerrors.ErrSQLScan{Entity: "groups", Cause: err}
	}

	return group, nil
}

func (s *Store) SetWelcome(ctx context.Context, groupID string, enabled bool, template string) error {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	_, err := querier.Exec(ctx, setWelcomeQuery, models.StorageKey(groupID), template, enabled)
	observe(customerrors.OpSetWelcome, start, err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: customerrors.OpSetWelcome, Cause: err}
	}

	return nil
}

func (s *Store) GetPoints(ctx context.Context, userID, groupID string) (int64, error) {
	status, err := s.GetDailyStatus(ctx, userID, groupID)
	if err != nil {
		return 0, err
	}

	return status.Points, nil
}

func (s *Store) GetDailyStatus(ctx context.Context, userID, groupID string) (*models.DailyStatus, error) {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	status := &models.DailyStatus{}

	err := querier.QueryRow(ctx,
		"SELECT points, roulettes, stole_today FROM user_groups WHERE user_id = $1 AND group_id = $2",
		models.StorageKey(userID), models.StorageKey(groupID),
	).Scan(&status.Points, &status.Roulettes, &status.StoleToday)
	if errors.Is(err, pgx.ErrNoRows) {
		observe(customerrors.OpGetDailyStatus, start, nil)
		return status, nil
	}

	observe(customerrors.OpGetDailyStatus, start, err)

	if err != nil {
		return nil, &customerrors.ErrSQLScan{Entity: "user_groups", Cause: err}
	}

	return status, nil
}

func (s *Store) ClaimRoulette(ctx context.Context, userID, groupID string, points int64) (*models.DailyStatus, error) {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	status := &models.DailyStatus{}

	err := querier.QueryRow(ctx, claimRouletteQuery, models.StorageKey(userID), models.StorageKey(groupID), points).
		Scan(&status.Points, &status.Roulettes, &status.StoleToday)
	if errors.Is(err, pgx.ErrNoRows) {
		observe(customerrors.OpClaimRoulette, start, nil)
		return nil, &customerrors.ErrLimitReached{Action: "roulette", UserID: userID, GroupID: groupID}
	}

	observe(customerrors.OpClaimRoulette, start, err)

	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: customerrors.OpClaimRoulette, Cause: err}
	}

	return status, nil
}

func (s *Store) ClaimSteal(ctx context.Context, userID, groupID string) error {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	var claimed string

	err := querier.QueryRow(ctx, claimStealQuery, models.StorageKey(userID), models.StorageKey(groupID)).Scan(&claimed)
	if errors.Is(err, pgx.ErrNoRows) {
		observe(customerrors.OpClaimSteal, start, nil)
		return &customerrors.ErrLimitReached{Action: "steal", UserID: userID, GroupID: groupID}
	}

	observe(customerrors.OpClaimSteal, start, err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: customerrors.OpClaimSteal, Cause: err}
	}

	return nil
}

func (s *Store) AddPoints(ctx context.Context, userID, groupID string, delta int64) (int64, error) {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	var balance int64

	err := querier.QueryRow(ctx, creditPointsQuery, models.StorageKey(userID), models.StorageKey(groupID), delta).
		Scan(&balance)
	observe(customerrors.OpAddPoints, start, err)

	if err != nil {
		return 0, &customerrors.ErrSQLExecution{Operation: customerrors.OpAddPoints, Cause: err}
	}

	return balance, nil
}

// TransferPoints списывает amount у fromID только при достаточном балансе и зачисляет toID.
func (s *Store) TransferPoints(ctx context.Context, fromID, toID, groupID string, amount int64) error {
	if amount < 0 {
		return &customerrors.ErrInvalidArgument{Message: "сумма перевода не может быть отрицательной"}
	}

	return s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		return s.transfer(ctx, fromID, toID, groupID, amount)
	})
}

// transfer с нулевой суммой ничего не меняет, даже если у fromID еще нет строки в группе.
func (s *Store) transfer(ctx context.Context, fromID, toID, groupID string, amount int64) error {
	if amount == 0 {
		return nil
	}

	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	var remaining int64

	err := querier.QueryRow(ctx, debitPointsQuery, models.StorageKey(fromID), models.StorageKey(groupID), amount).
		Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		observe(customerrors.OpAddPoints, start, nil)

		balance, balanceErr := s.GetPoints(ctx, fromID, groupID)
		if balanceErr != nil {
			return balanceErr
		}

		return &customerrors.ErrInsufficientPoints{UserID: fromID, Balance: balance, Requested: amount}
	}

	observe(customerrors.OpAddPoints, start, err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: customerrors.OpAddPoints, Cause: err}
	}

	_, err = s.AddPoints(ctx, toID, groupID, amount)

	return err
}

// Steal в одной транзакции отмечает дневной лимит вора и переводит очки.
// При нехватке очков у жертвы лимит не расходуется.
func (s *Store) Steal(ctx context.Context, thiefID, victimID, groupID string, amount int64) error {
	if amount < 0 {
		return &customerrors.ErrInvalidArgument{Message: "сумма кражи не может быть отрицательной"}
	}

	return s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.ClaimSteal(ctx, thiefID, groupID); err != nil {
			return err
		}

		return s.transfer(ctx, victimID, thiefID, groupID, amount)
	})
}

func (s *Store) ResetDailyLimits(ctx context.Context) (int64, error) {
	start := time.Now()
	querier := txs.GetQuerier(ctx, s.db.Pool)

	tag, err := querier.Exec(ctx, resetDailyLimitsQuery)
	observe(customerrors.OpResetDailyLimits, start, err)

	if err != nil {
		return 0, &customerrors.ErrSQLExecution{Operation: customerrors.OpResetDailyLimits, Cause: err}
	}

	return tag.RowsAffected(), nil
}
