package orm

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/central-university-dev/go-wanbit/internal/common/metrics"
	"github.com/central-university-dev/go-wanbit/internal/database"
	customerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
	"github.com/central-university-dev/go-wanbit/internal/domain/models"
	"github.com/central-university-dev/go-wanbit/pkg/txs"
)

type Store struct {
	db        *database.PostgresDB
	sq        sq.StatementBuilderType
	txManager *txs.TxManager
}

func NewStore(db *database.PostgresDB, txManager *txs.TxManager) *Store {
	return &Store{
		db:        db,
		sq:        sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		txManager: txManager,
	}
}

func observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	metrics.RecordDatabaseQuery(operation, status, time.Since(start))
}

func (s *Store) exec(ctx context.Context, operation string, builder sq.Sqlizer) (int64, error) {
	start := time.Now()

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, &customerrors.ErrBuildSQLQuery{Operation: operation, Cause: err}
	}

	querier := txs.GetQuerier(ctx, s.db.Pool)

	tag, err := querier.Exec(ctx, query, args...)
	observe(operation, start, err)

	if err != nil {
		return 0, &customerrors.ErrSQLExecution{Operation: operation, Cause: err}
	}

	return tag.RowsAffected(), nil
}

// queryRow возвращает pgx.ErrNoRows без обертки, чтобы вызывающий мог отличить отсутствие строки.
func (s *Store) queryRow(ctx context.Context, operation string, builder sq.Sqlizer, dest ...any) error {
	start := time.Now()

	query, args, err := builder.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: operation, Cause: err}
	}

	querier := txs.GetQuerier(ctx, s.db.Pool)

	err = querier.QueryRow(ctx, query, args...).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		observe(operation, start, nil)
		return err
	}

	observe(operation, start, err)

	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: operation, Cause: err}
	}

	return nil
}

func (s *Store) UpsertUser(ctx context.Context, userID, name string) error {
	insert := s.sq.Insert("users").
		Columns("id", "name", "created_at", "updated_at").
		Values(models.StorageKey(userID), name, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name), updated_at = NOW()")

	_, err := s.exec(ctx, customerrors.OpUpsertUser, insert)

	return err
}

func (s *Store) UpsertGroup(ctx context.Context, groupID, name string) error {
	insert := s.sq.Insert("groups").
		Columns("id", "name", "created_at", "updated_at").
		Values(models.StorageKey(groupID), name, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = COALESCE(NULLIF(EXCLUDED.name, ''), groups.name), updated_at = NOW()")

	_, err := s.exec(ctx, customerrors.OpUpsertGroup, insert)

	return err
}

func (s *Store) GetGroupRental(ctx context.Context, groupID string) (*time.Time, error) {
	query := s.sq.Select("expire_rental").
		From("groups").
		Where(sq.Eq{"id": models.StorageKey(groupID)})

	var expiry *time.Time

	err := s.queryRow(ctx, customerrors.OpGetGroupRental, query, &expiry)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return expiry, nil
}

func (s *Store) HasStandingPermission(ctx context.Context, userID string) (bool, error) {
	query := s.sq.Select("has_permission").
		From("users").
		Where(sq.Eq{"id": models.StorageKey(userID)})

	var allowed bool

	err := s.queryRow(ctx, customerrors.OpGetPermission, query, &allowed)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return allowed, nil
}

func (s *Store) GrantPermission(ctx context.Context, userID string) error {
	insert := s.sq.Insert("users").
		Columns("id", "has_permission", "created_at", "updated_at").
		Values(models.StorageKey(userID), true, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("ON CONFLICT (id) DO UPDATE SET has_permission = TRUE, updated_at = NOW()")

	_, err := s.exec(ctx, customerrors.OpGrantPermission, insert)

	return err
}

func (s *Store) SetRentalDate(ctx context.Context, groupID, name string, expiry time.Time) error {
	insert := s.sq.Insert("groups").
		Columns("id", "name", "expire_rental", "created_at", "updated_at").
		Values(models.StorageKey(groupID), name, expiry, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("ON CONFLICT (id) DO UPDATE SET expire_rental = EXCLUDED.expire_rental, " +
			"name = COALESCE(NULLIF(EXCLUDED.name, ''), groups.name), updated_at = NOW()")

	_, err := s.exec(ctx, customerrors.OpSetRentalDate, insert)

	return err
}

func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	query := s.sq.Select("id", "name", "expire_rental", "welcome_message", "welcome_enabled", "created_at", "updated_at").
		From("groups").
		Where(sq.Eq{"id": models.StorageKey(groupID)})

	group := &models.Group{}

	err := s.queryRow(ctx, customerrors.OpGetGroup, query,
		&group.ID,
		&group.Name,
		&group.ExpireRental,
		&group.WelcomeMessage,
		&group.WelcomeEnabled,
		&group.CreatedAt,
		&group.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return group, nil
}

func (s *Store) SetWelcome(ctx context.Context, groupID string, enabled bool, template string) error {
	insert := s.sq.Insert("groups").
		Columns("id", "welcome_message", "welcome_enabled", "created_at", "updated_at").
		Values(models.StorageKey(groupID), template, enabled, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("ON CONFLICT (id) DO UPDATE SET welcome_message = EXCLUDED.welcome_message, " +
			"welcome_enabled = EXCLUDED.welcome_enabled, updated_at = NOW()")

	_, err := s.exec(ctx, customerrors.OpSetWelcome, insert)

	return err
}

func (s *Store) GetPoints(ctx context.Context, userID, groupID string) (int64, error) {
	status, err := s.GetDailyStatus(ctx, userID, groupID)
	if err != nil {
		return 0, err
	}

	return status.Points, nil
}

func (s *Store) GetDailyStatus(ctx context.Context, userID, groupID string) (*models.DailyStatus, error) {
	query := s.sq.Select("points", "roulettes", "stole_today").
		From("user_groups").
		Where(sq.Eq{
			"user_id":  models.StorageKey(userID),
			"group_id": models.StorageKey(groupID),
		})

	status := &models.DailyStatus{}

	err := s.queryRow(ctx, customerrors.OpGetDailyStatus, query, &status.Points, &status.Roulettes, &status.StoleToday)
	if errors.Is(err, pgx.ErrNoRows) {
		return status, nil
	}

	if err != nil {
		return nil, err
	}

	return status, nil
}

func (s *Store) ClaimRoulette(ctx context.Context, userID, groupID string, points int64) (*models.DailyStatus, error) {
	insert := s.sq.Insert("user_groups").
		Columns("user_id", "group_id", "points", "roulettes", "created_at", "updated_at").
		Values(models.StorageKey(userID), models.StorageKey(groupID), points, 1, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("ON CONFLICT (user_id, group_id) DO UPDATE SET " +
			"points = user_groups.points + EXCLUDED.points, " +
			"roulettes = user_groups.roulettes + 1, updated_at = NOW() " +
			"WHERE user_groups.roulettes = 0 " +
			"RETURNING points, roulettes, stole_today")

	status := &models.DailyStatus{}

	err := s.queryRow(ctx, customerrors.OpClaimRoulette, insert, &status.Points, &status.Roulettes, &status.StoleToday)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &customerrors.ErrLimitReached{Action: "roulette", UserID: userID, GroupID: groupID}
	}

	if err != nil {
		return nil, err
	}

	return status, nil
}

func (s *Store) ClaimSteal(ctx context.Context, userID, groupID string) error {
	insert := s.sq.Insert("user_groups").
		Columns("user_id", "group_id", "stole_today", "created_at", "updated_at").
		Values(models.StorageKey(userID), models.StorageKey(groupID), true, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("ON CONFLICT (user_id, group_id) DO UPDATE SET stole_today = TRUE, updated_at = NOW() " +
			"WHERE user_groups.stole_today = FALSE RETURNING user_id")

	var claimed string

	err := s.queryRow(ctx, customerrors.OpClaimSteal, insert, &claimed)
	if errors.Is(err, pgx.ErrNoRows) {
		return &customerrors.ErrLimitReached{Action: "steal", UserID: userID, GroupID: groupID}
	}

	return err
}

func (s *Store) AddPoints(ctx context.Context, userID, groupID string, delta int64) (int64, error) {
	insert := s.sq.Insert("user_groups").
		Columns("user_id", "group_id", "points", "created_at", "updated_at").
		Values(models.StorageKey(userID), models.StorageKey(groupID), delta, sq.Expr("NOW()"), sq.Expr("NOW()")).
		Suffix("ON CONFLICT (user_id, group_id) DO UPDATE SET " +
			"points = GREATEST(user_groups.points + EXCLUDED.points, 0), updated_at = NOW() " +
			"RETURNING points")

	var balance int64

	if err := s.queryRow(ctx, customerrors.OpAddPoints, insert, &balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &customerrors.ErrSQLExecution{Operation: customerrors.OpAddPoints, Cause: err}
		}

		return 0, err
	}

	return balance, nil
}

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

	debit := s.sq.Update("user_groups").
		Set("points", sq.Expr("points - ?", amount)).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"user_id":  models.StorageKey(fromID),
			"group_id": models.StorageKey(groupID),
		}).
		Where(sq.GtOrEq{"points": amount}).
		Suffix("RETURNING points")

	var remaining int64

	err := s.queryRow(ctx, customerrors.OpAddPoints, debit, &remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		balance, balanceErr := s.GetPoints(ctx, fromID, groupID)
		if balanceErr != nil {
			return balanceErr
		}

		return &customerrors.ErrInsufficientPoints{UserID: fromID, Balance: balance, Requested: amount}
	}

	if err != nil {
		return err
	}

	_, err = s.AddPoints(ctx, toID, groupID, amount)

	return err
}

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
	update := s.sq.Update("user_groups").
		Set("roulettes", 0).
		Set("stole_today", false).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Or{
			sq.NotEq{"roulettes": 0},
			sq.Eq{"stole_today": true},
		})

	return s.exec(ctx, customerrors.OpResetDailyLimits, update)
}
