package txs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TxManager struct {
	db      *pgxpool.Pool
	options pgx.TxOptions
	logger  *slog.Logger
}

type Option func(*TxManager)

// WithIsolation задает уровень изоляции внешних транзакций. По умолчанию READ COMMITTED.
func WithIsolation(level pgx.TxIsoLevel) Option {
	return func(t *TxManager) {
		t.options.IsoLevel = level
	}
}

func NewTxManager(db *pgxpool.Pool, logger *slog.Logger, opts ...Option) *TxManager {
	t := &TxManager{
		db:      db,
		options: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
		logger:  logger,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func injectTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func (t *TxManager) begin(ctx context.Context) (pgx.Tx, bool, error) {
	if outer, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		tx, err := outer.Begin(ctx)
		return tx, true, err
	}

	tx, err := t.db.BeginTx(ctx, t.options)

	return tx, false, err
}

// WithTransaction выполняет txFunc в транзакции. Внутри уже открытой транзакции
// создается точка сохранения: ее откат не отменяет работу внешней транзакции.
// Откат по ошибке txFunc пишется в лог на уровне Debug.
func (t *TxManager) WithTransaction(ctx context.Context, txFunc func(ctx context.Context) error) error {
	tx, nested, err := t.begin(ctx)
	if err != nil {
		t.logger.Error("Ошибка при начале транзакции", "error", err, "nested", nested)
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	rollbackCtx := context.WithoutCancel(ctx)

	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("Паника в транзакции, выполняем rollback", "panic", r)

			_ = tx.Rollback(rollbackCtx)

			panic(r)
		}
	}()

	if err := txFunc(injectTx(ctx, tx)); err != nil {
		t.logger.Debug("Откат транзакции", "error", err, "nested", nested)

		if rbErr := tx.Rollback(rollbackCtx); rbErr != nil {
			t.logger.Error("Ошибка при rollback транзакции", "error", rbErr)
			return fmt.Errorf("ошибка в транзакции: %w, ошибка rollback: %v", err, rbErr)
		}

		return fmt.Errorf("ошибка в транзакции: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.logger.Error("Ошибка при commit транзакции", "error", err, "nested", nested)
		return fmt.Errorf("ошибка при commit транзакции: %w", err)
	}

	return nil
}
