package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	// file driver необходим для миграций базы данных.
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	// pgx/stdlib регистрирует драйвер "pgx" для database/sql, через него идут миграции.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/central-university-dev/go-wanbit/internal/config"
)

const (
	connectTimeout  = 5 * time.Second
	maxConnIdleTime = 5 * time.Minute
)

type PostgresDB struct {
	Pool   *pgxpool.Pool
	logger *slog.Logger
}

func poolSize(configured int) int32 {
	switch {
	case configured <= 0:
		return 0
	case configured >= math.MaxInt32:
		return math.MaxInt32
	default:
		return int32(configured)
	}
}

func NewPostgresDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*PostgresDB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка при парсинге строки подключения к PostgreSQL: %w", err)
	}

	if size := poolSize(cfg.DatabaseMaxConn); size > 0 {
		poolConfig.MaxConns = size
		poolConfig.MinConns = min(size, 2)
	}

	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании пула соединений PostgreSQL: %w", err)
	}

	db := &PostgresDB{Pool: pool, logger: logger}

	if err := db.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Соединение с PostgreSQL успешно установлено", "max_conns", poolConfig.MaxConns)

	return db, nil
}

// Ping используется при старте и в проверке состояния /health.
func (db *PostgresDB) Ping(ctx context.Context) error {
	if err := db.Pool.Ping(ctx); err != nil {
		return fmt.Errorf("ошибка при проверке соединения с PostgreSQL: %w", err)
	}

	return nil
}

func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		db.logger.Info("Соединение с PostgreSQL закрыто")
	}
}
