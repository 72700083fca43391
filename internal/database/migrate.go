package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	postgresdriver "github.com/golang-migrate/migrate/v4/database/postgres"
)

// Migrate применяет все миграции из sourceURL (например, file://migrations).
func Migrate(databaseURL, sourceURL string, logger *slog.Logger) (err error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("ошибка при открытии соединения для миграций: %w", err)
	}

	defer func() {
		if closeErr := db.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("ошибка при закрытии соединения миграций: %w", closeErr)
		}
	}()

	driver, err := postgresdriver.WithInstance(db, &postgresdriver.Config{})
	if err != nil {
		return fmt.Errorf("ошибка при создании драйвера миграций: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		return fmt.Errorf("ошибка при создании экземпляра migrate: %w", err)
	}

	defer func() {
		_, _ = m.Close()
	}()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("Миграции уже применены")
			return nil
		}

		return fmt.Errorf("ошибка при применении миграций: %w", err)
	}

	version, dirty, _ := m.Version()
	logger.Info("Миграции успешно применены", "version", version, "dirty", dirty)

	return nil
}
