package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/central-university-dev/go-wanbit/internal/config"
	"github.com/central-university-dev/go-wanbit/internal/database"
	"github.com/central-university-dev/go-wanbit/internal/scheduler"
	"github.com/central-university-dev/go-wanbit/pkg"
	"github.com/central-university-dev/go-wanbit/pkg/txs"
)

func buildServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Подключиться к мессенджеру и обрабатывать команды",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), config.LoadConfig(), migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Применить миграции перед запуском")

	return cmd
}

func buildMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции базы данных",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := config.LoadConfig()
			logger := pkg.NewLogger(os.Stdout, cfg.LogLevel)

			return database.Migrate(cfg.DatabaseURL, cfg.MigrationsPath, logger)
		},
	}
}

// buildResetLimitsCmd сбрасывает дневные лимиты вне расписания, например после простоя в полночь.
func buildResetLimitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-limits",
		Short: "Сбросить дневные лимиты рулетки и краж",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.LoadConfig()
			logger := pkg.NewLogger(os.Stdout, cfg.LogLevel)

			db, err := database.NewPostgresDB(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("ошибка подключения к базе данных: %w", err)
			}
			defer db.Close()

			store, err := newStore(db, txs.NewTxManager(db.Pool, logger), cfg, logger)
			if err != nil {
				return err
			}

			sched, err := scheduler.NewScheduler(store, cfg.DailyResetTime, cfg.Timezone, logger)
			if err != nil {
				return err
			}

			return sched.RunOnce(cmd.Context())
		},
	}
}
