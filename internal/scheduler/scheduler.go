package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/central-university-dev/go-wanbit/internal/common/metrics"
)

const resetTimeout = 2 * time.Minute

// DailyResetter обнуляет счетчики рулетки и флаги кражи во всех группах.
type DailyResetter interface {
	ResetDailyLimits(ctx context.Context) (int64, error)
}

// Scheduler раз в сутки в заданное время запускает сброс дневных лимитов игры очков.
type Scheduler struct {
	scheduler *gocron.Scheduler
	resetter  DailyResetter
	logger    *slog.Logger
	at        string
}

// NewScheduler: at - время в формате "15:04" или "15:04:05", timezone - имя из базы IANA.
func NewScheduler(resetter DailyResetter, at, timezone string, logger *slog.Logger) (*Scheduler, error) {
	location := time.UTC

	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return nil, fmt.Errorf("неизвестный часовой пояс %q: %w", timezone, err)
		}

		location = loc
	}

	scheduler := gocron.NewScheduler(location)
	scheduler.SingletonModeAll()

	return &Scheduler{
		scheduler: scheduler,
		resetter:  resetter,
		logger:    logger,
		at:        at,
	}, nil
}

func (s *Scheduler) Start() error {
	s.logger.Info("Запуск планировщика сброса дневных лимитов",
		"at", s.at,
		"location", s.scheduler.Location().String(),
	)

	_, err := s.scheduler.Every(1).Day().At(s.at).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), resetTimeout)
		defer cancel()

		_ = s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("ошибка при настройке планировщика: %w", err)
	}

	s.scheduler.StartAsync()

	return nil
}

// RunOnce выполняет сброс немедленно.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()

	affected, err := s.resetter.ResetDailyLimits(ctx)
	if err != nil {
		metrics.RecordDailyReset("error")
		s.logger.Error("Ошибка при сбросе дневных лимитов",
			"error", err,
		)

		return err
	}

	metrics.RecordDailyReset("success")
	s.logger.Info("Дневные лимиты сброшены",
		"affected", affected,
		"duration", time.Since(start),
	)

	return nil
}

// NextRun возвращает время ближайшего запуска.
func (s *Scheduler) NextRun() time.Time {
	_, next := s.scheduler.NextRun()
	return next
}

func (s *Scheduler) Stop() {
	s.logger.Info("Остановка планировщика")
	s.scheduler.Stop()
}
