package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-faster/jx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck проверяет одну зависимость сервиса, nil означает что она доступна.
type HealthCheck func(ctx context.Context) error

//nolint:revive // Имя MetricsServer используется для ясности
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
	port   int
	checks map[string]HealthCheck
}

func NewMetricsServer(port int, logger *slog.Logger, checks map[string]HealthCheck) *MetricsServer {
	s := &MetricsServer{
		logger: logger,
		port:   port,
		checks: checks,
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", s.health)

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           Instrument("metrics", mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return s
}

func (s *MetricsServer) Handler() http.Handler {
	return s.server.Handler
}

// health отвечает 200 "OK", если все проверки прошли, иначе 503 со списком отказавших зависимостей.
func (s *MetricsServer) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}

	sort.Strings(names)

	failed := make(map[string]error)

	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			failed[name] = err
		}
	}

	if len(failed) == 0 {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))

		return
	}

	s.logger.Warn("Проверка состояния не пройдена", "failed", len(failed))

	var e jx.Encoder

	e.ObjStart()

	for _, name := range names {
		if err, ok := failed[name]; ok {
			e.FieldStart(name)
			e.Str(err.Error())
		}
	}

	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write(e.Bytes())
}

func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.Info("Запуск сервера метрик",
		"port", s.port,
		"endpoint", "/metrics",
		"health_checks", len(s.checks),
	)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Ошибка при остановке сервера метрик", "error", err)
		} else {
			s.logger.Info("Сервер метрик успешно остановлен")
		}
	}()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("ошибка запуска сервера метрик: %w", err)
	}

	return nil
}

func (s *MetricsServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Instrument записывает количество и длительность HTTP запросов к handler.
func Instrument(serviceName string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		RecordHTTPRequest(serviceName, r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	})
}
