package httputil

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/central-university-dev/go-wanbit/internal/common/metrics"
	"github.com/central-university-dev/go-wanbit/internal/config"
	customerrors "github.com/central-university-dev/go-wanbit/internal/domain/errors"
)

// NewResilientClient возвращает resty-клиент с повторами по RETRYABLE_STATUS_CODES
// и circuit breaker на уровне транспорта. Ответы 5xx считаются отказом брейкера.
func NewResilientClient(cfg *config.Config, logger *slog.Logger, serviceName string) *resty.Client {
	client := resty.New()

	client.SetTimeout(cfg.ExternalRequestTimeout)

	client.SetRetryCount(cfg.RetryCount)
	client.SetRetryWaitTime(cfg.RetryBackoff)
	client.SetRetryMaxWaitTime(cfg.RetryBackoff * 5)

	client.AddRetryCondition(func(r *resty.Response, err error) bool {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return false
		}

		if err != nil {
			return true
		}

		for _, status := range cfg.RetryableStatusCodes {
			if r.StatusCode() == status {
				return true
			}
		}

		return false
	})

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        serviceName + "_circuit_breaker",
		MaxRequests: uint32(cfg.CBPermittedCallsInHalfOpen), //nolint:gosec // G115: Значение из конфига
		Interval:    time.Duration(cfg.CBSlidingWindowSize) * time.Second,
		Timeout:     cfg.CBWaitDurationInOpenState,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= uint32(cfg.CBMinimumRequiredCalls) && //nolint:gosec // G115: Значение из конфига
				failureRatio >= float64(cfg.CBFailureRateThreshold)/100.0
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Состояние circuit breaker изменилось",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	client.SetTransport(&CircuitBreakerTransport{
		breaker:     breaker,
		next:        http.DefaultTransport,
		logger:      logger,
		serviceName: serviceName,
	})

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		if resp.Request.Attempt > 1 {
			logger.Info("Повторный запрос к внешнему сервису",
				"service", serviceName,
				"url", resp.Request.URL,
				"attempt", resp.Request.Attempt,
				"status", resp.StatusCode(),
			)
		}

		return nil
	})

	return client
}

type CircuitBreakerTransport struct {
	breaker     *gobreaker.CircuitBreaker
	next        http.RoundTripper
	logger      *slog.Logger
	serviceName string
}

func (t *CircuitBreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	result, err := t.breaker.Execute(func() (interface{}, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()
			return nil, &customerrors.HTTPError{StatusCode: resp.StatusCode}
		}

		return resp, nil
	})

	if err != nil {
		status := 0

		var httpErr *customerrors.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.StatusCode
		}

		metrics.RecordHTTPRequest(t.serviceName, req.Method, req.URL.Path, status, time.Since(start))

		if errors.Is(err, gobreaker.ErrOpenState) {
			t.logger.Warn("Circuit breaker открыт, запрос отклонен",
				"service", t.serviceName,
				"url", req.URL.String(),
			)
		}

		return nil, err
	}

	resp := result.(*http.Response)
	metrics.RecordHTTPRequest(t.serviceName, req.Method, req.URL.Path, resp.StatusCode, time.Since(start))

	return resp, nil
}
