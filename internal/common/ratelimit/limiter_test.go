package ratelimit_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/central-university-dev/go-wanbit/internal/common/ratelimit"
)

func newLimiter(t *testing.T, requests int, window time.Duration) *ratelimit.KeyedLimiter {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	return ratelimit.NewKeyedLimiter(ctx, requests, window, logger)
}

func TestKeyedLimiter_BurstThenDeny(t *testing.T) {
	// Arrange
	limiter := newLimiter(t, 3, time.Hour)

	// Act & Assert
	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("5511988887777@s.whatsapp.net"), "запрос %d должен пройти", i)
	}

	assert.False(t, limiter.Allow("5511988887777@s.whatsapp.net"))
}

func TestKeyedLimiter_KeysAreIndependent(t *testing.T) {
	limiter := newLimiter(t, 1, time.Hour)

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	assert.True(t, limiter.Allow("b"))
	assert.Equal(t, 2, limiter.Size())
}

func TestKeyedLimiter_EmptyKeyIsNotLimited(t *testing.T) {
	limiter := newLimiter(t, 1, time.Hour)

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(""))
	}

	assert.Equal(t, 0, limiter.Size())
}

func TestKeyedLimiter_Concurrent(t *testing.T) {
	limiter := newLimiter(t, 10, time.Hour)

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if limiter.Allow("sender") {
				allowed.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(10), allowed.Load())
}
