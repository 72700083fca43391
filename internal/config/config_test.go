package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/central-university-dev/go-wanbit/internal/config"
)

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PREFIX", "!")
	t.Setenv("OWNER_ID", "5511999999999")
	t.Setenv("TRANSPORT", "TELEGRAM")
	t.Setenv("DATABASE_ACCESS_TYPE", "SQUIRREL")
	t.Setenv("ROSTER_CACHE_TTL", "90s")
	t.Setenv("REPLY_UNKNOWN_COMMAND", "false")
	t.Setenv("DISPATCH_CONCURRENCY", "4")

	cfg := config.LoadConfig()

	assert.Equal(t, "!", cfg.Prefix)
	assert.Equal(t, "5511999999999", cfg.OwnerID)
	assert.Equal(t, config.TelegramTransport, cfg.Transport)
	assert.Equal(t, config.SquirrelAccess, cfg.DatabaseAccessType)
	assert.Equal(t, 90*time.Second, cfg.RosterCacheTTL)
	assert.False(t, cfg.ReplyUnknownCommand)
	assert.Equal(t, 4, cfg.DispatchConcurrency)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := config.LoadConfig()

	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.Equal(t, "00:00", cfg.DailyResetTime)
	assert.Equal(t, "Wanbit", cfg.BotName)
	assert.NotZero(t, cfg.HousekeepingTimeout)
	assert.NotEmpty(t, cfg.RetryableStatusCodes)
	assert.Equal(t, 32, cfg.DispatchConcurrency)
	assert.True(t, cfg.WelcomeEnabled)
}
