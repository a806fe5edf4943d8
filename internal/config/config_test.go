package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"GoalWatcher/internal/domain"
)

func TestLoadMergesFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
database:
  driver: memory
storage:
  batchSize: 50
  kickoffShift: 0s
poller:
  interval: 30s
notifications:
  webhook:
    url: https://hooks.example/abc
sites:
  - name: mirror
    scanner: goal
    url: https://mirror.example/
    options:
      dateSelector: h1.date
`), 0o600))

	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(telegramTokenEnv, "")
	t.Setenv(telegramChatIDEnv, "")
	t.Setenv(webhookURLEnv, "")
	t.Setenv(redisAddrEnv, "")
	t.Setenv(logLevelEnv, "")

	cfg := Load(path)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.Equal(t, "text", cfg.Logging.Format)
	require.Equal(t, "memory", cfg.Database.Driver)
	require.Equal(t, "match_records", cfg.Database.Table)
	require.Equal(t, 50, cfg.Storage.BatchSize)
	require.Equal(t, time.Duration(0), cfg.Storage.Shift())
	require.Equal(t, 30*time.Second, cfg.Poller.Interval)
	require.Equal(t, 1800*time.Second, cfg.Poller.IdleInterval)
	require.Equal(t, "0 12 * * *", cfg.Scheduler.DailyCron)
	require.Len(t, cfg.Sites, 1)
	require.Equal(t, "h1.date", cfg.Sites[0].Options["dateSelector"])
	require.NoError(t, cfg.Validate(ModeRun))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "postgres://localhost/goal")
	t.Setenv(telegramTokenEnv, "123:abc")
	t.Setenv(telegramChatIDEnv, "-100")
	t.Setenv(webhookURLEnv, "")
	t.Setenv(redisAddrEnv, "localhost:6379")
	t.Setenv(logLevelEnv, "warn")

	cfg := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Equal(t, "postgres://localhost/goal", cfg.Database.DSN)
	require.Equal(t, "123:abc", cfg.Notifications.Telegram.BotToken)
	require.Equal(t, "-100", cfg.Notifications.Telegram.ChatID)
	require.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	require.Equal(t, "warn", cfg.Logging.Level)
	require.Equal(t, 7*time.Hour, cfg.Storage.Shift())
	require.NotNil(t, cfg.Scheduler.Location())
	require.NoError(t, cfg.Validate(ModeRun))
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	err := cfg.Validate(ModeRun)
	require.Error(t, err)
	require.True(t, domain.IsKind(err, domain.ConfigurationFailure))
	require.Contains(t, err.Error(), "database dsn is empty")
	require.Contains(t, err.Error(), "no notification sink configured")

	cfg.Database.DSN = "postgres://x"
	require.NoError(t, cfg.Validate(ModeSave))

	cfg.Notifications.Telegram.BotToken = "token"
	err = cfg.Validate(ModeNotify)
	require.Error(t, err)
	require.Contains(t, err.Error(), "telegram needs both bot token and chat id")

	cfg.Notifications.Telegram.ChatID = "-1"
	cfg.Cache.Backend = "redis"
	require.Error(t, cfg.Validate(ModeNotify))
	require.NoError(t, cfg.Validate(ModeSave))

	cfg.Cache.RedisAddr = "localhost:6379"
	require.NoError(t, cfg.Validate(ModeNotify))

	cfg.Sites = nil
	require.Error(t, cfg.Validate(ModeSave))
	require.NoError(t, cfg.Validate(ModeNotify))
}

func TestModes(t *testing.T) {
	t.Parallel()

	require.True(t, ModeRun.Saves() && ModeRun.Notifies())
	require.True(t, ModeOnce.Saves() && ModeOnce.Notifies())
	require.True(t, ModeSave.Saves() && !ModeSave.Notifies())
	require.True(t, !ModeNotify.Saves() && ModeNotify.Notifies())
}
