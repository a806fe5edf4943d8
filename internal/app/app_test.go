package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"GoalWatcher/internal/config"
	"GoalWatcher/internal/domain"
	"GoalWatcher/internal/logging"
)

const unreachable = "127.0.0.1:1"

func offlineConfig() config.Config {
	return config.Config{
		Database: config.DatabaseConfig{
			Driver: "postgres",
			DSN:    "postgres://u:p@" + unreachable + "/db?sslmode=disable",
		},
		Storage: config.StorageConfig{BatchSize: 100},
		Cache:   config.CacheConfig{Backend: "redis", RedisAddr: unreachable},
		Notifications: config.NotificationConfig{
			Telegram: config.TelegramConfig{
				BotToken:    "token",
				ChatID:      "-100",
				APIEndpoint: "http://" + unreachable + "/bot%s/%s",
			},
			Webhook: config.WebhookConfig{URL: "http://" + unreachable + "/hook"},
		},
		Sites: []config.SiteConfig{{Name: "goal", Scanner: "goal", URL: "http://" + unreachable + "/"}},
	}
}

func TestNewKeepsRunningWhenBackendsAreDown(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := logging.NewWithWriter(&logs, "debug", "text")

	a, err := New(context.Background(), offlineConfig(), config.ModeOnce, logger)
	require.NoError(t, err)
	defer a.Close()

	require.Contains(t, logs.String(), "postgres unreachable at startup")
	require.Contains(t, logs.String(), "redis unreachable at startup")
	require.Contains(t, logs.String(), "telegram unreachable at startup")

	require.NoError(t, a.Run(context.Background()))
	require.Contains(t, logs.String(), "ingest failed")
	require.Contains(t, logs.String(), "watch failed")
}

func TestNewSaveModeWithUnreachableStore(t *testing.T) {
	t.Parallel()

	cfg := offlineConfig()
	cfg.Notifications = config.NotificationConfig{}

	a, err := New(context.Background(), cfg, config.ModeSave, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, a.Close())
}

func TestNewRejectsMissingCredentials(t *testing.T) {
	t.Parallel()

	cfg := offlineConfig()
	cfg.Database.DSN = ""

	_, err := New(context.Background(), cfg, config.ModeSave, logging.Discard())
	require.Error(t, err)
	require.True(t, domain.IsKind(err, domain.ConfigurationFailure))
}
