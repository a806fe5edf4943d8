package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"GoalWatcher/internal/domain"
	"GoalWatcher/pkg/logger"
)

const (
	defaultTimezone   = "Asia/Bangkok"
	configPathEnv     = "GOALWATCHER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_GROUP_ID"
	webhookURLEnv     = "WEBHOOK_URL"
	redisAddrEnv      = "REDIS_ADDR"
	logLevelEnv       = "LOG_LEVEL"
)

// Mode selects which loops a process runs.
type Mode string

const (
	ModeRun    Mode = "run"
	ModeSave   Mode = "save"
	ModeNotify Mode = "notify"
	ModeOnce   Mode = "once"
)

// Saves reports whether the mode scrapes and writes records.
func (m Mode) Saves() bool {
	return m == ModeRun || m == ModeSave || m == ModeOnce
}

// Notifies reports whether the mode detects changes and notifies.
func (m Mode) Notifies() bool {
	return m == ModeRun || m == ModeNotify || m == ModeOnce
}

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Storage       StorageConfig      `yaml:"storage"`
	Poller        PollerConfig       `yaml:"poller"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Cache         CacheConfig        `yaml:"cache"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sites         []SiteConfig       `yaml:"sites"`
}

// LoggingConfig selects slog level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig describes the match store backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
}

// StorageConfig controls how records are written.
type StorageConfig struct {
	BatchSize int `yaml:"batchSize"`
	// KickoffShift is added to UTC instants before they are stored. Nil keeps
	// the legacy +7h convention; 0 stores plain UTC.
	KickoffShift *time.Duration `yaml:"kickoffShift"`
}

// Shift resolves the storage shift.
func (s StorageConfig) Shift() time.Duration {
	if s.KickoffShift == nil {
		return 7 * time.Hour
	}
	return *s.KickoffShift
}

// PollerConfig defines the cooperative loop cadence.
type PollerConfig struct {
	Interval     time.Duration `yaml:"interval"`
	IdleInterval time.Duration `yaml:"idleInterval"`
	LiveWindow   time.Duration `yaml:"liveWindow"`
	Lookback     time.Duration `yaml:"lookback"`
}

// SchedulerConfig defines when the daily fixture digest runs.
type SchedulerConfig struct {
	DailyCron string         `yaml:"dailyCron"`
	Timezone  string         `yaml:"timezone"`
	location  *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return time.FixedZone("ICT", 7*60*60)
	}
	return loc
}

// CacheConfig selects the last-seen score cache backend.
type CacheConfig struct {
	Backend   string        `yaml:"backend"`
	RedisAddr string        `yaml:"redisAddr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"keyPrefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Webhook  WebhookConfig  `yaml:"webhook"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken    string `yaml:"botToken"`
	ChatID      string `yaml:"chatId"`
	APIEndpoint string `yaml:"apiEndpoint"`
}

// Enabled reports whether any Telegram setting was provided.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" || t.ChatID != ""
}

// WebhookConfig describes the generic JSON webhook sink.
type WebhookConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SiteConfig describes a single listing page with its scanner strategy.
type SiteConfig struct {
	Name    string            `yaml:"name"`
	Scanner string            `yaml:"scanner"`
	URL     string            `yaml:"url"`
	Options map[string]string `yaml:"options"`
}

// Load reads .env, the YAML configuration (if present) and environment overrides.
func Load(path string) Config {
	log := logger.New("config")
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("cannot load .env: %v", err)
	}

	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone(log)

	return cfg
}

// Validate checks that every endpoint and credential the mode needs is set.
func (c Config) Validate(mode Mode) error {
	var problems []string

	if mode.Saves() {
		if len(c.Sites) == 0 {
			problems = append(problems, "no sites configured")
		}
		for _, s := range c.Sites {
			if s.URL == "" || s.Scanner == "" {
				problems = append(problems, fmt.Sprintf("site %q needs url and scanner", s.Name))
			}
		}
	}

	if c.Database.Driver != "memory" && c.Database.DSN == "" {
		problems = append(problems, "database dsn is empty")
	}

	if mode.Notifies() {
		tg := c.Notifications.Telegram
		if tg.Enabled() && (tg.BotToken == "" || tg.ChatID == "") {
			problems = append(problems, "telegram needs both bot token and chat id")
		}
		if !tg.Enabled() && c.Notifications.Webhook.URL == "" {
			problems = append(problems, "no notification sink configured")
		}
		if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
			problems = append(problems, "redis cache needs an address")
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return domain.NewError(domain.ConfigurationFailure, "validate "+string(mode), "",
		fmt.Errorf("%s", strings.Join(problems, "; ")))
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(webhookURLEnv); v != "" {
		c.Notifications.Webhook.URL = v
	}

	if v := os.Getenv(redisAddrEnv); v != "" {
		c.Cache.RedisAddr = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func (c *Config) bindTimezone(log interface{ Printf(string, ...any) }) {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("unknown timezone %s, reverting to fixed UTC+7", tz)
		loc = time.FixedZone("ICT", 7*60*60)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Database.Driver != "" {
		base.Database.Driver = override.Database.Driver
	}
	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Database.Table != "" {
		base.Database.Table = override.Database.Table
	}

	if override.Storage.BatchSize > 0 {
		base.Storage.BatchSize = override.Storage.BatchSize
	}
	if override.Storage.KickoffShift != nil {
		base.Storage.KickoffShift = override.Storage.KickoffShift
	}

	if override.Poller.Interval > 0 {
		base.Poller.Interval = override.Poller.Interval
	}
	if override.Poller.IdleInterval > 0 {
		base.Poller.IdleInterval = override.Poller.IdleInterval
	}
	if override.Poller.LiveWindow > 0 {
		base.Poller.LiveWindow = override.Poller.LiveWindow
	}
	if override.Poller.Lookback > 0 {
		base.Poller.Lookback = override.Poller.Lookback
	}

	if override.Scheduler.DailyCron != "" {
		base.Scheduler.DailyCron = override.Scheduler.DailyCron
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Cache.Backend != "" {
		base.Cache.Backend = override.Cache.Backend
	}
	if override.Cache.RedisAddr != "" {
		base.Cache.RedisAddr = override.Cache.RedisAddr
	}
	if override.Cache.Password != "" {
		base.Cache.Password = override.Cache.Password
	}
	if override.Cache.DB != 0 {
		base.Cache.DB = override.Cache.DB
	}
	if override.Cache.KeyPrefix != "" {
		base.Cache.KeyPrefix = override.Cache.KeyPrefix
	}
	if override.Cache.TTL > 0 {
		base.Cache.TTL = override.Cache.TTL
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}
	if override.Notifications.Telegram.APIEndpoint != "" {
		base.Notifications.Telegram.APIEndpoint = override.Notifications.Telegram.APIEndpoint
	}
	if override.Notifications.Webhook.URL != "" {
		base.Notifications.Webhook.URL = override.Notifications.Webhook.URL
	}
	if override.Notifications.Webhook.Timeout > 0 {
		base.Notifications.Webhook.Timeout = override.Notifications.Webhook.Timeout
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

func defaultConfig() Config {
	tz, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		tz = time.FixedZone("ICT", 7*60*60)
	}
	return Config{
		Logging:  LoggingConfig{Level: "info", Format: "text"},
		Database: DatabaseConfig{Driver: "postgres", DSN: "", Table: "match_records"},
		Storage:  StorageConfig{BatchSize: 100},
		Poller: PollerConfig{
			Interval:     60 * time.Second,
			IdleInterval: 1800 * time.Second,
			LiveWindow:   150 * time.Minute,
			Lookback:     24 * time.Hour,
		},
		Scheduler: SchedulerConfig{DailyCron: "0 12 * * *", Timezone: defaultTimezone, location: tz},
		Cache: CacheConfig{
			Backend:   "memory",
			KeyPrefix: "goalwatcher:score",
			TTL:       48 * time.Hour,
		},
		Notifications: NotificationConfig{
			Webhook: WebhookConfig{Timeout: 10 * time.Second},
		},
		Sites: []SiteConfig{
			{
				Name:    "goal",
				Scanner: "goal",
				URL:     "https://goal.co/",
			},
		},
	}
}
