package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Drop validity windows. Shares can be claimed until the grant window
	// closes; the owner can inspect the drop until the view window closes.
	GrantWindow time.Duration `env:"DROP_GRANT_WINDOW" envDefault:"10m"`
	ViewWindow  time.Duration `env:"DROP_VIEW_WINDOW" envDefault:"168h"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Telegram logging
	LogTelegramChatID   int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError       int   `env:"LOG_TOPIC_ERROR"`
	LogTopicDropCreated int   `env:"LOG_TOPIC_DROP_CREATED"`
	LogTopicShareGrant  int   `env:"LOG_TOPIC_SHARE_GRANT"`
	LogTopicConsistency int   `env:"LOG_TOPIC_CONSISTENCY"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.GrantWindow <= 0 || cfg.ViewWindow < cfg.GrantWindow {
		return nil, fmt.Errorf("drop windows: grant window must be positive and no longer than view window")
	}
	return cfg, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
