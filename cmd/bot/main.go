package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/joho/godotenv"

	moneydrop "github.com/set-night/moneydrop"
	"github.com/set-night/moneydrop/internal/config"
	"github.com/set-night/moneydrop/internal/handler"
	"github.com/set-night/moneydrop/internal/middleware"
	"github.com/set-night/moneydrop/internal/repository"
	"github.com/set-night/moneydrop/internal/service"
	"github.com/set-night/moneydrop/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Local development reads env from a .env file; absence is fine.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(moneydrop.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize query layer
	queries := repository.New(pool)

	// Initialize services
	userService := service.NewUserService(pool, queries)
	groupService := service.NewGroupService(pool, queries)
	ledgerService := service.NewLedgerService(pool, queries)
	donationStore := repository.NewDonationStore(pool, queries)
	donationService := service.NewDonationService(donationStore, ledgerService, cfg.GrantWindow, cfg.ViewWindow)

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(queries),
			middleware.UserLoader(userService, groupService, cfg),
		),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	if cfg.DropPendingUpdates {
		if _, err := b.DeleteWebhook(ctx, &bot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			slog.Error("failed to drop pending updates", "error", err)
		}
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	// Initialize telegram logger
	tgLogger := telegram.NewTelegramLogger(b, cfg)

	// Initialize handler
	h := handler.New(handler.Deps{
		Bot:             b,
		Cfg:             cfg,
		UserService:     userService,
		GroupService:    groupService,
		DonationService: donationService,
		Queries:         queries,
		TgLogger:        tgLogger,
		BotUsername:     me.Username,
	})

	// Register all handlers
	h.Register()

	// Start rate limit window cleanup goroutine
	go func() {
		ticker := time.NewTicker(config.RateLimitCleanup)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := queries.CleanupRateLimits(context.Background()); err != nil {
					slog.Error("cleanup rate limits", "error", err)
				}
			}
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
