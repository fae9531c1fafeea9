package middleware

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/moneydrop/internal/config"
	"github.com/set-night/moneydrop/internal/repository"
)

// RateLimit returns middleware that enforces per-minute rate limits.
// Claim callbacks are exempt: the race for shares is legitimate burst
// traffic.
func RateLimit(queries *repository.Queries) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID

			count, err := queries.CheckAndIncrementRateLimit(ctx, chatID)
			if err != nil {
				slog.Error("rate limit check failed", "error", err, "chat_id", chatID)
				next(ctx, b, update)
				return
			}

			if count > config.RateLimitRegular {
				slog.Debug("rate limited", "chat_id", chatID, "count", count)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "⏳ Слишком много запросов. Подождите немного.",
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
