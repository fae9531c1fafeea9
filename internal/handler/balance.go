package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/moneydrop/internal/middleware"
)

func (h *Handler) handleBalance(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	// The middleware snapshot may be stale after a recent claim; re-read.
	fresh, err := h.userService.GetByID(ctx, user.ID)
	if err != nil {
		slog.Error("balance lookup", "error", err, "user_id", user.ID)
		fresh = user
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      fmt.Sprintf("💰 Ваш баланс: *%s монет*", fresh.Balance.StringFixed(2)),
		ParseMode: models.ParseModeMarkdownV1,
	})
}
