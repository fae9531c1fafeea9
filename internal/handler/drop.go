package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/moneydrop/internal/config"
	"github.com/set-night/moneydrop/internal/domain"
	"github.com/set-night/moneydrop/internal/middleware"
	"github.com/set-night/moneydrop/internal/telegram"
)

const dropUsage = "Используйте: /drop <сумма> <количество долей>\n\nНапример: /drop 100 5 — раздать 100 монет на 5 человек."

func (h *Handler) handleDrop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	chatType := update.Message.Chat.Type

	if chatType == "private" {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "🧧 Раздачи работают только в группах. Добавьте бота в группу и отправьте /drop там.",
		})
		return
	}

	user := middleware.GetUser(ctx)
	group := middleware.GetGroup(ctx)
	if user == nil || group == nil {
		return
	}

	amount, shareCount, ok := parseDropArgs(update.Message.Text)
	if !ok {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   dropUsage,
		})
		return
	}

	donation, err := h.donationService.Create(ctx, user.ID, group.TelegramID, amount, shareCount)
	if err != nil {
		var msg string
		switch {
		case err == domain.ErrInsufficientBalance:
			msg = "❌ Недостаточно монет на балансе."
		case err == domain.ErrInvalidSplit:
			msg = "❌ Сумма должна быть не меньше количества долей.\n\n" + dropUsage
		default:
			msg = "❌ Не удалось создать раздачу. Попробуйте позже."
			slog.Error("drop create", "error", err, "user_id", user.ID, "room_id", group.TelegramID)
			h.tgLogger.LogError(err, "drop create")
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   msg,
		})
		return
	}

	text := fmt.Sprintf(
		"🧧 *%s* раздаёт *%d монет* на *%d* человек!\n\n"+
			"Жмите кнопку, пока доли не закончились. Раздача открыта %s.\n\n"+
			"ID раздачи: `%s`",
		telegram.EscapeMarkdown(user.FirstName),
		donation.Amount,
		donation.ShareCount,
		formatWindow(h.cfg.GrantWindow),
		donation.ID,
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeMarkdownV1,
		ReplyMarkup: telegram.InlineKeyboard(
			telegram.ButtonRow(
				telegram.InlineButton("💰 Забрать долю", "claim_"+donation.ID),
			),
		),
	})

	h.tgLogger.LogDropCreated(donation.ID, user.TelegramID, group.TelegramID, donation.Amount, donation.ShareCount)
}

func parseDropArgs(text string) (amount int64, shareCount int, ok bool) {
	parts := strings.Fields(text)
	if len(parts) < 3 {
		return 0, 0, false
	}

	amount, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || amount < 1 || amount > config.MaxDropAmount {
		return 0, 0, false
	}

	shareCount, err = strconv.Atoi(parts[2])
	if err != nil || shareCount < 1 || shareCount > config.MaxSharesPerDrop {
		return 0, 0, false
	}

	return amount, shareCount, true
}
