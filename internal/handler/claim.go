package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/moneydrop/internal/domain"
	"github.com/set-night/moneydrop/internal/middleware"
	"github.com/set-night/moneydrop/internal/telegram"
)

func (h *Handler) handleClaim(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	cb := update.CallbackQuery

	user := middleware.GetUser(ctx)
	if user == nil || cb.Message.Message == nil {
		h.answerCallback(ctx, b, cb.ID, "❌ Попробуйте ещё раз.")
		return
	}

	chatID := cb.Message.Message.Chat.ID
	donationID := strings.TrimPrefix(cb.Data, "claim_")

	amount, err := h.donationService.GrantShare(ctx, donationID, chatID, user.ID)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, domain.ErrDonationNotFound):
			msg = "❌ Раздача не найдена."
		case errors.Is(err, domain.ErrDonationExpired):
			msg = "⌛ Раздача уже завершена."
		case errors.Is(err, domain.ErrOwnDonation):
			msg = "❌ Нельзя забрать долю из своей раздачи."
		case errors.Is(err, domain.ErrAlreadyClaimed):
			msg = "❌ Вы уже получили свою долю."
		case errors.Is(err, domain.ErrUpdateInconsistency):
			// The share is assigned but the deposit failed; this needs
			// manual reconciliation, not a retry.
			msg = "⚠️ Доля зарезервирована, но начисление задержалось. Мы разберёмся."
			slog.Error("claim consistency fault", "error", err, "donation_id", donationID, "claimant_id", user.ID)
			h.tgLogger.LogConsistencyFault(donationID, user.ID, err)
		default:
			msg = "❌ Не удалось забрать долю. Попробуйте ещё раз."
			slog.Error("claim share", "error", err, "donation_id", donationID, "claimant_id", user.ID)
			h.tgLogger.LogError(err, "claim share")
		}
		h.answerCallback(ctx, b, cb.ID, msg)
		return
	}

	if amount == 0 {
		// Normal outcome: somebody else took the last share first.
		h.answerCallback(ctx, b, cb.ID, "😔 Все доли уже разобраны.")
		return
	}

	h.answerCallback(ctx, b, cb.ID, fmt.Sprintf("🎉 Ваша доля: %d монет!", amount))

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      fmt.Sprintf("💸 *%s* забирает *%d монет*!", telegram.EscapeMarkdown(user.FirstName), amount),
		ParseMode: models.ParseModeMarkdownV1,
	})

	h.tgLogger.LogShareGranted(donationID, user.TelegramID, amount)
}

func (h *Handler) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       text != "" && strings.HasPrefix(text, "⚠️"),
	})
}
