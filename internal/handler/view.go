package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/set-night/moneydrop/internal/domain"
	"github.com/set-night/moneydrop/internal/middleware"
	"github.com/set-night/moneydrop/internal/telegram"
)

func (h *Handler) handleDropInfo(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Используйте: /drop_info <id раздачи>\n\nID приходит в ответе на /drop.",
		})
		return
	}

	donation, err := h.donationService.View(ctx, user.ID, parts[1])
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, domain.ErrDonationNotFound):
			msg = "❌ Раздача не найдена."
		case errors.Is(err, domain.ErrViewExpired):
			msg = "⌛ Срок просмотра этой раздачи истёк."
		case errors.Is(err, domain.ErrNotDonationOwner):
			msg = "❌ Статистику раздачи видит только её автор."
		default:
			msg = "❌ Не удалось загрузить раздачу. Попробуйте позже."
			slog.Error("drop info", "error", err, "donation_id", parts[1], "user_id", user.ID)
			h.tgLogger.LogError(err, "drop info")
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   msg,
		})
		return
	}

	// With many shares the per-dividend listing can outgrow a single message.
	if err := telegram.SendLongMessage(ctx, b, chatID, formatDropInfo(donation), nil); err != nil {
		slog.Error("drop info send", "error", err, "donation_id", donation.ID)
	}
}

func formatDropInfo(d *domain.Donation) string {
	var sb strings.Builder

	claimed := d.ClaimedCount()
	var claimedSum int64
	for i := range d.Dividends {
		if d.Dividends[i].ClaimantID != nil {
			claimedSum += d.Dividends[i].Amount
		}
	}

	fmt.Fprintf(&sb, "🧧 *Раздача* `%s`\n\n", d.ID)
	fmt.Fprintf(&sb, "Сумма: *%d монет*\n", d.Amount)
	fmt.Fprintf(&sb, "Разобрано: *%d из %d* долей (%d монет)\n", claimed, d.ShareCount, claimedSum)
	fmt.Fprintf(&sb, "Создана: %s\n", d.CreatedAt.Format("02.01.2006 15:04"))
	if d.GrantExpired() {
		sb.WriteString("Приём заявок: завершён\n")
	} else {
		fmt.Fprintf(&sb, "Приём заявок: до %s\n", d.GrantDeadline.Format("02.01.2006 15:04"))
	}

	sb.WriteString("\n*Доли:*\n")
	for i := range d.Dividends {
		div := &d.Dividends[i]
		if div.ClaimantID != nil {
			fmt.Fprintf(&sb, "• %d монет — забрана\n", div.Amount)
		} else {
			fmt.Fprintf(&sb, "• %d монет — свободна\n", div.Amount)
		}
	}

	return sb.String()
}

func formatWindow(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		return fmt.Sprintf("%d дн.", int(d.Hours()/24))
	case d >= time.Hour:
		return fmt.Sprintf("%d ч.", int(d.Hours()))
	default:
		return fmt.Sprintf("%d мин.", int(d.Minutes()))
	}
}
