package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID

	var text string
	if update.Message.Chat.Type == "private" {
		text = fmt.Sprintf(
			"🧧 Привет! Я раздаю монеты в группах.\n\n"+
				"Добавьте меня в группу и отправьте там:\n"+
				"/drop <сумма> <доли> — раздать монеты участникам\n\n"+
				"Остальные команды:\n"+
				"/balance — ваш баланс\n"+
				"/drop_info <id> — статистика вашей раздачи\n\n"+
				"Доли забираются кнопкой под сообщением раздачи, раздача открыта %s после создания.",
			formatWindow(h.cfg.GrantWindow),
		)
	} else {
		text = "🧧 Бот раздач подключён!\n\n" +
			"/drop <сумма> <доли> — раздать монеты\n" +
			"/balance — ваш баланс\n" +
			"/drop_info <id> — статистика вашей раздачи"
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
}
