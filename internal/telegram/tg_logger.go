package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"

	"github.com/set-night/moneydrop/internal/config"
)

type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError       LogType = "error"
	LogTypeDropCreated LogType = "dropCreated"
	LogTypeShareGrant  LogType = "shareGrant"
	LogTypeConsistency LogType = "consistency"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	// Truncate if too long
	if len([]rune(message)) > MaxMessageLen {
		message = string([]rune(message)[:MaxMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		context, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogDropCreated(donationID string, ownerTelegramID, roomID, amount int64, shareCount int) {
	msg := fmt.Sprintf("🧧 *Drop Created*\n\n*ID:* `%s`\n*Owner:* `%d`\n*Room:* `%d`\n*Amount:* %d\n*Shares:* %d",
		donationID, ownerTelegramID, roomID, amount, shareCount)
	l.Log(LogTypeDropCreated, msg)
}

func (l *TelegramLogger) LogShareGranted(donationID string, claimantTelegramID, amount int64) {
	msg := fmt.Sprintf("💸 *Share Granted*\n\n*Drop:* `%s`\n*User:* `%d`\n*Amount:* %d",
		donationID, claimantTelegramID, amount)
	l.Log(LogTypeShareGrant, msg)
}

// LogConsistencyFault reports a claim whose ledger deposit failed. These are
// never retried automatically and need manual reconciliation.
func (l *TelegramLogger) LogConsistencyFault(donationID string, claimantID int64, err error) {
	msg := fmt.Sprintf("🚨 *Consistency Fault*\n\n*Drop:* `%s`\n*Claimant:* `%d`\n*Error:* `%s`\n*Time:* %s",
		donationID, claimantID, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeConsistency, msg)
}

func (l *TelegramLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeDropCreated:
		return l.cfg.LogTopicDropCreated
	case LogTypeShareGrant:
		return l.cfg.LogTopicShareGrant
	case LogTypeConsistency:
		return l.cfg.LogTopicConsistency
	default:
		return 0
	}
}
