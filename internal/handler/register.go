package handler

import "github.com/go-telegram/bot"

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/drop_info", bot.MatchTypePrefix, h.handleDropInfo)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/drop", bot.MatchTypePrefix, h.handleDrop)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/balance", bot.MatchTypePrefix, h.handleBalance)

	// Claim callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "claim_", bot.MatchTypePrefix, h.handleClaim)
}
