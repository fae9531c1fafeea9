package handler

import (
	"github.com/go-telegram/bot"

	"github.com/set-night/moneydrop/internal/config"
	"github.com/set-night/moneydrop/internal/repository"
	"github.com/set-night/moneydrop/internal/service"
	"github.com/set-night/moneydrop/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot             *bot.Bot
	cfg             *config.Config
	userService     *service.UserService
	groupService    *service.GroupService
	donationService *service.DonationService
	queries         *repository.Queries
	tgLogger        *telegram.TelegramLogger
	botUsername     string
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot             *bot.Bot
	Cfg             *config.Config
	UserService     *service.UserService
	GroupService    *service.GroupService
	DonationService *service.DonationService
	Queries         *repository.Queries
	TgLogger        *telegram.TelegramLogger
	BotUsername     string
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:             deps.Bot,
		cfg:             deps.Cfg,
		userService:     deps.UserService,
		groupService:    deps.GroupService,
		donationService: deps.DonationService,
		queries:         deps.Queries,
		tgLogger:        deps.TgLogger,
		botUsername:     deps.BotUsername,
	}
}
