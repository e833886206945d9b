package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
	"github.com/yourusername/gemini-chat-bot/internal/domain/repository"
	"github.com/yourusername/gemini-chat-bot/internal/usecase"
)

// botAPI the subset of *tgbotapi.BotAPI the handler uses
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Deps handler bog'liqliklari
type Deps struct {
	Dispatch usecase.DispatchUseCase
	Chat     usecase.ChatUseCase
	Analysis usecase.AnalysisUseCase
	Exporter repository.TranscriptExporter
}

// BotHandler Telegram bot handler
type BotHandler struct {
	bot      botAPI
	self     tgbotapi.User
	dispatch usecase.DispatchUseCase
	chat     usecase.ChatUseCase
	analysis usecase.AnalysisUseCase
	exporter repository.TranscriptExporter
	logger   *slog.Logger
}

// NewBotHandler yangi bot handler yaratish
func NewBotHandler(bot *tgbotapi.BotAPI, deps Deps, logger *slog.Logger) *BotHandler {
	return newBotHandler(bot, bot.Self, deps, logger)
}

func newBotHandler(bot botAPI, self tgbotapi.User, deps Deps, logger *slog.Logger) *BotHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BotHandler{
		bot:      bot,
		self:     self,
		dispatch: deps.Dispatch,
		chat:     deps.Chat,
		analysis: deps.Analysis,
		exporter: deps.Exporter,
		logger:   logger.With(slog.String("component", "telegram")),
	}
}

// Start botni ishga tushirish. Blocks until ctx is done.
func (h *BotHandler) Start(ctx context.Context) error {
	h.logger.Info("Bot started", slog.String("username", h.self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Bot stopping")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("updates channel closed")
			}
			if update.Message == nil {
				continue
			}
			go h.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage xabarni qayta ishlash
func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil || message.From.IsBot {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic while handling message",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			h.reply(message, usecase.GenericFailureMessage)
		}
	}()

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	ev := buildEvent(message, h.self)
	if !ev.IsDirect && !ev.MentionsBot {
		return
	}
	h.sendTyping(message.Chat.ID)

	out := h.dispatch.Handle(ctx, ev)
	h.sendOutcome(message, out)
}

// sendOutcome replies in order; in groups the first one quotes the trigger
func (h *BotHandler) sendOutcome(message *tgbotapi.Message, out entity.Outcome) {
	for i, text := range out.Replies {
		if i == 0 {
			h.reply(message, text)
			continue
		}
		h.sendMessage(message.Chat.ID, text)
	}
}

// sendMessage oddiy xabar yuborish
func (h *BotHandler) sendMessage(chatID int64, text string) {
	if _, err := h.send(chatID, 0, text); err != nil {
		h.logger.Error("Failed to send message", slog.Int64("chat_id", chatID), slog.Any("err", err))
	}
}

// reply quotes the triggering message outside private chats
func (h *BotHandler) reply(message *tgbotapi.Message, text string) {
	replyTo := 0
	if !message.Chat.IsPrivate() {
		replyTo = message.MessageID
	}
	if _, err := h.send(message.Chat.ID, replyTo, text); err != nil {
		h.logger.Error("Failed to send reply", slog.Int64("chat_id", message.Chat.ID), slog.Any("err", err))
	}
}

func (h *BotHandler) send(chatID int64, replyTo int, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	return h.bot.Send(msg)
}

// sendTyping "typing" indikatori
func (h *BotHandler) sendTyping(chatID int64) {
	if _, err := h.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		h.logger.Debug("Failed to send typing action", slog.Any("err", err))
	}
}

// GetBotUsername bot username ni olish
func (h *BotHandler) GetBotUsername() string {
	return h.self.UserName
}
