package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
	"github.com/yourusername/gemini-chat-bot/internal/usecase"
)

const (
	welcomeMessage = `Hi! 👋

I'm an AI assistant powered by Google Gemini. Send me a message in private chat, or mention me in a group, and I'll reply.

I remember our recent messages, so you can ask follow-up questions. /help lists everything I can do.`

	helpMessage = `🤖 Commands:

/chat <message> - Ask me privately, even from a group
/clear - Forget our conversation
/stats - Conversation statistics
/export - Download your conversation as an Excel file
/analyze sentiment|toxicity <text> - Analyze a message (or reply to one)
/help - This list

In groups, mention me or reply to my message to get an answer.`

	analyzeUsageMessage = "Usage: /analyze sentiment|toxicity <text>, or reply to a message with /analyze sentiment"
	clearedMessage      = "✅ Conversation history cleared! We can start fresh."
	clearFailedMessage  = "Sorry, I couldn't clear your history."
	emptyHistoryMessage = "Your conversation history is empty."
	exportFailedMessage = "Sorry, I couldn't export your conversation."
	unknownCommand      = "Unknown command. See /help."
)

// handleCommand komandalarni qayta ishlash
func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	if target := commandTarget(message); target != "" && !strings.EqualFold(target, h.self.UserName) {
		return
	}

	switch message.Command() {
	case "start":
		h.sendMessage(message.Chat.ID, welcomeMessage)
	case "help":
		h.sendMessage(message.Chat.ID, helpMessage)
	case "chat":
		h.handleChatCommand(ctx, message)
	case "clear":
		h.handleClearCommand(ctx, message)
	case "stats":
		h.handleStatsCommand(ctx, message)
	case "export":
		h.handleExportCommand(ctx, message)
	case "analyze":
		h.handleAnalyzeCommand(ctx, message)
	default:
		if message.Chat.IsPrivate() {
			h.sendMessage(message.Chat.ID, unknownCommand)
		}
	}
}

// handleChatCommand /chat <message>
func (h *BotHandler) handleChatCommand(ctx context.Context, message *tgbotapi.Message) {
	ev := buildEvent(message, h.self)
	ev.RawText = message.CommandArguments()
	ev.MentionsBot = true

	if strings.TrimSpace(ev.RawText) != "" {
		h.sendTyping(message.Chat.ID)
	}
	h.dispatch.HandleChatCommand(ctx, ev, &commandResponder{h: h, message: message})
}

// handleClearCommand tarixni tozalash
func (h *BotHandler) handleClearCommand(ctx context.Context, message *tgbotapi.Message) {
	if err := h.chat.ClearHistory(ctx, identity(message)); err != nil {
		h.logger.ErrorContext(ctx, "Failed to clear history", slog.Any("err", err))
		h.reply(message, clearFailedMessage)
		return
	}
	h.reply(message, clearedMessage)
}

// handleStatsCommand suhbatlar statistikasi
func (h *BotHandler) handleStatsCommand(ctx context.Context, message *tgbotapi.Message) {
	stats, err := h.chat.Stats(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to read stats", slog.Any("err", err))
		h.reply(message, usecase.GenericFailureMessage)
		return
	}
	h.reply(message, formatStats(stats))
}

// handleExportCommand tarixni .xlsx hujjat sifatida yuborish
func (h *BotHandler) handleExportCommand(ctx context.Context, message *tgbotapi.Message) {
	id := identity(message)
	history, err := h.chat.GetHistory(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to read history", slog.Any("err", err))
		h.reply(message, exportFailedMessage)
		return
	}
	if len(history) == 0 {
		h.reply(message, emptyHistoryMessage)
		return
	}

	data, err := h.exporter.Export(ctx, id, history)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to export history", slog.Any("err", err))
		h.reply(message, exportFailedMessage)
		return
	}

	doc := tgbotapi.NewDocument(message.Chat.ID, tgbotapi.FileBytes{
		Name:  h.exporter.FileName(id),
		Bytes: data,
	})
	doc.Caption = fmt.Sprintf("📄 %d messages", len(history))
	if _, err := h.bot.Send(doc); err != nil {
		h.logger.ErrorContext(ctx, "Failed to send export", slog.Any("err", err))
		h.reply(message, exportFailedMessage)
	}
}

// handleAnalyzeCommand /analyze sentiment|toxicity <text>
func (h *BotHandler) handleAnalyzeCommand(ctx context.Context, message *tgbotapi.Message) {
	kind, text, ok := parseAnalyzeArgs(message.CommandArguments())
	if ok && text == "" && message.ReplyToMessage != nil {
		text = strings.TrimSpace(nonEmpty(message.ReplyToMessage.Text, message.ReplyToMessage.Caption))
	}
	if !ok || text == "" {
		h.reply(message, analyzeUsageMessage)
		return
	}

	if wait, ok := h.dispatch.CheckCooldown(identity(message)); !ok {
		h.reply(message, wait)
		return
	}

	h.sendTyping(message.Chat.ID)
	result, err := h.analysis.Analyze(ctx, kind, text)
	switch {
	case errors.Is(err, usecase.ErrUnsupportedAnalysis):
		h.reply(message, analyzeUsageMessage)
	case err != nil:
		h.logger.ErrorContext(ctx, "Analysis failed", slog.String("kind", string(kind)), slog.Any("err", err))
		h.reply(message, usecase.FailureMessage(err))
	default:
		h.reply(message, usecase.FormatAnalysis(result))
	}
}

// parseAnalyzeArgs "sentiment some text" -> kind, text
func parseAnalyzeArgs(args string) (entity.AnalysisKind, string, bool) {
	args = strings.TrimSpace(args)
	if args == "" {
		return "", "", false
	}
	head, rest, _ := strings.Cut(args, " ")
	kind := entity.AnalysisKind(strings.ToLower(head))
	switch kind {
	case entity.AnalysisSentiment, entity.AnalysisToxicity:
		return kind, strings.TrimSpace(rest), true
	default:
		return "", "", false
	}
}

func formatStats(s entity.ConversationStats) string {
	return fmt.Sprintf("📊 Active conversations: %d\n💬 Stored messages: %d", s.TotalIdentities, s.TotalTurns)
}

func nonEmpty(val, fallback string) string {
	if strings.TrimSpace(val) != "" {
		return val
	}
	return fallback
}
