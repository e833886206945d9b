package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// commandResponder delivers /chat output for one command message.
// A user's private chat id equals their user id; sending fails until the
// user has started the bot.
type commandResponder struct {
	h       *BotHandler
	message *tgbotapi.Message
}

func (r *commandResponder) SendDirect(ctx context.Context, text string) error {
	_, err := r.h.send(r.message.From.ID, 0, text)
	return err
}

func (r *commandResponder) ReplyInPlace(ctx context.Context, text string) error {
	replyTo := 0
	if !r.message.Chat.IsPrivate() {
		replyTo = r.message.MessageID
	}
	_, err := r.h.send(r.message.Chat.ID, replyTo, text)
	return err
}
