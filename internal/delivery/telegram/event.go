package telegram

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

// buildEvent maps a Telegram message onto the platform-neutral event
func buildEvent(message *tgbotapi.Message, self tgbotapi.User) entity.Event {
	text := message.Text
	entities := message.Entities
	if text == "" {
		text, entities = message.Caption, message.CaptionEntities
	}

	ev := entity.Event{
		SenderID:    identity(message),
		RawText:     text,
		IsDirect:    message.Chat.IsPrivate(),
		MentionsBot: mentionsBot(text, entities, self) || repliesToBot(message, self),
		Context:     userContext(message),
		ReceivedAt:  time.Now(),
	}
	if message.Date != 0 {
		ev.ReceivedAt = time.Unix(int64(message.Date), 0)
	}
	return ev
}

func userContext(message *tgbotapi.Message) entity.UserContext {
	uc := entity.UserContext{
		Identity:    identity(message),
		DisplayName: displayName(message.From),
		IsDirect:    message.Chat.IsPrivate(),
	}
	if uc.IsDirect {
		uc.LocationLabel = "Direct Message"
		return uc
	}
	uc.LocationLabel = message.Chat.Title
	if message.Chat.UserName != "" {
		uc.ChannelLabel = message.Chat.UserName
	}
	return uc
}

// identity sender id as used by the conversation store
func identity(message *tgbotapi.Message) string {
	return strconv.FormatInt(message.From.ID, 10)
}

// displayName ism familiya, bo'lmasa username
func displayName(u *tgbotapi.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return u.UserName
}

// mentionsBot checks @username and text_mention entities
func mentionsBot(text string, entities []tgbotapi.MessageEntity, self tgbotapi.User) bool {
	if len(entities) == 0 {
		return false
	}
	units := utf16.Encode([]rune(text))
	for _, e := range entities {
		switch e.Type {
		case "mention":
			if self.UserName == "" || e.Offset < 0 || e.Offset+e.Length > len(units) {
				continue
			}
			handle := string(utf16.Decode(units[e.Offset : e.Offset+e.Length]))
			if strings.EqualFold(strings.TrimPrefix(handle, "@"), self.UserName) {
				return true
			}
		case "text_mention":
			if e.User != nil && e.User.ID == self.ID {
				return true
			}
		}
	}
	return false
}

// repliesToBot a reply to one of the bot's own messages counts as a mention
func repliesToBot(message *tgbotapi.Message, self tgbotapi.User) bool {
	r := message.ReplyToMessage
	if r == nil || r.From == nil || self.ID == 0 {
		return false
	}
	return r.From.ID == self.ID
}

// commandTarget the @bot part of /cmd@bot, empty when absent
func commandTarget(message *tgbotapi.Message) string {
	cmd := message.CommandWithAt()
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		return cmd[i+1:]
	}
	return ""
}
