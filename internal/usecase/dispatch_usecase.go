package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
	"github.com/yourusername/gemini-chat-bot/internal/domain/repository"
)

// DefaultCooldown per-user pause between AI replies
const DefaultCooldown = 5 * time.Second

// User-facing texts
const (
	GreetingMessage       = "Hi there! What would you like to talk about?"
	CooldownMessageFormat = "Please wait %d more seconds before asking me something else."
	ChatUsageMessage      = "Usage: /chat <your message>"

	InvalidCredentialsMessage = "There's a configuration issue on my end. Please contact an administrator."
	QuotaExceededMessage      = "I'm currently experiencing high traffic. Please try again in a few moments."
	TimeoutMessage            = "My response took too long to generate. Please try a shorter message."
	GenericFailureMessage     = "Sorry, I encountered an error while processing your message."

	DirectSentNotice   = "📨 I've sent you a private message! You can continue our conversation there without using /chat again."
	DirectFollowUp     = "💬 You can continue our conversation here! Just send me messages directly without using /chat - I'll respond to everything you say in private chat."
	DirectFailedNotice = "⚠️ I couldn't send you a private message - please start a chat with me first if you'd like to chat privately!"
	TruncatedNotice    = "*Response was truncated due to length limits.*"
)

// discordStyleMention matches <@123> and <@!123>
var discordStyleMention = regexp.MustCompile(`<@!?\d+>`)

// BotAddressPattern matches every token that addresses the bot: platform ids
// like <@123> and the given @handles.
func BotAddressPattern(handles ...string) *regexp.Regexp {
	alts := []string{discordStyleMention.String()}
	for _, h := range handles {
		h = strings.TrimPrefix(strings.TrimSpace(h), "@")
		if h == "" {
			continue
		}
		alts = append(alts, `(?i:@`+regexp.QuoteMeta(h)+`)\b`)
	}
	return regexp.MustCompile(strings.Join(alts, "|"))
}

// DispatchConfig dispatch sozlamalari
type DispatchConfig struct {
	Cooldown         time.Duration
	MaxMessageLength int
	BotAddress       *regexp.Regexp
}

// DispatchUseCase decides whether and how the bot answers an event
type DispatchUseCase interface {
	// Handle runs gate, cooldown, normalisation and generation in one pass
	Handle(ctx context.Context, ev entity.Event) entity.Outcome

	// HandleChatCommand answers /chat, preferring the requester's private chat
	HandleChatCommand(ctx context.Context, ev entity.Event, responder repository.CommandResponder) entity.Outcome

	// CheckCooldown arms the shared per-user cooldown for other AI-backed
	// commands; ok is false with the wait text when the user must wait
	CheckCooldown(identity string) (wait string, ok bool)
}

type dispatchUseCase struct {
	chat      ChatUseCase
	cooldowns repository.CooldownTracker
	cfg       DispatchConfig
	now       func() time.Time
	logger    *slog.Logger
}

// NewDispatchUseCase yangi DispatchUseCase yaratish. now nil bo'lsa time.Now.
func NewDispatchUseCase(
	chat ChatUseCase,
	cooldowns repository.CooldownTracker,
	cfg DispatchConfig,
	now func() time.Time,
	logger *slog.Logger,
) DispatchUseCase {
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = DefaultMaxMessageLength
	}
	if cfg.Cooldown < 0 {
		cfg.Cooldown = 0
	}
	if cfg.BotAddress == nil {
		cfg.BotAddress = BotAddressPattern()
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &dispatchUseCase{
		chat:      chat,
		cooldowns: cooldowns,
		cfg:       cfg,
		now:       now,
		logger:    logger.With(slog.String("component", "dispatch")),
	}
}

// Handle xabarni qayta ishlash
func (u *dispatchUseCase) Handle(ctx context.Context, ev entity.Event) entity.Outcome {
	if !ev.IsDirect && !ev.MentionsBot {
		return entity.Outcome{Kind: entity.OutcomeIgnored}
	}

	logger := u.logger.With(
		slog.String("request_id", uuid.NewString()),
		slog.String("user", ev.SenderID),
		slog.String("location", ev.Context.LocationLabel),
	)
	defer u.sweep()

	if res := u.cooldowns.CheckAndArm(ev.SenderID, u.now(), u.cfg.Cooldown); !res.Allowed {
		logger.DebugContext(ctx, "Cooldown active", slog.Int("remaining_s", res.RemainingSeconds()))
		return entity.Outcome{
			Kind:    entity.OutcomeCooldown,
			Replies: []string{fmt.Sprintf(CooldownMessageFormat, res.RemainingSeconds())},
		}
	}

	content := u.normalize(ev.RawText)
	if content == "" {
		return entity.Outcome{Kind: entity.OutcomeGreeting, Replies: []string{GreetingMessage}}
	}

	reply, err := u.chat.Generate(ctx, ev.SenderID, content, ev.Context)
	if err != nil {
		logger.ErrorContext(ctx, "Error generating AI response", slog.Any("err", err))
		return entity.Outcome{Kind: entity.OutcomeFailed, Replies: []string{FailureMessage(err)}, Err: err}
	}

	chunks := SplitMessage(reply, u.cfg.MaxMessageLength)
	logger.InfoContext(ctx, "AI response ready", slog.Int("chunks", len(chunks)))
	return entity.Outcome{Kind: entity.OutcomeAnswered, Replies: chunks}
}

// HandleChatCommand /chat komandasi. Delivery failures never propagate: a
// failed private send degrades to an in-place reply with a notice.
func (u *dispatchUseCase) HandleChatCommand(ctx context.Context, ev entity.Event, responder repository.CommandResponder) entity.Outcome {
	logger := u.logger.With(
		slog.String("request_id", uuid.NewString()),
		slog.String("user", ev.SenderID),
		slog.String("command", "chat"),
	)
	defer u.sweep()

	reply := func(text string) {
		if err := responder.ReplyInPlace(ctx, text); err != nil {
			logger.ErrorContext(ctx, "Error sending command reply", slog.Any("err", err))
		}
	}

	if res := u.cooldowns.CheckAndArm(ev.SenderID, u.now(), u.cfg.Cooldown); !res.Allowed {
		text := fmt.Sprintf(CooldownMessageFormat, res.RemainingSeconds())
		reply(text)
		return entity.Outcome{Kind: entity.OutcomeCooldown, Replies: []string{text}}
	}

	content := u.normalize(ev.RawText)
	if content == "" {
		reply(ChatUsageMessage)
		return entity.Outcome{Kind: entity.OutcomeGreeting, Replies: []string{ChatUsageMessage}}
	}

	answer, err := u.chat.Generate(ctx, ev.SenderID, content, ev.Context)
	if err != nil {
		logger.ErrorContext(ctx, "Error in chat command", slog.Any("err", err))
		text := FailureMessage(err)
		reply(text)
		return entity.Outcome{Kind: entity.OutcomeFailed, Replies: []string{text}, Err: err}
	}

	chunks := SplitMessage(answer, u.cfg.MaxMessageLength)

	if ev.IsDirect {
		for _, c := range chunks {
			reply(c)
		}
		return entity.Outcome{Kind: entity.OutcomeAnswered, Replies: chunks}
	}

	if err := u.sendDirect(ctx, responder, chunks); err != nil {
		logger.WarnContext(ctx, "Could not send private message, replying in place", slog.Any("err", err))
		text := u.fallbackText(answer)
		reply(text)
		return entity.Outcome{Kind: entity.OutcomeAnswered, Replies: []string{text}}
	}

	reply(DirectSentNotice)
	return entity.Outcome{Kind: entity.OutcomeAnswered, Replies: chunks}
}

func (u *dispatchUseCase) CheckCooldown(identity string) (string, bool) {
	defer u.sweep()

	if res := u.cooldowns.CheckAndArm(identity, u.now(), u.cfg.Cooldown); !res.Allowed {
		return fmt.Sprintf(CooldownMessageFormat, res.RemainingSeconds()), false
	}
	return "", true
}

func (u *dispatchUseCase) sendDirect(ctx context.Context, responder repository.CommandResponder, chunks []string) error {
	for _, c := range chunks {
		if err := responder.SendDirect(ctx, c); err != nil {
			return err
		}
	}
	// The hint is best effort once the answer itself went through
	if err := responder.SendDirect(ctx, DirectFollowUp); err != nil {
		u.logger.WarnContext(ctx, "Could not send follow-up hint", slog.Any("err", err))
	}
	return nil
}

// fallbackText answer plus notices, kept within one message
func (u *dispatchUseCase) fallbackText(answer string) string {
	limit := u.cfg.MaxMessageLength
	suffix := "\n\n" + DirectFailedNotice
	if runeLen(answer)+runeLen(suffix) <= limit {
		return answer + suffix
	}

	suffix = "\n\n" + TruncatedNotice + suffix
	room := limit - runeLen(suffix)
	if room <= len(ellipsis) {
		return Truncate(DirectFailedNotice, limit)
	}
	return Truncate(answer, room) + suffix
}

func (u *dispatchUseCase) normalize(raw string) string {
	return strings.TrimSpace(u.cfg.BotAddress.ReplaceAllString(raw, ""))
}

func (u *dispatchUseCase) sweep() {
	if n := u.cooldowns.Sweep(u.now()); n > 0 {
		u.logger.Debug("Swept expired cooldowns", slog.Int("removed", n))
	}
}

// FailureMessage maps a generation failure to the text shown to the user
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrInvalidCredentials):
		return InvalidCredentialsMessage
	case errors.Is(err, entity.ErrQuotaExceeded):
		return QuotaExceededMessage
	case errors.Is(err, entity.ErrTimeout):
		return TimeoutMessage
	default:
		return GenericFailureMessage
	}
}
