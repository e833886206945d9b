package usecase

import (
	"strings"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

// PromptBuilder builds the Gemini request for one conversation turn.
// It holds no mutable state.
type PromptBuilder struct {
	persona entity.Persona
}

// NewPromptBuilder yangi PromptBuilder yaratish
func NewPromptBuilder(persona entity.Persona) *PromptBuilder {
	return &PromptBuilder{persona: persona}
}

// BuildSystemPrompt persona plus the sender's context
func (b *PromptBuilder) BuildSystemPrompt(uc entity.UserContext) string {
	var sb strings.Builder

	sb.WriteString(b.persona.Intro)
	if len(b.persona.Guidelines) > 0 {
		sb.WriteString("\n\nKey guidelines:")
		for _, g := range b.persona.Guidelines {
			sb.WriteString("\n- ")
			sb.WriteString(g)
		}
	}

	sb.WriteString("\n\nCurrent context:")
	if name := nonEmpty(uc.DisplayName, uc.Identity); name != "" {
		sb.WriteString("\n- User: ")
		sb.WriteString(name)
	}
	switch {
	case uc.IsDirect:
		sb.WriteString("\n- Location: Direct message")
	case uc.LocationLabel != "":
		sb.WriteString("\n- Server: ")
		sb.WriteString(uc.LocationLabel)
		if uc.ChannelLabel != "" {
			sb.WriteString("\n- Channel: #")
			sb.WriteString(uc.ChannelLabel)
		}
	}

	if b.persona.Closing != "" {
		sb.WriteString("\n\n")
		sb.WriteString(b.persona.Closing)
	}

	return sb.String()
}

// BuildPayload system prompt first, then history in order, then the new message.
// Gemini has no system role in contents, so the prompt goes in as a user turn.
func (b *PromptBuilder) BuildPayload(systemPrompt string, history []entity.Turn, message string) entity.Payload {
	contents := make([]entity.Content, 0, len(history)+2)
	contents = append(contents, entity.TextContent(entity.ContentRoleUser, systemPrompt))
	for _, turn := range history {
		contents = append(contents, entity.TextContent(contentRole(turn.Role), turn.Text))
	}
	contents = append(contents, entity.TextContent(entity.ContentRoleUser, message))

	gen := b.persona.Generation
	safety := make([]entity.SafetySetting, len(b.persona.Safety))
	copy(safety, b.persona.Safety)

	return entity.Payload{
		Contents:         contents,
		GenerationConfig: &gen,
		SafetySettings:   safety,
	}
}

func contentRole(r entity.Role) string {
	if r == entity.RoleAssistant {
		return entity.ContentRoleModel
	}
	return entity.ContentRoleUser
}

func nonEmpty(val, fallback string) string {
	if strings.TrimSpace(val) != "" {
		return val
	}
	return fallback
}
