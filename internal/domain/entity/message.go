package entity

import "time"

// Role suhbatdagi xabar egasi
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn one exchanged message, immutable once created
type Turn struct {
	Role Role
	Text string
}

// UserTurn user roli bilan Turn yaratish
func UserTurn(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// AssistantTurn assistant roli bilan Turn yaratish
func AssistantTurn(text string) Turn {
	return Turn{Role: RoleAssistant, Text: text}
}

// UserContext per-request metadata about the sender. Never stored.
type UserContext struct {
	Identity      string
	DisplayName   string
	LocationLabel string // server/group title or "Direct Message"
	ChannelLabel  string // optional
	IsDirect      bool
}

// Event inbound message from the platform layer
type Event struct {
	SenderID    string
	RawText     string
	IsDirect    bool
	MentionsBot bool
	Context     UserContext
	ReceivedAt  time.Time
}

// ConversationStats suhbatlar statistikasi
type ConversationStats struct {
	TotalIdentities int `json:"total_identities"`
	TotalTurns      int `json:"total_turns"`
}
