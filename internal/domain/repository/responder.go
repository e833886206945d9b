package repository

import "context"

// CommandResponder delivery primitives for the /chat command path
type CommandResponder interface {
	// SendDirect delivers text to the requester's private chat
	SendDirect(ctx context.Context, text string) error

	// ReplyInPlace answers in the chat where the command was issued
	ReplyInPlace(ctx context.Context, text string) error
}
