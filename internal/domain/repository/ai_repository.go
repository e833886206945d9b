package repository

import (
	"context"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

// AIRepository AI bilan ishlash uchun interface
type AIRepository interface {
	// GenerateContent sends a fully built payload and returns the generated text.
	// Failures are reported as *entity.ProviderError.
	GenerateContent(ctx context.Context, payload entity.Payload) (string, error)
}
