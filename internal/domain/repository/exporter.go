package repository

import (
	"context"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

// TranscriptExporter suhbat tarixini fayl ko'rinishida eksport qilish
type TranscriptExporter interface {
	// Export returns the encoded document; turns are oldest first
	Export(ctx context.Context, identity string, turns []entity.Turn) ([]byte, error)
	// FileName suggested attachment name
	FileName(identity string) string
}
