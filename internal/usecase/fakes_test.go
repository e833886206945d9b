package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

type fakeAI struct {
	mu      sync.Mutex
	respond func(entity.Payload) (string, error)
	calls   []entity.Payload
}

func (f *fakeAI) GenerateContent(ctx context.Context, p entity.Payload) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, p)
	f.mu.Unlock()
	return f.respond(p)
}

func (f *fakeAI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func replyWith(text string) *fakeAI {
	return &fakeAI{respond: func(entity.Payload) (string, error) { return text, nil }}
}

func failWith(err error) *fakeAI {
	return &fakeAI{respond: func(entity.Payload) (string, error) { return "", err }}
}

// echoAI answers with the last user message verbatim
func echoAI() *fakeAI {
	return &fakeAI{respond: func(p entity.Payload) (string, error) {
		last := p.Contents[len(p.Contents)-1]
		return last.Parts[0].Text, nil
	}}
}

// blockingAI never answers; it returns only when ctx ends
type blockingAI struct{}

func (blockingAI) GenerateContent(ctx context.Context, p entity.Payload) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

type fakeResponder struct {
	directErr error
	direct    []string
	inPlace   []string
}

func (r *fakeResponder) SendDirect(ctx context.Context, text string) error {
	if r.directErr != nil {
		return r.directErr
	}
	r.direct = append(r.direct, text)
	return nil
}

func (r *fakeResponder) ReplyInPlace(ctx context.Context, text string) error {
	r.inPlace = append(r.inPlace, text)
	return nil
}

var errForbidden = errors.New("Forbidden: bot can't initiate conversation with a user")

func testPersona() entity.Persona {
	return entity.Persona{
		Intro:      "You are a helpful chat assistant.",
		Guidelines: []string{"Be friendly", "Be concise"},
		Closing:    "Respond naturally and helpfully to the user's message.",
		Generation: entity.GenerationConfig{MaxOutputTokens: 1000, Temperature: 0.7, TopP: 0.9, TopK: 1},
		Safety: []entity.SafetySetting{
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
		},
	}
}
