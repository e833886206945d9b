package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
	"github.com/yourusername/gemini-chat-bot/internal/domain/repository"
)

// ErrUnsupportedAnalysis unknown analysis kind
var ErrUnsupportedAnalysis = errors.New("unsupported analysis type")

const sentimentPrompt = `Analyze the sentiment of this message and respond with JSON: {"sentiment": "positive/negative/neutral", "confidence": 0.0-1.0, "explanation": "brief explanation"}

Message: %q`

const toxicityPrompt = `Analyze this message for toxicity and respond with JSON: {"is_toxic": true/false, "severity": "low/medium/high", "confidence": 0.0-1.0, "categories": ["category1", "category2"]}

Message: %q`

// AnalysisUseCase one-shot message classification. Stateless: nothing is
// written to conversation history.
type AnalysisUseCase interface {
	Analyze(ctx context.Context, kind entity.AnalysisKind, text string) (entity.Analysis, error)
}

type analysisUseCase struct {
	aiRepo  repository.AIRepository
	timeout time.Duration
}

// NewAnalysisUseCase yangi AnalysisUseCase yaratish
func NewAnalysisUseCase(aiRepo repository.AIRepository, timeout time.Duration) AnalysisUseCase {
	if timeout <= 0 {
		timeout = DefaultGenerateTimeout
	}
	return &analysisUseCase{aiRepo: aiRepo, timeout: timeout}
}

func (u *analysisUseCase) Analyze(ctx context.Context, kind entity.AnalysisKind, text string) (entity.Analysis, error) {
	var prompt string
	switch kind {
	case entity.AnalysisSentiment:
		prompt = fmt.Sprintf(sentimentPrompt, text)
	case entity.AnalysisToxicity:
		prompt = fmt.Sprintf(toxicityPrompt, text)
	default:
		return entity.Analysis{}, fmt.Errorf("%w: %q", ErrUnsupportedAnalysis, kind)
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	raw, err := u.aiRepo.GenerateContent(ctx, entity.Payload{
		Contents: []entity.Content{entity.TextContent(entity.ContentRoleUser, prompt)},
	})
	if err != nil {
		return entity.Analysis{}, classifyGenerationError(err)
	}

	result := entity.Analysis{Kind: kind}
	body := []byte(stripCodeFence(raw))
	switch kind {
	case entity.AnalysisSentiment:
		result.Sentiment = &entity.SentimentResult{}
		err = json.Unmarshal(body, result.Sentiment)
	case entity.AnalysisToxicity:
		result.Toxicity = &entity.ToxicityResult{}
		err = json.Unmarshal(body, result.Toxicity)
	}
	if err != nil {
		return entity.Analysis{}, fmt.Errorf("failed to parse %s analysis: %w", kind, err)
	}
	return result, nil
}

// stripCodeFence models often wrap JSON in ```json fences
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// FormatAnalysis renders a result for chat
func FormatAnalysis(a entity.Analysis) string {
	switch {
	case a.Sentiment != nil:
		return fmt.Sprintf("Sentiment: %s (confidence %.0f%%)\n%s",
			a.Sentiment.Sentiment, a.Sentiment.Confidence*100, a.Sentiment.Explanation)
	case a.Toxicity != nil:
		verdict := "not toxic"
		if a.Toxicity.IsToxic {
			verdict = "toxic"
		}
		out := fmt.Sprintf("Toxicity: %s, severity %s (confidence %.0f%%)",
			verdict, a.Toxicity.Severity, a.Toxicity.Confidence*100)
		if len(a.Toxicity.Categories) > 0 {
			out += "\nCategories: " + strings.Join(a.Toxicity.Categories, ", ")
		}
		return out
	default:
		return "No analysis available."
	}
}
