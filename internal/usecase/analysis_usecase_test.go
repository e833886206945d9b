package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

func TestAnalyze_Sentiment(t *testing.T) {
	ai := replyWith("```json\n{\"sentiment\": \"positive\", \"confidence\": 0.92, \"explanation\": \"Upbeat tone\"}\n```")
	uc := NewAnalysisUseCase(ai, time.Second)

	got, err := uc.Analyze(context.Background(), entity.AnalysisSentiment, "I love this!")
	require.NoError(t, err)

	require.NotNil(t, got.Sentiment)
	assert.Nil(t, got.Toxicity)
	assert.Equal(t, "positive", got.Sentiment.Sentiment)
	assert.InDelta(t, 0.92, got.Sentiment.Confidence, 1e-9)

	require.Equal(t, 1, ai.callCount())
	p := ai.calls[0]
	require.Len(t, p.Contents, 1)
	assert.Contains(t, p.Contents[0].Parts[0].Text, `"I love this!"`)
	assert.Nil(t, p.GenerationConfig)
}

func TestAnalyze_Toxicity(t *testing.T) {
	ai := replyWith(`{"is_toxic": true, "severity": "medium", "confidence": 0.8, "categories": ["insult"]}`)

	got, err := NewAnalysisUseCase(ai, time.Second).Analyze(context.Background(), entity.AnalysisToxicity, "you are dumb")
	require.NoError(t, err)

	require.NotNil(t, got.Toxicity)
	assert.True(t, got.Toxicity.IsToxic)
	assert.Equal(t, []string{"insult"}, got.Toxicity.Categories)
	assert.Equal(t, "Toxicity: toxic, severity medium (confidence 80%)\nCategories: insult", FormatAnalysis(got))
}

func TestAnalyze_Unsupported(t *testing.T) {
	ai := replyWith("{}")

	_, err := NewAnalysisUseCase(ai, time.Second).Analyze(context.Background(), "spam", "buy now")

	assert.ErrorIs(t, err, ErrUnsupportedAnalysis)
	assert.Zero(t, ai.callCount())
}

func TestAnalyze_BadJSON(t *testing.T) {
	_, err := NewAnalysisUseCase(replyWith("I think it is positive"), time.Second).
		Analyze(context.Background(), entity.AnalysisSentiment, "hi")

	assert.Error(t, err)
}

func TestAnalyze_ProviderErrorClassified(t *testing.T) {
	_, err := NewAnalysisUseCase(failWith(&entity.ProviderError{Message: "quota exceeded"}), time.Second).
		Analyze(context.Background(), entity.AnalysisSentiment, "hi")

	assert.ErrorIs(t, err, entity.ErrQuotaExceeded)
}

func TestFormatAnalysis_Sentiment(t *testing.T) {
	out := FormatAnalysis(entity.Analysis{
		Kind:      entity.AnalysisSentiment,
		Sentiment: &entity.SentimentResult{Sentiment: "neutral", Confidence: 0.5, Explanation: "Plain statement"},
	})

	assert.Equal(t, "Sentiment: neutral (confidence 50%)\nPlain statement", out)
	assert.Equal(t, "No analysis available.", FormatAnalysis(entity.Analysis{}))
}

func TestAnalyze_Deadline(t *testing.T) {
	uc := NewAnalysisUseCase(blockingAI{}, 20*time.Millisecond)

	started := time.Now()
	_, err := uc.Analyze(context.Background(), entity.AnalysisSentiment, "hi")

	assert.ErrorIs(t, err, entity.ErrTimeout)
	assert.Less(t, time.Since(started), time.Second)
}
