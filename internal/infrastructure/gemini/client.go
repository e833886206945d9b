package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
	"google.golang.org/api/option"
)

// SDKClient sends payloads through the official Go SDK
type SDKClient struct {
	client *genai.Client
	model  string
	pacer  *pacer
}

// NewSDKClient yangi Gemini SDK client yaratish
func NewSDKClient(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*SDKClient, error) {
	if apiKey == "" {
		return nil, missingKeyError()
	}
	if model == "" {
		model = DefaultModel
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &SDKClient{
		client: client,
		model:  model,
		pacer:  newPacer(defaultConcurrency, defaultMinInterval),
	}, nil
}

// GenerateContent replays all but the last content as chat history and
// sends the last one as the new message
func (g *SDKClient) GenerateContent(ctx context.Context, payload entity.Payload) (string, error) {
	contents := toGenaiContents(payload.Contents)
	if len(contents) == 0 {
		return "", fmt.Errorf("payload has no contents")
	}

	release, err := g.pacer.acquire(ctx)
	if err != nil {
		return "", providerErrorFrom(err)
	}
	defer release()

	model := g.client.GenerativeModel(g.model)
	if gc := payload.GenerationConfig; gc != nil {
		model.SetMaxOutputTokens(gc.MaxOutputTokens)
		model.SetTemperature(gc.Temperature)
		model.SetTopP(gc.TopP)
		model.SetTopK(gc.TopK)
	}
	model.SafetySettings = toSafetySettings(payload.SafetySettings)

	cs := model.StartChat()
	cs.History = contents[:len(contents)-1]

	resp, err := cs.SendMessage(ctx, contents[len(contents)-1].Parts...)
	if err != nil {
		return "", providerErrorFrom(err)
	}

	text := extractSDKText(resp)
	if text == "" {
		return "", &entity.ProviderError{Message: "no response candidates"}
	}
	return text, nil
}

// Close client ni yopish
func (g *SDKClient) Close() error {
	return g.client.Close()
}

func toGenaiContents(in []entity.Content) []*genai.Content {
	out := make([]*genai.Content, 0, len(in))
	for _, c := range in {
		parts := make([]genai.Part, 0, len(c.Parts))
		for _, p := range c.Parts {
			parts = append(parts, genai.Text(p.Text))
		}
		out = append(out, &genai.Content{Role: c.Role, Parts: parts})
	}
	return out
}

var harmCategories = map[string]genai.HarmCategory{
	"HARM_CATEGORY_HARASSMENT":        genai.HarmCategoryHarassment,
	"HARM_CATEGORY_HATE_SPEECH":       genai.HarmCategoryHateSpeech,
	"HARM_CATEGORY_SEXUALLY_EXPLICIT": genai.HarmCategorySexuallyExplicit,
	"HARM_CATEGORY_DANGEROUS_CONTENT": genai.HarmCategoryDangerousContent,
}

var harmThresholds = map[string]genai.HarmBlockThreshold{
	"BLOCK_LOW_AND_ABOVE":    genai.HarmBlockLowAndAbove,
	"BLOCK_MEDIUM_AND_ABOVE": genai.HarmBlockMediumAndAbove,
	"BLOCK_ONLY_HIGH":        genai.HarmBlockOnlyHigh,
	"BLOCK_NONE":             genai.HarmBlockNone,
}

// toSafetySettings unknown names are skipped
func toSafetySettings(in []entity.SafetySetting) []*genai.SafetySetting {
	var out []*genai.SafetySetting
	for _, s := range in {
		cat, ok := harmCategories[s.Category]
		if !ok {
			continue
		}
		th, ok := harmThresholds[s.Threshold]
		if !ok {
			continue
		}
		out = append(out, &genai.SafetySetting{Category: cat, Threshold: th})
	}
	return out
}

func extractSDKText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var result strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			result.WriteString(string(t))
		}
	}
	return result.String()
}
