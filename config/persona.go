package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

// DefaultPersona built-in assistant persona
func DefaultPersona() entity.Persona {
	return entity.Persona{
		Intro: "You are an intelligent and helpful Telegram bot assistant. You provide thoughtful, engaging, and contextually appropriate responses to users.",
		Guidelines: []string{
			"Be conversational, friendly, and helpful",
			"Keep responses concise but informative",
			"Use simple formatting only when it helps readability",
			"Avoid being overly formal - match the casual chat atmosphere",
			"Don't mention that you're an AI unless directly asked",
			"Be curious and engaging, ask follow-up questions when appropriate",
			"If someone asks about your capabilities, explain that you can have conversations, answer questions, and help with various topics",
		},
		Closing: "Respond naturally and helpfully to the user's message.",
		Generation: entity.GenerationConfig{
			MaxOutputTokens: 1000,
			Temperature:     0.7,
			TopP:            0.9,
			TopK:            1,
		},
		Safety: []entity.SafetySetting{
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
			{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
		},
	}
}

// personaFile YAML shape; omitted fields keep the default
type personaFile struct {
	Intro      string   `yaml:"intro"`
	Guidelines []string `yaml:"guidelines"`
	Closing    string   `yaml:"closing"`
	Generation struct {
		MaxOutputTokens *int32   `yaml:"max_output_tokens"`
		Temperature     *float32 `yaml:"temperature"`
		TopP            *float32 `yaml:"top_p"`
		TopK            *int32   `yaml:"top_k"`
	} `yaml:"generation"`
	Safety []struct {
		Category  string `yaml:"category"`
		Threshold string `yaml:"threshold"`
	} `yaml:"safety"`
}

// LoadPersona reads a YAML persona file over DefaultPersona.
// Empty path returns the default.
func LoadPersona(path string) (entity.Persona, error) {
	persona := DefaultPersona()
	if path == "" {
		return persona, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Persona{}, fmt.Errorf("failed to read persona file: %w", err)
	}
	return ParsePersona(data, persona)
}

// ParsePersona applies YAML overrides onto base
func ParsePersona(data []byte, base entity.Persona) (entity.Persona, error) {
	var pf personaFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return entity.Persona{}, fmt.Errorf("failed to parse persona: %w", err)
	}

	if pf.Intro != "" {
		base.Intro = pf.Intro
	}
	if len(pf.Guidelines) > 0 {
		base.Guidelines = pf.Guidelines
	}
	if pf.Closing != "" {
		base.Closing = pf.Closing
	}

	gen := pf.Generation
	if gen.MaxOutputTokens != nil {
		base.Generation.MaxOutputTokens = *gen.MaxOutputTokens
	}
	if gen.Temperature != nil {
		base.Generation.Temperature = *gen.Temperature
	}
	if gen.TopP != nil {
		base.Generation.TopP = *gen.TopP
	}
	if gen.TopK != nil {
		base.Generation.TopK = *gen.TopK
	}

	if len(pf.Safety) > 0 {
		base.Safety = make([]entity.SafetySetting, 0, len(pf.Safety))
		for _, s := range pf.Safety {
			if s.Category == "" || s.Threshold == "" {
				return entity.Persona{}, fmt.Errorf("persona safety entry needs category and threshold")
			}
			base.Safety = append(base.Safety, entity.SafetySetting{Category: s.Category, Threshold: s.Threshold})
		}
	}

	if base.Generation.MaxOutputTokens <= 0 {
		return entity.Persona{}, fmt.Errorf("persona max_output_tokens must be positive")
	}
	return base, nil
}
