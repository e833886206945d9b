package entity

// Gemini generateContent request body. Field names follow the wire format.
type Payload struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
	SafetySettings   []SafetySetting   `json:"safetySettings,omitempty"`
}

// Content bitta rol bilan belgilangan turn
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

type GenerationConfig struct {
	MaxOutputTokens int32   `json:"maxOutputTokens"`
	Temperature     float32 `json:"temperature"`
	TopP            float32 `json:"topP"`
	TopK            int32   `json:"topK"`
}

type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// Provider role names
const (
	ContentRoleUser  = "user"
	ContentRoleModel = "model"
)

// TextContent bitta matnli Content yaratish
func TextContent(role, text string) Content {
	return Content{Role: role, Parts: []Part{{Text: text}}}
}
