package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"TELEGRAM_BOT_TOKEN", "GEMINI_API_KEY", "GEMINI_MODEL", "GEMINI_BASE_URL",
	"AI_TRANSPORT", "AI_TIMEOUT", "COOLDOWN_DURATION", "MAX_MESSAGE_LENGTH",
	"MAX_EXCHANGES", "CONVERSATION_GC_INTERVAL", "CONVERSATION_EVICTION",
	"CONVERSATION_EVICTION_FRACTION", "CONVERSATION_MAX_IDLE", "PERSONA_FILE",
	"HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv runs Load from an empty dir so no stray .env is picked up
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Equal(t, TransportREST, cfg.AITransport)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.Equal(t, 5*time.Second, cfg.Cooldown)
	assert.Equal(t, 2000, cfg.MaxMessageLength)
	assert.Equal(t, 10, cfg.MaxExchanges)
	assert.Equal(t, 30*time.Minute, cfg.GCInterval)
	assert.Equal(t, EvictionRandom, cfg.Eviction)
	assert.InDelta(t, 0.1, cfg.EvictionFraction, 1e-9)
	assert.Equal(t, time.Hour, cfg.MaxIdle)
	assert.Empty(t, cfg.HTTPAddr)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_BOT_TOKEN", "tg")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("AI_TRANSPORT", "SDK")
	t.Setenv("AI_TIMEOUT", "45")
	t.Setenv("COOLDOWN_DURATION", "1500")
	t.Setenv("CONVERSATION_GC_INTERVAL", "5m")
	t.Setenv("CONVERSATION_EVICTION", "idle")
	t.Setenv("HTTP_ADDR", ":8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, TransportSDK, cfg.AITransport)
	assert.Equal(t, 45*time.Second, cfg.AITimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Cooldown)
	assert.Equal(t, 5*time.Minute, cfg.GCInterval)
	assert.Equal(t, EvictionIdle, cfg.Eviction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{"GEMINI_API_KEY": "key"}},
		{"missing key", map[string]string{"TELEGRAM_BOT_TOKEN": "tg"}},
		{"bad transport", map[string]string{"AI_TRANSPORT": "grpc"}},
		{"bad eviction", map[string]string{"CONVERSATION_EVICTION": "lfu"}},
		{"bad cooldown", map[string]string{"COOLDOWN_DURATION": "soon"}},
		{"bad fraction", map[string]string{"CONVERSATION_EVICTION_FRACTION": "1.5"}},
		{"zero exchanges", map[string]string{"MAX_EXCHANGES": "0"}},
		{"bad timeout", map[string]string{"AI_TIMEOUT": "forever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			if _, ok := tt.env["TELEGRAM_BOT_TOKEN"]; !ok && tt.name != "missing token" {
				t.Setenv("TELEGRAM_BOT_TOKEN", "tg")
			}
			if _, ok := tt.env["GEMINI_API_KEY"]; !ok && tt.name != "missing key" {
				t.Setenv("GEMINI_API_KEY", "key")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
}

func TestLoadPersona_Default(t *testing.T) {
	p, err := LoadPersona("")
	require.NoError(t, err)

	assert.Equal(t, DefaultPersona(), p)
	assert.Equal(t, int32(1000), p.Generation.MaxOutputTokens)
	assert.Len(t, p.Safety, 4)
	for _, s := range p.Safety {
		assert.Equal(t, "BLOCK_MEDIUM_AND_ABOVE", s.Threshold)
	}
}

func TestLoadPersona_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persona.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
intro: You are Gopher, a Go expert.
guidelines:
  - Prefer short answers
generation:
  temperature: 0.2
  max_output_tokens: 512
`), 0o600))

	p, err := LoadPersona(path)
	require.NoError(t, err)

	assert.Equal(t, "You are Gopher, a Go expert.", p.Intro)
	assert.Equal(t, []string{"Prefer short answers"}, p.Guidelines)
	assert.Equal(t, DefaultPersona().Closing, p.Closing)
	assert.InDelta(t, 0.2, p.Generation.Temperature, 1e-6)
	assert.Equal(t, int32(512), p.Generation.MaxOutputTokens)
	assert.InDelta(t, 0.9, p.Generation.TopP, 1e-6)
	assert.Len(t, p.Safety, 4)
}

func TestLoadPersona_Errors(t *testing.T) {
	_, err := LoadPersona(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = ParsePersona([]byte("intro: [unclosed"), DefaultPersona())
	assert.Error(t, err)

	_, err = ParsePersona([]byte("safety:\n  - category: HARM_CATEGORY_HARASSMENT\n"), DefaultPersona())
	assert.Error(t, err)
}
