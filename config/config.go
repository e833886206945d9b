package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AI transport turlari
const (
	TransportREST = "rest"
	TransportSDK  = "sdk"
)

// Eviction policy nomlari
const (
	EvictionRandom = "random"
	EvictionIdle   = "idle"
)

// Config ilovaning konfiguratsiyasi
type Config struct {
	TelegramToken string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	AITransport   string
	AITimeout     time.Duration

	Cooldown         time.Duration
	MaxMessageLength int
	MaxExchanges     int

	GCInterval       time.Duration
	Eviction         string
	EvictionFraction float64
	MaxIdle          time.Duration

	PersonaFile string
	HTTPAddr    string

	LogLevel  string
	LogFormat string
}

// Load konfiguratsiyani yuklash
func Load() (*Config, error) {
	// .env faylini yuklash (mavjud bo'lsa)
	_ = godotenv.Load()

	config := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AITransport:   strings.ToLower(getEnv("AI_TRANSPORT", TransportREST)),
		Eviction:      strings.ToLower(getEnv("CONVERSATION_EVICTION", EvictionRandom)),
		PersonaFile:   os.Getenv("PERSONA_FILE"),
		HTTPAddr:      os.Getenv("HTTP_ADDR"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	var err error
	if config.AITimeout, err = durationEnv("AI_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	cooldownMS, err := intEnv("COOLDOWN_DURATION", 5000)
	if err != nil {
		return nil, err
	}
	config.Cooldown = time.Duration(cooldownMS) * time.Millisecond
	if config.MaxMessageLength, err = intEnv("MAX_MESSAGE_LENGTH", 2000); err != nil {
		return nil, err
	}
	if config.MaxExchanges, err = intEnv("MAX_EXCHANGES", 10); err != nil {
		return nil, err
	}
	if config.GCInterval, err = durationEnv("CONVERSATION_GC_INTERVAL", 30*time.Minute); err != nil {
		return nil, err
	}
	if config.EvictionFraction, err = floatEnv("CONVERSATION_EVICTION_FRACTION", 0.1); err != nil {
		return nil, err
	}
	if config.MaxIdle, err = durationEnv("CONVERSATION_MAX_IDLE", time.Hour); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate qiymatlarni tekshirish
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable bo'sh")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable bo'sh")
	}
	switch c.AITransport {
	case TransportREST, TransportSDK:
	default:
		return fmt.Errorf("AI_TRANSPORT must be %q or %q, got %q", TransportREST, TransportSDK, c.AITransport)
	}
	switch c.Eviction {
	case EvictionRandom, EvictionIdle:
	default:
		return fmt.Errorf("CONVERSATION_EVICTION must be %q or %q, got %q", EvictionRandom, EvictionIdle, c.Eviction)
	}
	if c.Cooldown < 0 {
		return fmt.Errorf("COOLDOWN_DURATION must not be negative")
	}
	if c.MaxMessageLength < 10 {
		return fmt.Errorf("MAX_MESSAGE_LENGTH must be at least 10, got %d", c.MaxMessageLength)
	}
	if c.MaxExchanges < 1 {
		return fmt.Errorf("MAX_EXCHANGES must be positive, got %d", c.MaxExchanges)
	}
	if c.AITimeout <= 0 || c.GCInterval <= 0 || c.MaxIdle <= 0 {
		return fmt.Errorf("AI_TIMEOUT, CONVERSATION_GC_INTERVAL and CONVERSATION_MAX_IDLE must be positive")
	}
	if c.EvictionFraction < 0 || c.EvictionFraction > 1 {
		return fmt.Errorf("CONVERSATION_EVICTION_FRACTION must be within [0, 1], got %v", c.EvictionFraction)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s noto'g'ri formatda: %w", key, err)
	}
	return v, nil
}

func floatEnv(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s noto'g'ri formatda: %w", key, err)
	}
	return v, nil
}

// durationEnv accepts Go durations ("30s") or bare seconds ("30")
func durationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s noto'g'ri formatda: %w", key, err)
	}
	return d, nil
}
