package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 30 * time.Second
)

// RESTConfig REST client sozlamalari
type RESTConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// RESTClient talks to the generateContent endpoint with the key in the URL
type RESTClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	pacer   *pacer
}

// NewRESTClient yangi REST client yaratish
func NewRESTClient(cfg RESTConfig) *RESTClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &RESTClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		pacer:   newPacer(defaultConcurrency, defaultMinInterval),
	}
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []entity.Part `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateContent POSTs the payload and extracts the first candidate's text
func (c *RESTClient) GenerateContent(ctx context.Context, payload entity.Payload) (string, error) {
	if c.apiKey == "" {
		return "", missingKeyError()
	}

	release, err := c.pacer.acquire(ctx)
	if err != nil {
		return "", providerErrorFrom(err)
	}
	defer release()

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", redactURL(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &entity.ProviderError{NoResponse: true, Err: redactURL(err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &entity.ProviderError{NoResponse: true, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", errorFromBody(resp.StatusCode, respBody)
	}

	var gen generateResponse
	if err := json.Unmarshal(respBody, &gen); err != nil {
		return "", &entity.ProviderError{StatusCode: resp.StatusCode, Message: "malformed response", Err: err}
	}

	return extractText(gen)
}

func errorFromBody(status int, body []byte) *entity.ProviderError {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return &entity.ProviderError{StatusCode: status, Message: e.Error.Message}
	}
	return &entity.ProviderError{StatusCode: status, Message: strings.TrimSpace(string(body))}
}

// extractText javobdan textni ajratib olish
func extractText(gen generateResponse) (string, error) {
	if len(gen.Candidates) == 0 {
		msg := "no response candidates"
		if gen.PromptFeedback != nil && gen.PromptFeedback.BlockReason != "" {
			msg = "prompt blocked: " + gen.PromptFeedback.BlockReason
		}
		return "", &entity.ProviderError{StatusCode: http.StatusOK, Message: msg}
	}

	var sb strings.Builder
	for _, part := range gen.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", &entity.ProviderError{
			StatusCode: http.StatusOK,
			Message:    "empty candidate, finish reason " + gen.Candidates[0].FinishReason,
		}
	}
	return sb.String(), nil
}
