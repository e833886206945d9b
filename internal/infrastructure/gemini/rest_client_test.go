package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

func testPayload() entity.Payload {
	return entity.Payload{
		Contents: []entity.Content{
			entity.TextContent(entity.ContentRoleUser, "system"),
			entity.TextContent(entity.ContentRoleUser, "hello"),
		},
		GenerationConfig: &entity.GenerationConfig{MaxOutputTokens: 1000, Temperature: 0.7, TopP: 0.9, TopK: 1},
		SafetySettings: []entity.SafetySetting{
			{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
		},
	}
}

func TestRESTClient_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var raw map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Contains(t, raw, "contents")
		assert.Contains(t, raw, "generationConfig")
		assert.Contains(t, raw, "safetySettings")

		gc := raw["generationConfig"].(map[string]any)
		assert.EqualValues(t, 1000, gc["maxOutputTokens"])
		assert.EqualValues(t, 1, gc["topK"])

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hi "},{"text":"there"}]}}]}`))
	}))
	defer srv.Close()

	c := NewRESTClient(RESTConfig{APIKey: "secret", Model: "test-model", BaseURL: srv.URL})
	text, err := c.GenerateContent(context.Background(), testPayload())

	require.NoError(t, err)
	assert.Equal(t, "Hi there", text)
}

func TestRESTClient_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`))
	}))
	defer srv.Close()

	c := NewRESTClient(RESTConfig{APIKey: "bad", BaseURL: srv.URL})
	_, err := c.GenerateContent(context.Background(), testPayload())

	var perr *entity.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusBadRequest, perr.StatusCode)
	assert.Equal(t, "API key not valid. Please pass a valid API key.", perr.Message)
	assert.False(t, perr.NoResponse)
}

func TestRESTClient_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewRESTClient(RESTConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.GenerateContent(context.Background(), testPayload())

	var perr *entity.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusBadGateway, perr.StatusCode)
	assert.Equal(t, "upstream exploded", perr.Message)
}

func TestRESTClient_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	c := NewRESTClient(RESTConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.GenerateContent(context.Background(), testPayload())

	var perr *entity.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Message, "SAFETY")
}

func TestRESTClient_TransportFailureRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewRESTClient(RESTConfig{APIKey: "topsecret", BaseURL: base})
	_, err := c.GenerateContent(context.Background(), testPayload())

	var perr *entity.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.True(t, perr.NoResponse)
	assert.NotContains(t, err.Error(), "topsecret")
}

func TestRESTClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewRESTClient(RESTConfig{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.GenerateContent(context.Background(), testPayload())

	var perr *entity.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.True(t, perr.NoResponse)
}

func TestRESTClient_MissingKey(t *testing.T) {
	c := NewRESTClient(RESTConfig{})
	_, err := c.GenerateContent(context.Background(), testPayload())

	var perr *entity.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Message, "API key not valid")
}
