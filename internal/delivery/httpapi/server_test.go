package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/gemini-chat-bot/internal/domain/entity"
)

type stubStats struct {
	stats entity.ConversationStats
	err   error
}

func (s stubStats) Stats(ctx context.Context) (entity.ConversationStats, error) {
	return s.stats, s.err
}

type stubCooldowns int

func (c stubCooldowns) Len() int { return int(c) }

func TestHealth(t *testing.T) {
	srv := NewServer(":0", stubStats{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStats(t *testing.T) {
	srv := NewServer(":0", stubStats{stats: entity.ConversationStats{TotalIdentities: 3, TotalTurns: 14}}, stubCooldowns(2), nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 3, body["total_identities"])
	assert.EqualValues(t, 14, body["total_turns"])
	assert.EqualValues(t, 2, body["active_cooldowns"])
	assert.Contains(t, body, "uptime_seconds")
}

func TestStats_Error(t *testing.T) {
	srv := NewServer(":0", stubStats{err: errors.New("boom")}, nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"stats unavailable"}`, rec.Body.String())
}

func TestUnknownRouteAndMethod(t *testing.T) {
	srv := NewServer(":0", stubStats{}, nil, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestStartAndShutdown(t *testing.T) {
	srv := NewServer("127.0.0.1:0", stubStats{}, nil, nil)
	require.NoError(t, srv.Start())
	assert.NoError(t, srv.Shutdown(context.Background()))
}
