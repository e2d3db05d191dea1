package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/set-night/mindlens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, callLog *CallLog) *OpenRouterService {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	svc := NewOpenRouterService("test-key", "test-model", callLog)
	svc.baseURL = ts.URL
	return svc
}

func TestCompleteJSON(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest

	svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"choices":[{"message":{"content":"{\"summary\":\"ok\"}"}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_cost":0.0001}}`))
	}, nil)

	raw, err := svc.CompleteJSON(context.Background(), []ChatMessage{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "hi"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok"}`, string(raw))

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, "json_object", gotReq.ResponseFormat.Type)
}

func TestCompleteJSON_EmptyChoices(t *testing.T) {
	svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}, nil)

	_, err := svc.CompleteJSON(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	require.ErrorIs(t, err, domain.ErrEmptyCompletion)
}

func TestCompleteJSON_UpstreamError(t *testing.T) {
	svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}, nil)

	_, err := svc.CompleteJSON(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteJSON_RecordsCallLog(t *testing.T) {
	dir := t.TempDir()
	callLog, err := NewCallLog(dir)
	require.NoError(t, err)
	defer callLog.Close()

	svc := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_cost":0.00005}}`))
	}, callLog)

	_, err = svc.CompleteJSON(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "calls.jsonl"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "test-model", rec["model"])
	assert.Equal(t, "{}", rec["response"])
	assert.EqualValues(t, 3, rec["prompt_tokens"])
}
