package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/set-night/mindlens/internal/config"
	"github.com/set-night/mindlens/internal/domain"
)

// OpenRouterService talks to the OpenRouter chat-completions API.
type OpenRouterService struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	callLog    *CallLog
}

// NewOpenRouterService creates the client. callLog may be nil to disable
// call recording.
func NewOpenRouterService(apiKey, model string, callLog *CallLog) *OpenRouterService {
	return &OpenRouterService{
		apiKey:     apiKey,
		baseURL:    "https://openrouter.ai/api/v1",
		model:      model,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		callLog:    callLog,
	}
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// Usage is the token and cost accounting OpenRouter reports per call.
type Usage struct {
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalCost        float64 `json:"total_cost"`
}

// CompleteJSON runs a chat completion constrained to a JSON object and
// returns the raw document for the caller to unmarshal.
func (s *OpenRouterService) CompleteJSON(ctx context.Context, messages []ChatMessage) ([]byte, error) {
	payload, err := json.Marshal(chatRequest{
		Model:          s.model,
		Messages:       messages,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openrouter returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return nil, domain.ErrEmptyCompletion
	}

	content := chatResp.Choices[0].Message.Content

	if s.callLog != nil {
		if err := s.callLog.Record(s.model, messages, content, chatResp.Usage); err != nil {
			slog.Warn("record llm call", "error", err)
		}
	}

	return []byte(content), nil
}
