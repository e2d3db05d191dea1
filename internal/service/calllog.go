package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// CallLog records every LLM call as a JSONL entry on disk. It replaces the
// ambient trace store of earlier iterations: the log is constructed in main
// when enabled, handed to the LLM client explicitly, and closed on shutdown.
type CallLog struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

type callRecord struct {
	Time             time.Time       `json:"time"`
	Model            string          `json:"model"`
	Messages         []ChatMessage   `json:"messages"`
	Response         string          `json:"response"`
	PromptTokens     int             `json:"prompt_tokens"`
	CompletionTokens int             `json:"completion_tokens"`
	Cost             decimal.Decimal `json:"cost"`
}

func NewCallLog(dir string) (*CallLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create call log dir: %w", err)
	}

	path := filepath.Join(dir, "calls.jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open call log: %w", err)
	}

	return &CallLog{file: f, enc: json.NewEncoder(f)}, nil
}

// Record appends one call. Logging failures are returned but callers treat
// them as non-fatal.
func (l *CallLog) Record(model string, messages []ChatMessage, response string, usage Usage) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.enc.Encode(callRecord{
		Time:             time.Now().UTC(),
		Model:            model,
		Messages:         messages,
		Response:         response,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		Cost:             decimal.NewFromFloat(usage.TotalCost),
	})
}

func (l *CallLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
