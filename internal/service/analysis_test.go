package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/mindlens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConvStore struct {
	conversations map[uuid.UUID]*domain.Conversation
}

func newFakeConvStore() *fakeConvStore {
	return &fakeConvStore{conversations: make(map[uuid.UUID]*domain.Conversation)}
}

func (f *fakeConvStore) Create(_ context.Context, conv *domain.Conversation) error {
	conv.CreatedAt = time.Now()
	cp := *conv
	f.conversations[conv.ID] = &cp
	return nil
}

func (f *fakeConvStore) Get(_ context.Context, id uuid.UUID) (*domain.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	cp := *conv
	return &cp, nil
}

func (f *fakeConvStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.conversations[id]
	return ok, nil
}

func (f *fakeConvStore) UpdateWorldModel(_ context.Context, id uuid.UUID, wm domain.WorldModel) error {
	conv, ok := f.conversations[id]
	if !ok {
		return domain.ErrConversationNotFound
	}
	conv.WorldModel = wm
	return nil
}

type fakeMsgStore struct {
	messages map[uuid.UUID][]domain.Message
	clock    time.Time
}

func newFakeMsgStore() *fakeMsgStore {
	return &fakeMsgStore{messages: make(map[uuid.UUID][]domain.Message), clock: time.Now()}
}

func (f *fakeMsgStore) Add(_ context.Context, conversationID uuid.UUID, role, content string) (*domain.Message, error) {
	f.clock = f.clock.Add(time.Millisecond)
	msg := domain.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		Timestamp:      f.clock,
	}
	f.messages[conversationID] = append(f.messages[conversationID], msg)
	return &msg, nil
}

func (f *fakeMsgStore) ListByConversation(_ context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	msgs := f.messages[conversationID]
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

type fakeMedia struct {
	content string
	err     error
}

func (f *fakeMedia) Process(_ context.Context, rawURL string) (*Media, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Media{Type: Classify(rawURL), Content: f.content}, nil
}

type fakeLLM struct {
	raw     string
	err     error
	prompts [][]ChatMessage
}

func (f *fakeLLM) CompleteJSON(_ context.Context, messages []ChatMessage) ([]byte, error) {
	f.prompts = append(f.prompts, messages)
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.raw), nil
}

func newTestAnalysis(llm *fakeLLM) (*AnalysisService, *fakeConvStore, *fakeMsgStore) {
	convs := newFakeConvStore()
	msgs := newFakeMsgStore()
	svc := NewAnalysisService(convs, msgs, &fakeMedia{content: "page text"}, llm)
	return svc, convs, msgs
}

func TestAnalyze(t *testing.T) {
	llm := &fakeLLM{raw: `{
		"world_model": {"context": {"go": "a language"}, "topics": ["concurrency"], "questions": ["why channels?"], "summary": "intro"},
		"response": "Interesting point.",
		"follow_up": "What about buffering?"
	}`}
	svc, convs, _ := newTestAnalysis(llm)

	id, err := svc.Analyze(context.Background(), "https://example.com/post", "I think this matters")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	conv := convs.conversations[id]
	require.NotNil(t, conv)
	assert.Equal(t, domain.MediaWebpage, conv.MediaType)
	assert.Equal(t, "I think this matters", conv.UserInsight)
	assert.Equal(t, "Interesting point.", conv.AIAnalysis)
	assert.Equal(t, "intro", conv.WorldModel.Summary)

	history, err := svc.Messages(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, "I think this matters", history[0].Content)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Equal(t, "Interesting point.\n\nWhat about buffering?", history[1].Content)
	assert.True(t, history[0].Timestamp.Before(history[1].Timestamp))
}

func TestAnalyze_MissingSummary(t *testing.T) {
	llm := &fakeLLM{raw: `{"world_model": {"summary": ""}, "response": "r", "follow_up": "f"}`}
	svc, convs, _ := newTestAnalysis(llm)

	_, err := svc.Analyze(context.Background(), "https://example.com/post", "thought")
	require.ErrorIs(t, err, domain.ErrMissingSummary)
	assert.Empty(t, convs.conversations)
}

func TestAnalyze_MediaError(t *testing.T) {
	convs := newFakeConvStore()
	msgs := newFakeMsgStore()
	media := &fakeMedia{err: fmt.Errorf("video x: %w", domain.ErrTranscriptionNotSupported)}
	svc := NewAnalysisService(convs, msgs, media, &fakeLLM{})

	_, err := svc.Analyze(context.Background(), "https://youtu.be/x", "thought")
	require.ErrorIs(t, err, domain.ErrTranscriptionNotSupported)
}

func TestContinue_UnknownConversation(t *testing.T) {
	svc, _, _ := newTestAnalysis(&fakeLLM{})

	_, err := svc.Continue(context.Background(), uuid.New(), "hello", "")
	require.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestContinue_ReplacesWorldModelWholesale(t *testing.T) {
	analyzeLLM := &fakeLLM{raw: `{
		"world_model": {"context": {"old-concept": "kept only until the next turn"}, "topics": ["one"], "questions": ["q1"], "summary": "first"},
		"response": "r1",
		"follow_up": "f1"
	}`}
	svc, convs, _ := newTestAnalysis(analyzeLLM)

	id, err := svc.Analyze(context.Background(), "https://example.com/post", "thought")
	require.NoError(t, err)

	// Swap in an update that drops the old context key entirely.
	analyzeLLM.raw = `{
		"updated_world_model": {"context": {"new-concept": "fresh"}, "topics": ["two"], "questions": [], "summary": "second"},
		"response": "r2",
		"follow_up": "f2"
	}`

	pair, err := svc.Continue(context.Background(), id, "tell me more", "")
	require.NoError(t, err)
	require.Len(t, pair, 2)
	assert.Equal(t, domain.RoleUser, pair[0].Role)
	assert.Equal(t, "tell me more", pair[0].Content)
	assert.Equal(t, domain.RoleAssistant, pair[1].Role)
	assert.Equal(t, "r2\n\nf2", pair[1].Content)

	wm := convs.conversations[id].WorldModel
	assert.Equal(t, "second", wm.Summary)
	assert.NotContains(t, wm.Context, "old-concept")
	assert.Equal(t, "fresh", wm.Context["new-concept"])
	assert.Equal(t, []string{"two"}, wm.Topics)

	history, err := svc.Messages(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestContinue_PromptCarriesStateAndHistory(t *testing.T) {
	llm := &fakeLLM{raw: `{
		"world_model": {"summary": "first"},
		"response": "r1",
		"follow_up": "f1"
	}`}
	svc, _, _ := newTestAnalysis(llm)

	id, err := svc.Analyze(context.Background(), "https://example.com/post", "thought")
	require.NoError(t, err)

	llm.raw = `{"updated_world_model": {"summary": "second"}, "response": "r2", "follow_up": "f2"}`

	_, err = svc.Continue(context.Background(), id, "next question", "https://example.com/other")
	require.NoError(t, err)

	require.Len(t, llm.prompts, 2)
	prompt := llm.prompts[1]
	require.Len(t, prompt, 3)

	// The serialized world model rides inside the user message.
	assert.Contains(t, prompt[1].Content, "Current World Model:")
	assert.Contains(t, prompt[1].Content, `"summary": "first"`)
	assert.Contains(t, prompt[1].Content, "user: thought")
	assert.Contains(t, prompt[1].Content, "assistant: r1\n\nf1")
	assert.Contains(t, prompt[2].Content, "New content to analyze:\npage text")
}

func TestShare(t *testing.T) {
	llm := &fakeLLM{raw: `{"world_model": {"summary": "s"}, "response": "r", "follow_up": "f"}`}
	svc, _, _ := newTestAnalysis(llm)

	id, err := svc.Analyze(context.Background(), "https://example.com/post", "thought")
	require.NoError(t, err)

	url, err := svc.Share(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "/share/"+id.String(), url)

	_, err = svc.Share(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestMessages_UnknownConversationIsEmpty(t *testing.T) {
	svc, _, _ := newTestAnalysis(&fakeLLM{})

	history, err := svc.Messages(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, history)
}
