package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/set-night/mindlens/internal/domain"
)

type conversationStore interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateWorldModel(ctx context.Context, id uuid.UUID, wm domain.WorldModel) error
}

type messageStore interface {
	Add(ctx context.Context, conversationID uuid.UUID, role, content string) (*domain.Message, error)
	ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error)
}

type mediaFetcher interface {
	Process(ctx context.Context, rawURL string) (*Media, error)
}

type completer interface {
	CompleteJSON(ctx context.Context, messages []ChatMessage) ([]byte, error)
}

// AnalysisService drives the analyze/continue flows: fetch content, ask the
// model for a structured analysis, persist the conversation state.
type AnalysisService struct {
	conversations conversationStore
	messages      messageStore
	media         mediaFetcher
	llm           completer
}

func NewAnalysisService(conversations conversationStore, messages messageStore, media mediaFetcher, llm completer) *AnalysisService {
	return &AnalysisService{
		conversations: conversations,
		messages:      messages,
		media:         media,
		llm:           llm,
	}
}

type analysisResult struct {
	WorldModel domain.WorldModel `json:"world_model"`
	Response   string            `json:"response"`
	FollowUp   string            `json:"follow_up"`
}

type conversationUpdate struct {
	UpdatedWorldModel domain.WorldModel `json:"updated_world_model"`
	Response          string            `json:"response"`
	FollowUp          string            `json:"follow_up"`
	ReferencedContent string            `json:"referenced_content,omitempty"`
}

const analyzeSystemPrompt = `You are an expert analyst creating a structured analysis from content and user insights.
Respond with a single JSON object of the form:
{"world_model": {"context": {"<concept>": "<current understanding>"}, "topics": ["..."], "questions": ["..."], "summary": "..."}, "response": "...", "follow_up": "..."}
The world model tracks key concepts and their current understanding, the main topics being discussed, open questions to explore, and a current summary of the discussion.
"response" is an engaging reply that shows understanding; "follow_up" is a relevant question to continue the conversation.`

const continueSystemPrompt = `You are an expert analyst continuing a structured conversation about analyzed content.
Use the current world model as context and update it based on new insights. If new content is provided, incorporate it into your analysis.
Respond with a single JSON object of the form:
{"updated_world_model": {"context": {"<concept>": "<current understanding>"}, "topics": ["..."], "questions": ["..."], "summary": "..."}, "response": "...", "follow_up": "...", "referenced_content": "..."}
"response" builds on the previous context; "follow_up" is a relevant question to continue the conversation; "referenced_content" names any new content you drew on and may be omitted.`

// Analyze fetches and extracts the URL, asks the model for an initial
// structured analysis, and persists the conversation with its first
// user/assistant message pair.
func (s *AnalysisService) Analyze(ctx context.Context, rawURL, initialThought string) (uuid.UUID, error) {
	media, err := s.media.Process(ctx, rawURL)
	if err != nil {
		return uuid.Nil, fmt.Errorf("process media: %w", err)
	}
	slog.Info("media processed", "url", rawURL, "type", media.Type)

	raw, err := s.llm.CompleteJSON(ctx, []ChatMessage{
		{Role: "system", Content: analyzeSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Content:\n%s\n\nUser's Initial Thought:\n%s\n\nCreate a structured analysis with world model, response, and follow-up question.", media.Content, initialThought)},
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("analyze content: %w", err)
	}

	var result analysisResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return uuid.Nil, fmt.Errorf("parse analysis: %w", err)
	}
	if result.WorldModel.Summary == "" {
		return uuid.Nil, domain.ErrMissingSummary
	}

	conv := &domain.Conversation{
		ID:          uuid.New(),
		URL:         rawURL,
		MediaType:   media.Type,
		UserInsight: initialThought,
		AIAnalysis:  result.Response,
		WorldModel:  result.WorldModel,
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return uuid.Nil, err
	}

	if _, err := s.messages.Add(ctx, conv.ID, domain.RoleUser, initialThought); err != nil {
		return uuid.Nil, err
	}
	if _, err := s.messages.Add(ctx, conv.ID, domain.RoleAssistant, combineReply(result.Response, result.FollowUp)); err != nil {
		return uuid.Nil, err
	}

	slog.Info("conversation created", "id", conv.ID, "media_type", conv.MediaType)
	return conv.ID, nil
}

// Continue folds a new user message (and optionally a new URL's content)
// into the conversation, replacing the stored world model wholesale with
// whatever the model returns. Returns the appended user/assistant pair.
func (s *AnalysisService) Continue(ctx context.Context, id uuid.UUID, message, newURL string) ([]domain.Message, error) {
	conv, err := s.conversations.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	history, err := s.messages.ListByConversation(ctx, id)
	if err != nil {
		return nil, err
	}

	var newContent string
	if newURL != "" {
		media, err := s.media.Process(ctx, newURL)
		if err != nil {
			return nil, fmt.Errorf("process media: %w", err)
		}
		newContent = media.Content
	}

	wm, err := json.MarshalIndent(conv.WorldModel, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal world model: %w", err)
	}

	var transcript strings.Builder
	for _, m := range history {
		fmt.Fprintf(&transcript, "%s: %s\n", m.Role, m.Content)
	}

	prompt := []ChatMessage{
		{Role: "system", Content: continueSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Current World Model:\n%s\n\nMessage History:\n%s\nUser message:\n%s", wm, transcript.String(), message)},
	}
	if newContent != "" {
		prompt = append(prompt, ChatMessage{Role: "user", Content: "New content to analyze:\n" + newContent})
	}

	raw, err := s.llm.CompleteJSON(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("continue conversation: %w", err)
	}

	var update conversationUpdate
	if err := json.Unmarshal(raw, &update); err != nil {
		return nil, fmt.Errorf("parse update: %w", err)
	}
	if update.UpdatedWorldModel.Summary == "" {
		return nil, domain.ErrMissingSummary
	}

	if err := s.conversations.UpdateWorldModel(ctx, id, update.UpdatedWorldModel); err != nil {
		return nil, err
	}

	userMsg, err := s.messages.Add(ctx, id, domain.RoleUser, message)
	if err != nil {
		return nil, err
	}
	aiMsg, err := s.messages.Add(ctx, id, domain.RoleAssistant, combineReply(update.Response, update.FollowUp))
	if err != nil {
		return nil, err
	}

	return []domain.Message{*userMsg, *aiMsg}, nil
}

// Messages returns the ordered transcript. Unknown conversations yield an
// empty list, matching the read path's historical behavior.
func (s *AnalysisService) Messages(ctx context.Context, id uuid.UUID) ([]domain.Message, error) {
	return s.messages.ListByConversation(ctx, id)
}

// Share returns the deterministic share path for an existing conversation.
func (s *AnalysisService) Share(ctx context.Context, id uuid.UUID) (string, error) {
	exists, err := s.conversations.Exists(ctx, id)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", domain.ErrConversationNotFound
	}
	return "/share/" + id.String(), nil
}

func combineReply(response, followUp string) string {
	return response + "\n\n" + followUp
}
