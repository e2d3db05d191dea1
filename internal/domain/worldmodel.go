package domain

// WorldModel is the LLM's accumulated understanding of a conversation.
// summary is the only field the LLM must always fill in.
type WorldModel struct {
	Context   map[string]string `json:"context"`
	Topics    []string          `json:"topics"`
	Questions []string          `json:"questions"`
	Summary   string            `json:"summary"`
}
