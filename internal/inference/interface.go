package inference

import (
	"context"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for AI inference operations
type Client interface {
	TranslateWords(ctx context.Context, params TranslateWordsRequest) (TranslateWordsResponse, error)
	Chat(ctx context.Context, params ChatRequest) (ChatResponse, error)
	CheckSpelling(ctx context.Context, params SpellCheckRequest) (SpellCheckResponse, error)
}

// TranslateWordsRequest batches every word or phrase the local tiers could
// not resolve into a single remote call.
type TranslateWordsRequest struct {
	Words      []string `json:"words"`
	TargetLang string   `json:"target_lang"`
}

// TranslateWordsResponse is the typed envelope parsed out of the model's
// reply. Words absent from Translations stay unresolved.
type TranslateWordsResponse struct {
	Translations map[string]string `json:"translations"`
	Definitions  map[string]string `json:"definitions,omitempty"`
	CulturalNote string            `json:"culturalNote,omitempty"`
}

// ChatMessage is one role-tagged turn of a chatbot conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest holds the conversation so far, oldest turn first.
type ChatRequest struct {
	Messages []ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// SpellCheckRequest asks for a corrected rendition of Vietnamese input text.
type SpellCheckRequest struct {
	Text string `json:"text"`
}

type SpellCheckResponse struct {
	Corrected string `json:"corrected"`
}

const (
	DefaultMaxRetryAttempts = 3

	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
