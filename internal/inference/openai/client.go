package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/hanvq/nungdict/internal/inference"
)

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(apiKey, model string, retryAttempts uint) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com/v1")
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:       client,
		model:            model,
		maxRetryAttempts: retryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Retry on JSON parsing errors as they might be due to incomplete responses
	errStr := err.Error()
	if strings.Contains(errStr, "json.Unmarshal") || strings.Contains(errStr, "unexpected end of JSON input") {
		return true
	}

	// Retry on network-related errors
	if strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Retry on 5xx errors (server errors)
	if strings.Contains(errStr, "response error 5") {
		return true
	}

	// Retry on rate limiting (429)
	if strings.Contains(errStr, "response error 429") {
		return true
	}

	return false
}

// stripCodeFences removes a surrounding markdown code fence from a model
// reply, e.g. "```json\n{...}\n```". Models add these despite instructions
// not to, so every JSON parse goes through this first.
func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if newline := strings.IndexByte(content, '\n'); newline >= 0 {
		// drop the language tag line ("json", "JSON", or empty)
		content = content[newline+1:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

func (client *Client) retry(ctx context.Context, call func() error) error {
	return retry.Do(
		func() error {
			if err := call(); err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	)
}

// completeChat posts one chat-completion request and returns the reply content.
func (client *Client) completeChat(ctx context.Context, requestBody ChatCompletionRequest) (string, error) {
	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("empty response body or choices: %s", response.String())
	}

	content := responseBody.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response content: %s", response.String())
	}
	slog.Default().Debug("openai response content",
		"request", requestBody,
		"response", responseBody,
	)
	return content, nil
}

var targetLangDescriptions = map[string]string{
	"nung":    "the Nùng ethnic minority language of northern Vietnam",
	"central": "the Central Vietnamese dialect (Nghệ An / Hà Tĩnh region)",
}

func (client *Client) getTranslateRequestBody(args inference.TranslateWordsRequest) ChatCompletionRequest {
	langDescription, ok := targetLangDescriptions[args.TargetLang]
	if !ok {
		langDescription = args.TargetLang
	}

	systemPrompt := fmt.Sprintf(`You are a translation assistant for %s.

You will receive a JSON array of Vietnamese words and short phrases. Translate each one.

Return ONLY a JSON object with this exact shape:
{
  "translations": {"<input word>": "<translation>", ...},
  "definitions": {"<input word>": "<short Vietnamese gloss>", ...},
  "culturalNote": "<one optional sentence, or empty string>"
}

Rules:
- Every input word must appear as a key in "translations".
- If you do not know a reliable translation for a word, omit it from "translations" rather than guessing.
- No text outside the JSON object. No markdown fences.`, langDescription)

	userContent, _ := json.Marshal(args.Words)

	return ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.3,
		Messages: []Message{
			{Role: RoleSystem, Content: systemPrompt},
			{Role: RoleUser, Content: string(userContent)},
		},
	}
}

// TranslateWords implements the inference.Client interface
func (client *Client) TranslateWords(
	ctx context.Context,
	params inference.TranslateWordsRequest,
) (inference.TranslateWordsResponse, error) {
	var result inference.TranslateWordsResponse
	if err := client.retry(ctx, func() error {
		response, err := client.translateWords(ctx, params)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return inference.TranslateWordsResponse{}, err
	}
	return result, nil
}

func (client *Client) translateWords(
	ctx context.Context,
	params inference.TranslateWordsRequest,
) (inference.TranslateWordsResponse, error) {
	if len(params.Words) == 0 {
		return inference.TranslateWordsResponse{}, nil
	}

	content, err := client.completeChat(ctx, client.getTranslateRequestBody(params))
	if err != nil {
		return inference.TranslateWordsResponse{}, fmt.Errorf("completeChat > %w", err)
	}

	content = stripCodeFences(content)

	var decoded inference.TranslateWordsResponse
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		slog.Default().Error("Failed to parse OpenAI translation response as JSON",
			"wordCount", len(params.Words),
			"error", err)
		return inference.TranslateWordsResponse{}, fmt.Errorf("json.Unmarshal(%s) > %w", content, err)
	}
	return decoded, nil
}

const chatSystemPrompt = `You are a friendly assistant for a community dictionary of the Nùng language and Central Vietnamese dialects. Answer questions about vocabulary, usage and culture. Answer in the language the user writes in. Keep answers short and practical.`

// Chat implements the inference.Client interface
func (client *Client) Chat(
	ctx context.Context,
	params inference.ChatRequest,
) (inference.ChatResponse, error) {
	var result inference.ChatResponse
	if err := client.retry(ctx, func() error {
		response, err := client.chat(ctx, params)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return inference.ChatResponse{}, err
	}
	return result, nil
}

func (client *Client) chat(
	ctx context.Context,
	params inference.ChatRequest,
) (inference.ChatResponse, error) {
	if len(params.Messages) == 0 {
		return inference.ChatResponse{}, fmt.Errorf("chat requires at least one message")
	}

	messages := make([]Message, 0, len(params.Messages)+1)
	messages = append(messages, Message{Role: RoleSystem, Content: chatSystemPrompt})
	for _, m := range params.Messages {
		messages = append(messages, Message{Role: Role(m.Role), Content: m.Content})
	}

	content, err := client.completeChat(ctx, ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.7,
		Messages:    messages,
	})
	if err != nil {
		return inference.ChatResponse{}, fmt.Errorf("completeChat > %w", err)
	}

	return inference.ChatResponse{Reply: strings.TrimSpace(content)}, nil
}

const spellCheckSystemPrompt = `You are a Vietnamese spelling and diacritics checker.

Return the corrected text only, with proper diacritics restored. Do not explain. Do not add quotes. If the text is already correct, return it unchanged.`

// CheckSpelling implements the inference.Client interface
func (client *Client) CheckSpelling(
	ctx context.Context,
	params inference.SpellCheckRequest,
) (inference.SpellCheckResponse, error) {
	var result inference.SpellCheckResponse
	if err := client.retry(ctx, func() error {
		response, err := client.checkSpelling(ctx, params)
		if err != nil {
			return err
		}
		result = response
		return nil
	}); err != nil {
		return inference.SpellCheckResponse{}, err
	}
	return result, nil
}

func (client *Client) checkSpelling(
	ctx context.Context,
	params inference.SpellCheckRequest,
) (inference.SpellCheckResponse, error) {
	if strings.TrimSpace(params.Text) == "" {
		return inference.SpellCheckResponse{}, fmt.Errorf("spell check requires non-empty text")
	}

	content, err := client.completeChat(ctx, ChatCompletionRequest{
		Model:       client.model,
		Temperature: 0.1,
		Messages: []Message{
			{Role: RoleSystem, Content: spellCheckSystemPrompt},
			{Role: RoleUser, Content: params.Text},
		},
	})
	if err != nil {
		return inference.SpellCheckResponse{}, fmt.Errorf("completeChat > %w", err)
	}

	return inference.SpellCheckResponse{Corrected: strings.TrimSpace(content)}, nil
}

var _ inference.Client = (*Client)(nil)
