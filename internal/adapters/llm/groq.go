package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/PabloGalante/mindmate/internal/domain"
)

// GroqClient implements domain.CompletionClient over Groq's
// OpenAI-compatible chat-completions endpoint.
type GroqClient struct {
	client openai.Client
	model  string
}

// NewGroqClient creates the primary completion backend.
func NewGroqClient(apiKey, baseURL, model string) (*GroqClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("groq api key is required")
	}
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	)

	return &GroqClient{client: client, model: model}, nil
}

// Complete sends the request as one chat completion and returns the
// trimmed text of the top choice.
func (c *GroqClient) Complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case domain.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(m.Content))
		default:
			messages = append(messages, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(float64(req.Temperature))
	}

	res, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("groq returned no choices")
	}

	text := strings.TrimSpace(res.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("groq returned empty text")
	}
	return text, nil
}
