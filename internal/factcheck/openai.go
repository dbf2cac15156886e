// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package factcheck

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/citecheck/pkg/types"
)

// OpenAIBackend calls a chat-completion API with JSON response format.
// It works against api.openai.com or any OpenAI-compatible server
// (including Ollama's /v1 surface) via the endpoint setting.
type OpenAIBackend struct {
	Model  string
	Client *openai.Client
}

// NewOpenAIBackend builds an OpenAI-compatible backend from the fact-check
// config.
func NewOpenAIBackend(cfg types.FactCheckConfig) *OpenAIBackend {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}
	return &OpenAIBackend{
		Model:  cfg.Model,
		Client: openai.NewClientWithConfig(clientCfg),
	}
}

// Check renders the fact-check prompt and sends it as a single user
// message with a JSON-object response format.
func (b *OpenAIBackend) Check(ctx context.Context, cit types.Citation, referenceText string) (types.Verdict, error) {
	prompt, err := renderPrompt(cit, referenceText)
	if err != nil {
		return types.Verdict{}, fmt.Errorf("rendering prompt: %w", err)
	}

	resp, err := b.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return types.Verdict{}, fmt.Errorf("calling chat completion API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return types.Verdict{}, fmt.Errorf("chat completion returned no choices")
	}

	return parseVerdict(resp.Choices[0].Message.Content)
}
