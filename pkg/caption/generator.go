// Package caption produces social-media captions from transcripts via a
// hosted generative model, and derives upload tags from caption hashtags.
package caption

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// Generator turns a transcript into a short publishable caption.
type Generator interface {
	Generate(ctx context.Context, transcript string) (string, error)
}

const systemPrompt = `You write short, engaging social-media captions for video clips.
Given a transcript, respond with a single caption of at most three sentences,
followed by up to five relevant hashtags. Respond with the caption text only.`

// OpenAIGenerator calls the OpenAI chat-completion API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, transcript string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: transcript,
			},
		},
		Temperature: 0.7,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("caption generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("caption model returned no choices")
	}

	zerolog.Ctx(ctx).Debug().
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("caption generated")

	caption := strings.TrimSpace(resp.Choices[0].Message.Content)
	if caption == "" {
		return "", fmt.Errorf("caption model returned empty content")
	}

	return caption, nil
}
