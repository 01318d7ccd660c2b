package guardian

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Completer is the text generation capability the guardian delegates to.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiCompleter generates text with Google's Gemini API.
type GeminiCompleter struct {
	client      *genai.Client
	model       string
	instruction string
}

// NewGeminiCompleter creates a completer for model. instruction is sent as the
// system instruction with every request.
func NewGeminiCompleter(ctx context.Context, apiKey, model, instruction string) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiCompleter{
		client:      client,
		model:       model,
		instruction: instruction,
	}, nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	var config *genai.GenerateContentConfig
	if g.instruction != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(g.instruction, genai.RoleUser),
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	return strings.TrimSpace(result.Text()), nil
}
