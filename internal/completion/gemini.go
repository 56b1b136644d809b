package completion

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient — клиент размещённого сервиса генерации (Google Gemini).
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient создаёт клиент Gemini с заданным API-ключом и моделью.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	const op = "completion.NewGeminiClient"
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiClient{client: cl, modelName: modelName}, nil
}

// Close освобождает соединение с сервисом.
func (g *GeminiClient) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Complete отправляет промпт в Gemini и собирает текст ответа.
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	const op = "completion.GeminiClient.Complete"
	m := g.client.GenerativeModel(g.modelName)
	temp := float32(Temperature)
	maxTokens := int32(MaxOutputTokens)
	m.Temperature = &temp
	m.MaxOutputTokens = &maxTokens

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyCompletion)
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyCompletion)
	}
	return b.String(), nil
}

var _ Completer = (*GeminiClient)(nil)
