package embedding

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultEmbedModel = "gemini-embedding-001"

// GeminiProvider implements Provider against the Gemini embedContent API.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

// NewGemini creates a GeminiProvider for the Gemini API backend.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiProvider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", ErrUnavailable)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultEmbedModel
	}

	return &GeminiProvider{client: client, modelName: model}, nil
}

// Embed returns the embedding vector for text.
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	resp, err := p.client.Models.EmbedContent(ctx, p.modelName, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding response", ErrUnavailable)
	}

	values := resp.Embeddings[0].Values
	vec := make([]float64, len(values))
	for i, v := range values {
		vec[i] = float64(v)
	}
	return vec, nil
}

// Model returns the configured embedding model name.
func (p *GeminiProvider) Model() string {
	return p.modelName
}
