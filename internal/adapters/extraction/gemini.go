package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Default Gemini extraction constants.
const (
	defaultModel       = "gemini-2.0-flash"
	defaultTemperature = 0.2
	maxOutputTokens    = 800
	maxRequiredTags    = 8
)

const promptTemplate = `Analyze this research problem and extract the most precise and specific technical expertise areas. Avoid redundant or overly broad terms; when two terms overlap, keep only the most specific and relevant one.

Problem: {{PROBLEM}}

Return JSON with these keys:
"required_tags": array of the most precise, non-overlapping technical terms (max {{MAX_TAGS}}) in order of importance. Each tag should read like an expertise area a researcher would list on their profile.
"key_domains": object mapping each broad research domain required to solve the problem to the importance of expertise from that domain (positive number). Do not skip an important domain because a similar one is already listed.
"tag_domains": object mapping each required tag to the single key domain it belongs to.
"explanation": brief explanation of how the problem can be approached using the required tags.

Include ONLY the JSON with no additional text or markdown formatting.`

// contentGenerator abstracts the Gemini call for testability.
type contentGenerator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// GeminiExtractor implements Extractor against the Gemini API.
type GeminiExtractor struct {
	generator contentGenerator
	modelName string
}

type geminiGenerator struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

func (g *geminiGenerator) generate(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.temperature),
		MaxOutputTokens: maxOutputTokens,
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return b.String(), nil
}

// NewGemini creates a GeminiExtractor for the Gemini API backend.
func NewGemini(ctx context.Context, apiKey, model string) (*GeminiExtractor, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", ErrExtraction)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &GeminiExtractor{
		generator: &geminiGenerator{client: client, modelName: model, temperature: defaultTemperature},
		modelName: model,
	}, nil
}

// Extract analyzes a problem statement through Gemini and parses the JSON
// response into a Result.
func (e *GeminiExtractor) Extract(ctx context.Context, problem string) (Result, error) {
	problem = strings.TrimSpace(problem)
	if problem == "" {
		return Result{}, ErrEmptyProblem
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{PROBLEM}}", problem)
	prompt = strings.ReplaceAll(prompt, "{{MAX_TAGS}}", fmt.Sprintf("%d", maxRequiredTags))

	raw, err := e.generator.generate(ctx, prompt)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	return parseResult(raw)
}

// Model returns the configured model name.
func (e *GeminiExtractor) Model() string {
	return e.modelName
}

// parseResult decodes a model response, tolerating markdown code fences.
func parseResult(raw string) (Result, error) {
	var res Result
	if err := json.Unmarshal([]byte(extractJSON(raw)), &res); err != nil {
		return Result{}, fmt.Errorf("%w: parse response: %v", ErrExtraction, err)
	}

	res.RequiredTags = sanitizeTags(res.RequiredTags)
	if len(res.RequiredTags) == 0 {
		return Result{}, fmt.Errorf("%w: no usable tags in response", ErrExtraction)
	}

	// Negative or zero weights would invert the ranking; drop them.
	for domain, w := range res.DomainWeights {
		if w <= 0 {
			delete(res.DomainWeights, domain)
		}
	}

	return res, nil
}

// sanitizeTags trims, drops empties, caps the count, and removes duplicates
// while preserving importance order.
func sanitizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
		if len(out) == maxRequiredTags {
			break
		}
	}
	return out
}

// extractJSON strips markdown code fences the model sometimes adds.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
