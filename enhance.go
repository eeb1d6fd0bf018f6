package marksnap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// DefaultEnhanceModel is the Gemini model used for text enhancement.
const DefaultEnhanceModel = "gemini-3-flash-preview"

const enhancePrompt = "You are an expert technical writer. Please improve the grammar, clarity, and flow of the following Markdown content.\n" +
	"Maintain the original meaning and structure.\n" +
	"Do not add conversational text, just return the improved Markdown.\n" +
	"\n" +
	"Markdown to improve:\n"

// contentGenerator is the slice of the Gemini API the enhancer needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiEnhancer rewrites markdown for grammar, clarity and flow.
type GeminiEnhancer struct {
	generator contentGenerator
	model     string
	logger    *slog.Logger
}

// EnhancerOption configures a GeminiEnhancer.
type EnhancerOption func(*GeminiEnhancer)

// WithEnhanceModel overrides the model name.
func WithEnhanceModel(model string) EnhancerOption {
	return func(e *GeminiEnhancer) {
		if model != "" {
			e.model = model
		}
	}
}

// WithEnhanceLogger sets the logger used for API errors.
func WithEnhanceLogger(l *slog.Logger) EnhancerOption {
	return func(e *GeminiEnhancer) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewGeminiEnhancer creates an enhancer authenticated with apiKey.
// Returns ErrMissingAPIKey when apiKey is empty.
func NewGeminiEnhancer(ctx context.Context, apiKey string, opts ...EnhancerOption) (*GeminiEnhancer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating client: %v", ErrEnhance, err)
	}

	return newGeminiEnhancer(client.Models, opts...), nil
}

func newGeminiEnhancer(gen contentGenerator, opts ...EnhancerOption) *GeminiEnhancer {
	e := &GeminiEnhancer{
		generator: gen,
		model:     DefaultEnhanceModel,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enhance returns an improved version of markdown. An empty model reply
// yields the input unchanged. API errors are logged and returned; there is
// no retry.
func (e *GeminiEnhancer) Enhance(ctx context.Context, markdown string) (string, error) {
	resp, err := e.generator.GenerateContent(ctx, e.model, genai.Text(enhancePrompt+markdown), &genai.GenerateContentConfig{
		// Thinking disabled for faster edits.
		ThinkingConfig: &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	})
	if err != nil {
		e.logger.Error("gemini request failed", "model", e.model, "error", err)
		return "", fmt.Errorf("%w: %v", ErrEnhance, err)
	}

	if resp == nil {
		return markdown, nil
	}
	if text := resp.Text(); text != "" {
		return text, nil
	}
	return markdown, nil
}
