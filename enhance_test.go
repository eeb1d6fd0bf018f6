package marksnap

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"
)

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func TestGeminiEnhancer_Enhance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		err     error
		want    string
		wantErr error
	}{
		{name: "returns model text", resp: textResponse("# Better"), want: "# Better"},
		{name: "empty reply keeps input", resp: textResponse(""), want: "# draft"},
		{name: "no candidates keeps input", resp: &genai.GenerateContentResponse{}, want: "# draft"},
		{name: "nil response keeps input", resp: nil, want: "# draft"},
		{name: "api error", err: errors.New("quota exceeded"), wantErr: ErrEnhance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := &fakeGenerator{resp: tt.resp, err: tt.err}
			e := newGeminiEnhancer(gen, WithEnhanceLogger(discardLogger()))

			got, err := e.Enhance(context.Background(), "# draft")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Enhance() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Enhance() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enhance() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGeminiEnhancer_Request(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{resp: textResponse("ok")}
	e := newGeminiEnhancer(gen, WithEnhanceModel("gemini-test"))

	if _, err := e.Enhance(context.Background(), "Some *text*"); err != nil {
		t.Fatalf("Enhance() error = %v", err)
	}
	if gen.model != "gemini-test" {
		t.Errorf("model = %q, want gemini-test", gen.model)
	}
	if !strings.HasPrefix(gen.prompt, "You are an expert technical writer.") || !strings.HasSuffix(gen.prompt, "Markdown to improve:\nSome *text*") {
		t.Errorf("prompt = %q", gen.prompt)
	}
	if gen.config == nil || gen.config.ThinkingConfig == nil || *gen.config.ThinkingConfig.ThinkingBudget != 0 {
		t.Error("thinking should be disabled")
	}
}

func TestNewGeminiEnhancer_MissingKey(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"", "   "} {
		if _, err := NewGeminiEnhancer(context.Background(), key); !errors.Is(err, ErrMissingAPIKey) {
			t.Errorf("NewGeminiEnhancer(%q) error = %v, want ErrMissingAPIKey", key, err)
		}
	}
}

func TestNewGeminiEnhancer_Defaults(t *testing.T) {
	t.Parallel()

	e := newGeminiEnhancer(&fakeGenerator{}, WithEnhanceModel(""), WithEnhanceLogger(nil))
	if e.model != DefaultEnhanceModel {
		t.Errorf("model = %q, want %q", e.model, DefaultEnhanceModel)
	}
	if e.logger == nil {
		t.Error("logger should default to slog.Default()")
	}
}
