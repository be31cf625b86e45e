package optimize

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/resume-builder/internal/types"
)

// Gemini implements Collaborator on Google Gemini.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed collaborator. model may be empty to use
// DefaultModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{client: client, model: model}, nil
}

// Model returns the model name a request with these options would use.
func (g *Gemini) Model(opts Options) string {
	if opts.Model != "" {
		return opts.Model
	}
	return g.model
}

// Close releases resources held by the client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Optimize asks the model for tailored overrides and parses the reply into a
// patch scoped to items that exist in the bundle.
func (g *Gemini) Optimize(ctx context.Context, profile types.Profile, data types.DataBundle, jobText string, opts Options) (*types.ProfilePatch, error) {
	model := g.client.GenerativeModel(g.Model(opts))
	model.SetTemperature(0.1) // Low temperature for consistent output
	model.ResponseMIMEType = "application/json"

	prompt := buildPrompt(profile, data, jobText, opts)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return nil, err
	}
	return parseReply(CleanJSONBlock(text), profile, data)
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
