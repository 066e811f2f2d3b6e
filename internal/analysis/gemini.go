package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/stock-analyser/internal/models"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

const systemInstruction = `You are an equity research analyst writing for a long-term retail investor.
Answer in Markdown with one level-2 heading per requested section.
End with a single line "**Recommendation**: <rating>" using exactly one of:
Strong Buy, Buy, Hold, Sell, Strong Sell.`

// contentGenerator is the part of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiAnalyzer sends the analysis prompt to a Gemini model.
type GeminiAnalyzer struct {
	models contentGenerator
	model  string
}

// NewGeminiAnalyzer creates an analyzer using the Gemini API backend.
func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newGeminiAnalyzer(client.Models, model), nil
}

func newGeminiAnalyzer(gen contentGenerator, model string) *GeminiAnalyzer {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiAnalyzer{models: gen, model: model}
}

func (g *GeminiAnalyzer) Name() string { return "gemini" }

// Analyze returns the model's markdown answer for prompt.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, h models.Holding, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini request for %s failed: %w", h.Ticker, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned no text for %s", h.Ticker)
	}
	return text, nil
}
