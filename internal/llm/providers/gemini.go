package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"hirescore/internal/config"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements the LLM provider interface using Google's Gemini API
type GeminiProvider struct {
	client    *genai.Client
	modelName string
	config    *config.Config
}

// NewGeminiProvider creates a client for the Gemini API backend
func NewGeminiProvider(ctx context.Context, cfg *config.Config) (*GeminiProvider, error) {
	apiKey := strings.TrimSpace(cfg.LLM.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.LLM.Model)
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiProvider{client: client, modelName: model, config: cfg}, nil
}

// GenerateContent sends the prompt and joins every text part of the response
func (gp *GeminiProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if gp == nil || gp.client == nil {
		return "", errors.New("gemini provider is not initialized")
	}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(gp.config.LLM.Temperature),
		ResponseMIMEType: "application/json",
	}
	if gp.config.LLM.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(gp.config.LLM.MaxTokens)
	}

	resp, err := gp.client.Models.GenerateContent(ctx, gp.modelName, genai.Text(prompt), genConfig)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}

	return output, nil
}

// IsHealthy looks the configured model up, which verifies key and model name
func (gp *GeminiProvider) IsHealthy(ctx context.Context) error {
	if gp == nil || gp.client == nil {
		return errors.New("gemini provider is not initialized")
	}
	if _, err := gp.client.Models.Get(ctx, gp.modelName, nil); err != nil {
		return fmt.Errorf("gemini health check failed: %w", err)
	}
	return nil
}

func (gp *GeminiProvider) GetProviderName() string {
	return "gemini"
}

func (gp *GeminiProvider) Model() string {
	return gp.modelName
}
