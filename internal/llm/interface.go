package llm

import (
	"context"

	"hirescore/internal/llm/processors"
)

// LLMProvider defines the interface for LLM providers
type LLMProvider interface {
	// GenerateContent sends one prompt and returns the model's text output
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// IsHealthy checks if the LLM provider is healthy and available
	IsHealthy(ctx context.Context) error

	// GetProviderName returns the name of the LLM provider
	GetProviderName() string
}

// Evaluation errors, re-exported from processors
var ErrEvaluationFailure = processors.ErrEvaluationFailure

type ParseError = processors.ParseError
type ShapeError = processors.ShapeError
