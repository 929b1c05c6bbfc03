package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"hirescore/internal/config"
	"hirescore/internal/llm/processors"
	"hirescore/internal/logging"
	"hirescore/pkg/models"
	"hirescore/pkg/utils"
)

// maxResumeRunes bounds the resume text placed in one prompt
const maxResumeRunes = 24000

// ErrResumeTooShort is returned before any model call when the resume has too little content
var ErrResumeTooShort = fmt.Errorf("%w: resume text is missing or too short", ErrEvaluationFailure)

// Manager owns the configured provider and runs evaluations through it.
// Evaluate never retries and never falls back; both are the caller's concern.
type Manager struct {
	config   *config.Config
	factory  *LLMFactory
	provider LLMProvider
	limiter  *rate.Limiter
	cleaner  *processors.TextCleaner
	logger   logging.Logger
	mu       sync.RWMutex
	healthy  bool
}

// NewManager creates a new LLM manager instance
func NewManager(cfg *config.Config, logger logging.Logger) *Manager {
	return &Manager{
		config:  cfg,
		factory: NewLLMFactory(cfg),
		limiter: newLimiter(cfg),
		cleaner: processors.NewTextCleaner(),
		logger:  logger,
	}
}

// NewManagerWithProvider creates a started manager around an existing provider
func NewManagerWithProvider(cfg *config.Config, provider LLMProvider, logger logging.Logger) *Manager {
	m := NewManager(cfg, logger)
	m.provider = provider
	m.healthy = true
	return m
}

func newLimiter(cfg *config.Config) *rate.Limiter {
	if cfg.LLM.RateLimit <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.LLM.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(float64(cfg.LLM.RateLimit)/60.0), burst)
}

// Start creates the provider and probes it. A failed probe is logged; evaluations
// still go through and fall back on failure.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting LLM manager", map[string]interface{}{
		"provider": m.config.LLM.Provider,
		"model":    m.config.LLM.Model,
	})

	provider, err := m.factory.CreateProvider(ctx)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	m.provider = provider

	healthCtx, cancel := context.WithTimeout(ctx, m.config.LLM.Timeout)
	defer cancel()

	if err := m.provider.IsHealthy(healthCtx); err != nil {
		m.logger.Warn("LLM provider health check failed - evaluations will use fallback scores until it recovers", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
			"error":    err.Error(),
		})
		m.healthy = false
	} else {
		m.healthy = true
		m.logger.Info("LLM manager started successfully", map[string]interface{}{
			"provider": m.provider.GetProviderName(),
		})
	}

	return nil
}

// Stop shuts down the LLM manager
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping LLM manager")
	m.provider = nil
	m.healthy = false
	return nil
}

// Evaluate scores one application. Every failure, including timeout and
// provider errors, wraps ErrEvaluationFailure.
func (m *Manager) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error) {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return nil, fmt.Errorf("%w: LLM manager not started or provider not available", ErrEvaluationFailure)
	}

	req.ResumeText = m.cleaner.Clean(req.ResumeText)
	req.CoverLetter = m.cleaner.Clean(req.CoverLetter)

	if utf8.RuneCountInString(req.ResumeText) < m.config.Applications.MinResumeLength {
		return nil, ErrResumeTooShort
	}
	if utf8.RuneCountInString(req.ResumeText) > maxResumeRunes {
		req.ResumeText = string([]rune(req.ResumeText)[:maxResumeRunes])
		m.logger.Debug("Resume truncated to fit prompt limits", map[string]interface{}{
			"max_runes": maxResumeRunes,
		})
	}

	timeout := m.config.LLM.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	evalCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := m.limiter.Wait(evalCtx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrEvaluationFailure, err)
	}

	startTime := time.Now()
	raw, err := provider.GenerateContent(evalCtx, processors.BuildEvaluationPrompt(req))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(evalCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timed out after %s", ErrEvaluationFailure, timeout)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrEvaluationFailure, provider.GetProviderName(), err)
	}

	m.logger.Debug("Evaluation response received", map[string]interface{}{
		"provider":        provider.GetProviderName(),
		"response":        utils.TruncateForLog(raw, 200),
		"processing_time": time.Since(startTime).String(),
	})

	result, err := processors.ParseEvaluation(raw)
	if err != nil {
		return nil, err
	}

	// A cover letter score without a cover letter is meaningless
	if req.CoverLetter == "" {
		result.CoverLetterScore = nil
	}

	return result, nil
}

// IsHealthy reports the result of the last provider probe
func (m *Manager) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy && m.provider != nil
}

// GetProviderName returns the name of the current LLM provider
func (m *Manager) GetProviderName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.provider != nil {
		return m.provider.GetProviderName()
	}
	return "none"
}

// CheckHealth probes the provider and records the outcome
func (m *Manager) CheckHealth(ctx context.Context) error {
	m.mu.RLock()
	provider := m.provider
	m.mu.RUnlock()

	if provider == nil {
		return fmt.Errorf("LLM provider not available")
	}

	err := provider.IsHealthy(ctx)

	m.mu.Lock()
	m.healthy = err == nil
	m.mu.Unlock()

	return err
}
