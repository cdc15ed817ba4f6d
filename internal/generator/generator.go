// Package generator produces the style analysis for a resolved prompt.
package generator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/stylewiz/internal/config"
	"github.com/mark3labs/stylewiz/internal/logger"
)

// ModelConfig selects and tunes the model. The wizard never interprets it.
type ModelConfig struct {
	ID          string  `json:"id" yaml:"id"`
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	MaxTokens   int     `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty"`
}

// Result is the generated analysis.
type Result struct {
	Text string `json:"text" yaml:"text"`
}

// Generator turns a fully resolved prompt into an analysis.
type Generator interface {
	Generate(ctx context.Context, prompt string, model ModelConfig) (Result, error)
}

const defaultHTTPTimeout = 3 * time.Minute

// New builds the generator selected by cfg.Generator.
func New(cfg *config.Config) (Generator, error) {
	switch cfg.Generator {
	case config.GeneratorStub, "":
		logger.Debug("Using stub generator (delay %s)", cfg.StubDelay)
		return &Stub{Delay: cfg.StubDelay}, nil
	case config.GeneratorHTTP:
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("http generator requires an endpoint")
		}
		logger.Debug("Using HTTP generator at %s", cfg.Endpoint)
		return &HTTP{
			Endpoint: cfg.Endpoint,
			APIKey:   cfg.APIKey,
			Client:   &http.Client{Timeout: defaultHTTPTimeout},
		}, nil
	default:
		return nil, fmt.Errorf("unknown generator %q", cfg.Generator)
	}
}
