package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/arialabs/aria-core/internal/config"
)

// Persona shapes the assistant's voice and system prompt.
type Persona struct {
	Name  string
	Voice string
}

// Failure classes. The orchestrator treats all of them identically, but
// backends report the closest match for logging and tests.
var (
	ErrUnauthenticated = errors.New("llm: unauthenticated")
	ErrUnreachable     = errors.New("llm: unreachable")
	ErrMalformed       = errors.New("llm: malformed response")
)

// Client defines a pluggable language model backend.
type Client interface {
	Complete(ctx context.Context, prompt string, persona Persona) (string, error)
}

// SystemPrompt renders the assistant instructions for a persona.
func SystemPrompt(p Persona) string {
	name := p.Name
	if name == "" {
		name = "Aria"
	}
	return fmt.Sprintf("You are %s, a friendly helpful voice assistant.", name)
}

// NewFromConfig builds the configured backend.
func NewFromConfig(cfg config.LLMConfig) (Client, error) {
	switch cfg.Mode {
	case "mock":
		return NewMockClient(), nil
	case "ollama":
		return NewOllamaClient(cfg.Endpoint, cfg.Model, cfg.MaxTokens, cfg.Temperature), nil
	case "exec":
		return NewExecClient(cfg.Command, cfg.MaxTokens, cfg.Temperature)
	default:
		return nil, fmt.Errorf("unknown llm mode %q", cfg.Mode)
	}
}
