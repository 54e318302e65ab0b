package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/arialabs/aria-core/internal/config"
)

func TestSystemPrompt(t *testing.T) {
	got := SystemPrompt(Persona{Name: "Panda"})
	if !strings.Contains(got, "Panda") {
		t.Fatalf("expected persona name in system prompt, got %q", got)
	}
	if SystemPrompt(Persona{}) == SystemPrompt(Persona{Name: "Panda"}) {
		t.Fatal("expected empty persona to fall back to default name")
	}
}

func TestMockClient(t *testing.T) {
	c := NewMockClient()
	reply, err := c.Complete(context.Background(), "hello there", Persona{Name: "Aria"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "hello there") {
		t.Fatalf("unexpected mock reply: %q", reply)
	}
}

func TestMockClientHonorsCancellation(t *testing.T) {
	c := NewMockClient()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Complete(ctx, "hello", Persona{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewFromConfig(t *testing.T) {
	if _, err := NewFromConfig(config.LLMConfig{Mode: "mock"}); err != nil {
		t.Fatalf("mock mode: %v", err)
	}
	if _, err := NewFromConfig(config.LLMConfig{Mode: "ollama", Endpoint: "http://localhost:11434"}); err != nil {
		t.Fatalf("ollama mode: %v", err)
	}
	if _, err := NewFromConfig(config.LLMConfig{Mode: "exec", Command: "./fake --flag"}); err != nil {
		t.Fatalf("exec mode: %v", err)
	}
	if _, err := NewFromConfig(config.LLMConfig{Mode: "nope"}); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
