package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Bus.Servers[0] != "nats://localhost:4222" {
		t.Fatalf("expected default server, got %v", cfg.Bus.Servers)
	}
	if cfg.Persona.Name != "Aria" {
		t.Fatalf("expected default persona name, got %q", cfg.Persona.Name)
	}
	if cfg.Conversation.Mode != "persistent" {
		t.Fatalf("expected persistent conversation mode, got %q", cfg.Conversation.Mode)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ARIA_BUS_SERVERS", "nats://one:4222, nats://two:4222")
	t.Setenv("ARIA_BUS_USERNAME", "alice")
	t.Setenv("ARIA_BUS_PASSWORD", "secret")
	t.Setenv("ARIA_PERSONA_NAME", "Nova")
	t.Setenv("ARIA_PERSONA_VOICE", "warm")
	t.Setenv("ARIA_CAPABILITIES_GRANTED", "phone-call, send-sms")
	t.Setenv("ARIA_CONVERSATION_MODE", "memory")
	t.Setenv("ARIA_CONVERSATION_MAX_TURNS", "25")
	t.Setenv("ARIA_LLM_MODE", "ollama")
	t.Setenv("ARIA_LLM_ENDPOINT", "http://llm:11434")
	t.Setenv("ARIA_LLM_TEMPERATURE", "0.2")
	t.Setenv("ARIA_SPEECH_MODE", "mock")
	t.Setenv("ARIA_ACTIONS_MODE", "mock")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.Bus.Servers) != 2 {
		t.Fatalf("expected 2 servers, got %v", cfg.Bus.Servers)
	}
	if cfg.Bus.Username != "alice" || cfg.Bus.Password != "secret" {
		t.Fatalf("expected credentials override")
	}
	if cfg.Persona.Name != "Nova" || cfg.Persona.Voice != "warm" {
		t.Fatalf("expected persona override, got %+v", cfg.Persona)
	}
	if len(cfg.Capabilities.Granted) != 2 || cfg.Capabilities.Granted[0] != "phone-call" {
		t.Fatalf("expected granted capabilities override, got %v", cfg.Capabilities.Granted)
	}
	if cfg.Conversation.Mode != "memory" || cfg.Conversation.MaxTurns != 25 {
		t.Fatalf("expected conversation override, got %+v", cfg.Conversation)
	}
	if cfg.LLM.Mode != "ollama" || cfg.LLM.Endpoint != "http://llm:11434" {
		t.Fatalf("expected llm override, got %+v", cfg.LLM)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Fatalf("expected temperature 0.2, got %f", cfg.LLM.Temperature)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aria.yaml")
	data := []byte(`
runtime_name: aria-test
persona:
  name: Panda
assistant:
  greeting_template: "Hello from %s."
llm:
  mode: exec
  command: "./fake-llm --json"
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RuntimeName != "aria-test" {
		t.Fatalf("expected runtime name from file, got %q", cfg.RuntimeName)
	}
	if cfg.Persona.Name != "Panda" {
		t.Fatalf("expected persona from file, got %q", cfg.Persona.Name)
	}
	if cfg.LLM.Mode != "exec" || cfg.LLM.Command != "./fake-llm --json" {
		t.Fatalf("expected llm exec config, got %+v", cfg.LLM)
	}
}

func TestValidateRejectsBadModes(t *testing.T) {
	t.Setenv("ARIA_LLM_MODE", "telepathy")
	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for llm.mode")
	}
}
