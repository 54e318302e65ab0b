package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/mattn/go-shellwords"
)

type execClient struct {
	cmd         []string
	maxTokens   int
	temperature float64
	mu          sync.Mutex
}

type execPayload struct {
	Prompt      string  `json:"prompt"`
	System      string  `json:"system"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type execResponse struct {
	Content string `json:"content"`
}

func NewExecClient(command string, maxTokens int, temperature float64) (Client, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse llm command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("llm command empty")
	}
	return &execClient{cmd: args, maxTokens: maxTokens, temperature: temperature}, nil
}

func (c *execClient) Complete(ctx context.Context, prompt string, persona Persona) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	input, err := json.Marshal(execPayload{
		Prompt:      prompt,
		System:      SystemPrompt(persona),
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	base := c.cmd[0]
	args := append([]string{}, c.cmd[1:]...)
	cmd := exec.CommandContext(ctx, base, args...)
	cmd.Stdin = bytes.NewReader(input)
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: llm exec command failed: %v", ErrUnreachable, err)
	}

	var resp execResponse
	if err := json.Unmarshal(output, &resp); err != nil {
		return "", fmt.Errorf("%w: decode llm exec response: %v", ErrMalformed, err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("%w: empty completion", ErrMalformed)
	}
	return strings.TrimSpace(resp.Content), nil
}
