package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ollamaClient struct {
	endpoint    string
	model       string
	maxTokens   int
	temperature float64
}

func NewOllamaClient(endpoint, model string, maxTokens int, temperature float64) Client {
	return &ollamaClient{endpoint: endpoint, model: model, maxTokens: maxTokens, temperature: temperature}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaStreamResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete streams the generation and returns the accumulated reply.
func (c *ollamaClient) Complete(ctx context.Context, prompt string, persona Persona) (string, error) {
	model := c.model
	if model == "" {
		model = "llama3.2:latest"
	}
	payload := ollamaRequest{
		Model:  model,
		Prompt: prompt,
		System: SystemPrompt(persona),
		Stream: true,
		Options: ollamaOptions{
			Temperature: c.temperature,
			NumPredict:  c.maxTokens,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("%w: status %s", ErrUnauthenticated, resp.Status)
	case resp.StatusCode >= 300:
		return "", fmt.Errorf("%w: status %s", ErrUnreachable, resp.Status)
	}

	var reply strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk ollamaStreamResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			return "", fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		reply.WriteString(chunk.Response)
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if reply.Len() == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrMalformed)
	}
	return strings.TrimSpace(reply.String()), nil
}
