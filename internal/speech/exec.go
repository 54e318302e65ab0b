package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"

	"github.com/mattn/go-shellwords"
)

// ExecSpeaker pipes speech requests to a configured external command, one
// JSON document per invocation.
type ExecSpeaker struct {
	cmd   []string
	voice string
	mu    sync.Mutex
}

type execRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

func NewExecSpeaker(command, voice string) (*ExecSpeaker, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse speech command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("speech command empty")
	}
	return &ExecSpeaker{cmd: args, voice: voice}, nil
}

func (s *ExecSpeaker) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	input, err := json.Marshal(execRequest{Text: text, Voice: s.voice})
	if err != nil {
		return err
	}

	base := s.cmd[0]
	args := append([]string{}, s.cmd[1:]...)
	cmd := exec.CommandContext(ctx, base, args...)
	cmd.Stdin = bytes.NewReader(input)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("speech exec command failed: %w", err)
	}
	return nil
}
