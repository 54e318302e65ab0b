package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"sync"

	"github.com/mattn/go-shellwords"

	"github.com/arialabs/aria-core/internal/protocol"
)

// ExecLauncher hands each action to an external command as a JSON document on
// stdin and reads a status document from stdout. A "not_found" status maps to
// ErrNotFound so the executor can apply its fallbacks.
type ExecLauncher struct {
	cmd []string
	mu  sync.Mutex
}

type execResult struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func NewExecLauncher(command string) (*ExecLauncher, error) {
	parser := shellwords.NewParser()
	args, err := parser.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse actions command: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("actions command empty")
	}
	return &ExecLauncher{cmd: args}, nil
}

func (l *ExecLauncher) run(ctx context.Context, req protocol.ActionRequest) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	input, err := json.Marshal(req)
	if err != nil {
		return err
	}

	base := l.cmd[0]
	args := append([]string{}, l.cmd[1:]...)
	cmd := exec.CommandContext(ctx, base, args...)
	cmd.Stdin = bytes.NewReader(input)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("actions exec command failed: %w", err)
	}

	var result execResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		return fmt.Errorf("decode actions exec output: %w", err)
	}
	switch result.Status {
	case "ok":
		return nil
	case "not_found":
		return ErrNotFound
	default:
		return fmt.Errorf("actions exec command reported %q: %s", result.Status, result.Detail)
	}
}

func (l *ExecLauncher) OpenApp(ctx context.Context, target string) error {
	return l.run(ctx, protocol.ActionRequest{Kind: "open_app", Target: target})
}

func (l *ExecLauncher) OpenURL(ctx context.Context, url string) error {
	return l.run(ctx, protocol.ActionRequest{Kind: "open_url", URL: url})
}

func (l *ExecLauncher) OpenCamera(ctx context.Context) error {
	return l.run(ctx, protocol.ActionRequest{Kind: "open_camera"})
}

func (l *ExecLauncher) PlayMusic(ctx context.Context) error {
	return l.run(ctx, protocol.ActionRequest{Kind: "play_music"})
}

func (l *ExecLauncher) Dial(ctx context.Context, number string, direct bool) error {
	return l.run(ctx, protocol.ActionRequest{Kind: "dial", Number: number, Direct: direct})
}

func (l *ExecLauncher) ComposeText(ctx context.Context, recipient, body string) error {
	return l.run(ctx, protocol.ActionRequest{Kind: "compose_text", Recipient: recipient, Body: body})
}

func (l *ExecLauncher) SendText(ctx context.Context, recipient, body string) error {
	return l.run(ctx, protocol.ActionRequest{Kind: "send_text", Recipient: recipient, Body: body})
}

func (l *ExecLauncher) AddCalendarEvent(ctx context.Context, title string) error {
	return l.run(ctx, protocol.ActionRequest{Kind: "add_calendar_event", Title: title})
}

func (l *ExecLauncher) SetAlarm(ctx context.Context, hour, minute int) error {
	return l.run(ctx, protocol.ActionRequest{Kind: "set_alarm", Hour: hour, Minute: minute})
}
