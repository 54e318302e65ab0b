package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/arialabs/aria-core/internal/bus"
	"github.com/arialabs/aria-core/internal/config"
)

// ErrNotFound reports that no app or handler on the device can perform the
// requested action.
var ErrNotFound = errors.New("device: no handler for action")

// Launcher abstracts the device surface that actually opens apps, places
// calls, and schedules alarms.
type Launcher interface {
	OpenApp(ctx context.Context, target string) error
	OpenURL(ctx context.Context, url string) error
	OpenCamera(ctx context.Context) error
	PlayMusic(ctx context.Context) error
	// Dial places a call when direct is true, otherwise opens the dialer
	// pre-filled with the number.
	Dial(ctx context.Context, number string, direct bool) error
	// ComposeText opens a messaging app with recipient and body pre-filled.
	ComposeText(ctx context.Context, recipient, body string) error
	// SendText sends the message without user interaction.
	SendText(ctx context.Context, recipient, body string) error
	AddCalendarEvent(ctx context.Context, title string) error
	SetAlarm(ctx context.Context, hour, minute int) error
}

// NewLauncherFromConfig builds the configured backend. The bus client may be
// nil for non-bus modes.
func NewLauncherFromConfig(cfg config.ActionsConfig, busClient *bus.Client) (Launcher, error) {
	switch cfg.Mode {
	case "bus":
		if busClient == nil {
			return nil, fmt.Errorf("actions mode bus requires a bus client")
		}
		return NewBusLauncher(busClient), nil
	case "exec":
		return NewExecLauncher(cfg.Command)
	case "mock":
		return NewMockLauncher(), nil
	default:
		return nil, fmt.Errorf("unknown actions mode %q", cfg.Mode)
	}
}
