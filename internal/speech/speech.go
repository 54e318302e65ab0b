// Package speech hands assistant text to the speech-output surface. The
// orchestrator treats speaking as fire-and-forget; errors are logged, never
// propagated into the pipeline.
package speech

import (
	"context"
	"fmt"

	"github.com/arialabs/aria-core/internal/bus"
	"github.com/arialabs/aria-core/internal/config"
)

// Speaker requests that text be uttered.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// NewFromConfig builds the configured backend. The bus client may be nil for
// non-bus modes.
func NewFromConfig(cfg config.SpeechConfig, busClient *bus.Client, voice string) (Speaker, error) {
	switch cfg.Mode {
	case "bus":
		if busClient == nil {
			return nil, fmt.Errorf("speech mode bus requires a bus client")
		}
		return NewBusSpeaker(busClient, voice), nil
	case "exec":
		return NewExecSpeaker(cfg.Command, voice)
	case "mock":
		return NewRecorder(), nil
	default:
		return nil, fmt.Errorf("unknown speech mode %q", cfg.Mode)
	}
}
