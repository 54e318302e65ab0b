package speech

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arialabs/aria-core/internal/bus"
	"github.com/arialabs/aria-core/internal/protocol"
	"github.com/google/uuid"
)

// BusSpeaker publishes speech requests for an external synthesizer.
type BusSpeaker struct {
	bus   *bus.Client
	voice string
}

func NewBusSpeaker(busClient *bus.Client, voice string) *BusSpeaker {
	return &BusSpeaker{bus: busClient, voice: voice}
}

func (s *BusSpeaker) Speak(_ context.Context, text string) error {
	if text == "" {
		return nil
	}
	msg := protocol.SpeechRequest{
		ID:        uuid.NewString(),
		Text:      text,
		Voice:     s.voice,
		Timestamp: time.Now().UTC(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.bus.Conn().Publish(protocol.SubjectSpeechRequest, data)
}
