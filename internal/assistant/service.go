package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/arialabs/aria-core/internal/bus"
	"github.com/arialabs/aria-core/internal/capability"
	"github.com/arialabs/aria-core/internal/protocol"
)

// Service is the bus front of the engine: final transcripts become submitted
// input, capability grants resume deferred commands, and clear requests reset
// the conversation.
type Service struct {
	bus    *bus.Client
	engine *Engine
	caps   *capability.Store
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	subTranscripts *nats.Subscription
	subGrants      *nats.Subscription
	subClear       *nats.Subscription
}

func NewService(parent context.Context, busClient *bus.Client, engine *Engine, caps *capability.Store, logger *slog.Logger) *Service {
	ctx, cancel := context.WithCancel(parent)
	return &Service{
		bus:    busClient,
		engine: engine,
		caps:   caps,
		logger: logger.With(slog.String("component", "assistant-service")),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Service) Start() error {
	sub, err := s.bus.Conn().Subscribe(protocol.SubjectTranscriptFinal, s.handleTranscript)
	if err != nil {
		return err
	}
	s.subTranscripts = sub

	subGrants, err := s.bus.Conn().Subscribe(protocol.SubjectCapabilityGranted, s.handleGrant)
	if err != nil {
		s.subTranscripts.Drain()
		return err
	}
	s.subGrants = subGrants

	subClear, err := s.bus.Conn().Subscribe(protocol.SubjectConversationClear, s.handleClear)
	if err != nil {
		s.subTranscripts.Drain()
		s.subGrants.Drain()
		return err
	}
	s.subClear = subClear
	return nil
}

func (s *Service) Close() {
	s.cancel()
	if s.subTranscripts != nil {
		_ = s.subTranscripts.Drain()
	}
	if s.subGrants != nil {
		_ = s.subGrants.Drain()
	}
	if s.subClear != nil {
		_ = s.subClear.Drain()
	}
}

func (s *Service) Healthy() bool {
	return s.subTranscripts != nil && s.subGrants != nil && s.subClear != nil
}

func (s *Service) handleTranscript(msg *nats.Msg) {
	var transcript protocol.Transcript
	if err := json.Unmarshal(msg.Data, &transcript); err != nil {
		s.logger.Warn("failed to decode transcript", slogError(err))
		return
	}
	text := strings.TrimSpace(transcript.Text)
	if text == "" || transcript.Partial {
		return
	}
	s.engine.Submit(text, true)
}

func (s *Service) handleGrant(msg *nats.Msg) {
	var grant protocol.CapabilityGrant
	if err := json.Unmarshal(msg.Data, &grant); err != nil {
		s.logger.Warn("failed to decode capability grant", slogError(err))
		return
	}
	if grant.Token == "" {
		return
	}
	s.caps.Grant(grant.Token)
	s.engine.NotifyCapabilityGranted(grant.Token)
}

func (s *Service) handleClear(_ *nats.Msg) {
	if err := s.engine.ClearConversation(s.ctx); err != nil {
		s.logger.Warn("failed to clear conversation", slogError(err))
	}
}
