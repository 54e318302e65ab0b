package protocol

import "time"

// Transcript carries recognized speech (or typed text) published by the
// capture surface. Only final transcripts feed the assistant pipeline.
type Transcript struct {
	SessionID string    `json:"session_id"`
	Text      string    `json:"text"`
	Partial   bool      `json:"partial"`
	Timestamp time.Time `json:"timestamp"`
}

// SpeechRequest asks the speech-output surface to utter text. Queuing and
// interruption policy belong to the consumer.
type SpeechRequest struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Voice     string    `json:"voice,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// CapabilityGrant announces that the host observed a runtime capability
// transition to granted.
type CapabilityGrant struct {
	Token     string    `json:"token"`
	Timestamp time.Time `json:"timestamp"`
}

// ActionRequest asks the device-action surface to perform an OS-level effect.
// Fields beyond Kind are populated per action.
type ActionRequest struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Target    string    `json:"target,omitempty"`
	URL       string    `json:"url,omitempty"`
	Number    string    `json:"number,omitempty"`
	Direct    bool      `json:"direct,omitempty"`
	Recipient string    `json:"recipient,omitempty"`
	Body      string    `json:"body,omitempty"`
	Title     string    `json:"title,omitempty"`
	Hour      int       `json:"hour,omitempty"`
	Minute    int       `json:"minute,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	SubjectTranscriptPartial = "stt.text.partial"
	SubjectTranscriptFinal   = "stt.text.final"
	SubjectSpeechRequest     = "tts.speak.request"
	SubjectActionRequest     = "device.action.request"
	SubjectCapabilityGranted = "ctrl.capability.granted"
	SubjectConversationClear = "ctrl.conversation.clear"
)
