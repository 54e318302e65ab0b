package speech

import (
	"context"
	"sync"
)

// Recorder captures utterances for mock mode and tests.
type Recorder struct {
	mu         sync.Mutex
	utterances []string
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Speak(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.utterances = append(r.utterances, text)
	return nil
}

// Utterances returns a copy of everything spoken so far.
func (r *Recorder) Utterances() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.utterances...)
}
