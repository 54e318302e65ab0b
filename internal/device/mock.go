package device

import (
	"context"
	"fmt"
	"sync"
)

// MockLauncher records every action instead of performing it. Err, when set,
// is returned from all calls, which lets tests drive the not-found paths.
type MockLauncher struct {
	mu    sync.Mutex
	calls []string

	Err error
}

func NewMockLauncher() *MockLauncher { return &MockLauncher{} }

func (l *MockLauncher) record(call string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
	return l.Err
}

// Calls returns a copy of the recorded actions in order.
func (l *MockLauncher) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (l *MockLauncher) OpenApp(_ context.Context, target string) error {
	return l.record("open_app:" + target)
}

func (l *MockLauncher) OpenURL(_ context.Context, url string) error {
	return l.record("open_url:" + url)
}

func (l *MockLauncher) OpenCamera(_ context.Context) error {
	return l.record("open_camera")
}

func (l *MockLauncher) PlayMusic(_ context.Context) error {
	return l.record("play_music")
}

func (l *MockLauncher) Dial(_ context.Context, number string, direct bool) error {
	return l.record(fmt.Sprintf("dial:%s:%t", number, direct))
}

func (l *MockLauncher) ComposeText(_ context.Context, recipient, body string) error {
	return l.record(fmt.Sprintf("compose_text:%s:%s", recipient, body))
}

func (l *MockLauncher) SendText(_ context.Context, recipient, body string) error {
	return l.record(fmt.Sprintf("send_text:%s:%s", recipient, body))
}

func (l *MockLauncher) AddCalendarEvent(_ context.Context, title string) error {
	return l.record("add_calendar_event:" + title)
}

func (l *MockLauncher) SetAlarm(_ context.Context, hour, minute int) error {
	return l.record(fmt.Sprintf("set_alarm:%d:%02d", hour, minute))
}
