// Package command turns one line of free text into a structured assistant
// command. Classification is a fixed-priority cascade of string matches; it
// never fails, and underspecified requests produce structurally complete
// commands with empty fields so the executor can report what is missing.
package command

import "strings"

// Kind identifies the command variant.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindOpenApp
	KindSearch
	KindDial
	KindSendText
	KindAddCalendarEvent
	KindOpenCamera
	KindPlayMusic
	KindSetAlarm
	KindTellTime
	KindTellDate
)

func (k Kind) String() string {
	switch k {
	case KindOpenApp:
		return "open_app"
	case KindSearch:
		return "search"
	case KindDial:
		return "dial"
	case KindSendText:
		return "send_text"
	case KindAddCalendarEvent:
		return "add_calendar_event"
	case KindOpenCamera:
		return "open_camera"
	case KindPlayMusic:
		return "play_music"
	case KindSetAlarm:
		return "set_alarm"
	case KindTellTime:
		return "tell_time"
	case KindTellDate:
		return "tell_date"
	default:
		return "unrecognized"
	}
}

// Command is the structured form of a user request. Exactly one Kind per
// input; only the fields for that kind are populated. Raw always carries the
// original text.
type Command struct {
	Kind Kind

	Target    string // OpenApp: canonical app id or literal target
	Query     string // Search
	Number    string // Dial: digits and '+' only, may be empty
	Recipient string // SendText, may be empty
	Body      string // SendText, may be empty
	Title     string // AddCalendarEvent: full original text
	Hour      int    // SetAlarm
	Minute    int    // SetAlarm

	Raw string
}

// appAliases maps spoken app names to canonical identifiers. Unknown targets
// pass through literally; resolution failure is the executor's concern.
var appAliases = []struct {
	substring string
	id        string
}{
	{"youtube", "com.google.android.youtube"},
	{"whatsapp", "com.whatsapp"},
	{"instagram", "com.instagram.android"},
}

// ResolveApp maps a spoken target to a canonical app identifier, or returns
// the target unchanged when no alias matches.
func ResolveApp(target string) string {
	for _, alias := range appAliases {
		if containsFold(target, alias.substring) {
			return alias.id
		}
	}
	return target
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}
