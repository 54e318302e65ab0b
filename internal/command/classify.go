package command

import (
	"strconv"
	"strings"
)

// rule pairs a predicate with a constructor. The slice below is the
// classification contract: first match wins, and reordering entries changes
// behavior.
type rule struct {
	name  string
	match func(lower string) bool
	build func(raw, lower string) Command
}

var rules = []rule{
	{
		name:  "open app",
		match: prefix("open "),
		build: func(raw, lower string) Command {
			target := strings.TrimSpace(strings.TrimPrefix(lower, "open "))
			return Command{Kind: KindOpenApp, Target: ResolveApp(target), Raw: raw}
		},
	},
	{
		name:  "search on google",
		match: prefix("search on google for "),
		build: func(raw, lower string) Command {
			query := strings.TrimSpace(strings.TrimPrefix(lower, "search on google for "))
			return Command{Kind: KindSearch, Query: query, Raw: raw}
		},
	},
	{
		name:  "search",
		match: prefix("search for "),
		build: func(raw, lower string) Command {
			query := strings.TrimSpace(strings.TrimPrefix(lower, "search for "))
			return Command{Kind: KindSearch, Query: query, Raw: raw}
		},
	},
	{
		name:  "call",
		match: prefix("call "),
		build: func(raw, lower string) Command {
			number := keepDialChars(strings.TrimPrefix(lower, "call "))
			return Command{Kind: KindDial, Number: number, Raw: raw}
		},
	},
	{
		name: "send text",
		match: func(lower string) bool {
			return strings.HasPrefix(lower, "send sms") || strings.HasPrefix(lower, "send text")
		},
		build: func(raw, lower string) Command {
			recipient, body := parseSendText(lower)
			return Command{Kind: KindSendText, Recipient: recipient, Body: body, Raw: raw}
		},
	},
	{
		name: "calendar event",
		match: func(lower string) bool {
			return strings.Contains(lower, "add calendar event") || strings.HasPrefix(lower, "create event")
		},
		build: func(raw, lower string) Command {
			return Command{Kind: KindAddCalendarEvent, Title: raw, Raw: raw}
		},
	},
	{
		name: "camera",
		match: func(lower string) bool {
			return strings.Contains(lower, "open camera") || strings.HasPrefix(lower, "camera")
		},
		build: func(raw, lower string) Command {
			return Command{Kind: KindOpenCamera, Raw: raw}
		},
	},
	{
		name:  "music",
		match: contains("play music"),
		build: func(raw, lower string) Command {
			return Command{Kind: KindPlayMusic, Raw: raw}
		},
	},
	{
		name: "alarm",
		match: func(lower string) bool {
			return strings.Contains(lower, "set alarm") || strings.HasPrefix(lower, "wake me")
		},
		build: func(raw, lower string) Command {
			hour, minute := parseAlarmTime(raw)
			return Command{Kind: KindSetAlarm, Hour: hour, Minute: minute, Raw: raw}
		},
	},
	{
		name: "time",
		match: func(lower string) bool {
			return strings.Contains(lower, "time is it") || strings.Contains(lower, "current time")
		},
		build: func(raw, lower string) Command {
			return Command{Kind: KindTellTime, Raw: raw}
		},
	},
	{
		name: "date",
		match: func(lower string) bool {
			return strings.Contains(lower, "date is it") || strings.Contains(lower, "today's date")
		},
		build: func(raw, lower string) Command {
			return Command{Kind: KindTellDate, Raw: raw}
		},
	},
}

// Classify maps free text to a Command. The same text always yields the same
// command; Unrecognized is the total fallback.
func Classify(text string) Command {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, r := range rules {
		if r.match(lower) {
			return r.build(text, lower)
		}
	}
	return Command{Kind: KindUnrecognized, Raw: text}
}

func prefix(p string) func(string) bool {
	return func(lower string) bool { return strings.HasPrefix(lower, p) }
}

func contains(sub string) func(string) bool {
	return func(lower string) bool { return strings.Contains(lower, sub) }
}

// keepDialChars keeps only digits and '+'. An empty result is legal; the
// executor reports the missing number.
func keepDialChars(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// smsSeparators are tried in string order; the earliest occurrence wins.
var smsSeparators = []string{" saying ", " message ", " that "}

// parseSendText extracts recipient and body from a lowered send-sms/send-text
// command. Missing pieces come back empty: no "to " leaves both fields empty,
// a "to " without a recognized separator leaves only the body empty.
func parseSendText(lower string) (recipient, body string) {
	parts := strings.Split(lower, "to ")
	if len(parts) < 2 {
		return "", ""
	}
	rest := parts[1]

	sepIdx := -1
	sepLen := 0
	for _, sep := range smsSeparators {
		if idx := strings.Index(rest, sep); idx >= 0 && (sepIdx < 0 || idx < sepIdx) {
			sepIdx = idx
			sepLen = len(sep)
		}
	}
	if sepIdx < 0 {
		return strings.TrimSpace(rest), ""
	}
	return strings.TrimSpace(rest[:sepIdx]), strings.TrimSpace(rest[sepIdx+sepLen:])
}

// parseAlarmTime pulls an h:mm time out of the full original text. With no
// parseable time it falls back to 7:00, matching long-standing behavior.
func parseAlarmTime(raw string) (hour, minute int) {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ':' {
			b.WriteRune(r)
		}
	}
	parts := strings.Split(b.String(), ":")
	if len(parts) < 2 {
		return 7, 0
	}
	return atoiOrZero(parts[0]), atoiOrZero(parts[1])
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
