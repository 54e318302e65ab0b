package command

import "testing"

func TestClassifyTable(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Command
	}{
		{
			name: "open app alias",
			text: "open youtube",
			want: Command{Kind: KindOpenApp, Target: "com.google.android.youtube"},
		},
		{
			name: "open app case insensitive",
			text: "OPEN YouTube",
			want: Command{Kind: KindOpenApp, Target: "com.google.android.youtube"},
		},
		{
			name: "open app literal target",
			text: "open spotify",
			want: Command{Kind: KindOpenApp, Target: "spotify"},
		},
		{
			name: "open prefix beats camera rule",
			text: "open camera",
			want: Command{Kind: KindOpenApp, Target: "camera"},
		},
		{
			name: "camera by containment",
			text: "could you open camera",
			want: Command{Kind: KindOpenCamera},
		},
		{
			name: "camera by prefix",
			text: "camera please",
			want: Command{Kind: KindOpenCamera},
		},
		{
			name: "search on google",
			text: "search on google for cheap flights",
			want: Command{Kind: KindSearch, Query: "cheap flights"},
		},
		{
			name: "search for",
			text: "search for pasta recipes",
			want: Command{Kind: KindSearch, Query: "pasta recipes"},
		},
		{
			name: "dial strips formatting",
			text: "call 555-1234",
			want: Command{Kind: KindDial, Number: "5551234"},
		},
		{
			name: "dial keeps plus",
			text: "call +1 (555) 867-5309",
			want: Command{Kind: KindDial, Number: "+15558675309"},
		},
		{
			name: "dial without number still dials",
			text: "call the office",
			want: Command{Kind: KindDial, Number: ""},
		},
		{
			name: "send text full",
			text: "send text to mom saying running late",
			want: Command{Kind: KindSendText, Recipient: "mom", Body: "running late"},
		},
		{
			name: "send sms message separator",
			text: "send sms to bob message pick up milk",
			want: Command{Kind: KindSendText, Recipient: "bob", Body: "pick up milk"},
		},
		{
			name: "send text that separator",
			text: "send text to sam that the meeting moved",
			want: Command{Kind: KindSendText, Recipient: "sam", Body: "the meeting moved"},
		},
		{
			name: "send text without recipient",
			text: "send text now",
			want: Command{Kind: KindSendText},
		},
		{
			name: "send text without body",
			text: "send text to dad",
			want: Command{Kind: KindSendText, Recipient: "dad"},
		},
		{
			name: "calendar event by containment",
			text: "please add calendar event dentist on friday",
			want: Command{Kind: KindAddCalendarEvent, Title: "please add calendar event dentist on friday"},
		},
		{
			name: "calendar event by prefix",
			text: "create event team lunch",
			want: Command{Kind: KindAddCalendarEvent, Title: "create event team lunch"},
		},
		{
			name: "play music",
			text: "can you play music",
			want: Command{Kind: KindPlayMusic},
		},
		{
			name: "set alarm with time",
			text: "set alarm for 6:30",
			want: Command{Kind: KindSetAlarm, Hour: 6, Minute: 30},
		},
		{
			name: "set alarm without time falls back",
			text: "set alarm",
			want: Command{Kind: KindSetAlarm, Hour: 7, Minute: 0},
		},
		{
			name: "wake me without colon falls back",
			text: "wake me at 6",
			want: Command{Kind: KindSetAlarm, Hour: 7, Minute: 0},
		},
		{
			name: "tell time",
			text: "what time is it",
			want: Command{Kind: KindTellTime},
		},
		{
			name: "tell time current",
			text: "give me the current time",
			want: Command{Kind: KindTellTime},
		},
		{
			name: "tell date",
			text: "what's today's date",
			want: Command{Kind: KindTellDate},
		},
		{
			name: "unrecognized",
			text: "tell me a joke",
			want: Command{Kind: KindUnrecognized},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.text)
			tc.want.Raw = tc.text
			if got != tc.want {
				t.Fatalf("Classify(%q) = %+v, want %+v", tc.text, got, tc.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	inputs := []string{"open whatsapp", "CALL 911", "set alarm for 12:45", "zzz", ""}
	for _, text := range inputs {
		first := Classify(text)
		for i := 0; i < 3; i++ {
			if got := Classify(text); got != first {
				t.Fatalf("Classify(%q) not deterministic: %+v vs %+v", text, got, first)
			}
		}
	}
}

func TestClassifyTotal(t *testing.T) {
	// Every input maps to some variant; the fallback is Unrecognized with the
	// original text preserved.
	inputs := []string{
		"", "   ", "open", "call", "send", "to saying that",
		"set alarm ::", "search for ", "¡hola!", "open  ", "wake me",
	}
	for _, text := range inputs {
		got := Classify(text)
		if got.Raw != text {
			t.Fatalf("Classify(%q) lost raw text: %+v", text, got)
		}
		if got.Kind < KindUnrecognized || got.Kind > KindTellDate {
			t.Fatalf("Classify(%q) produced invalid kind %d", text, got.Kind)
		}
	}
}

func TestResolveApp(t *testing.T) {
	if got := ResolveApp("the whatsapp app"); got != "com.whatsapp" {
		t.Fatalf("expected whatsapp alias, got %q", got)
	}
	if got := ResolveApp("Instagram"); got != "com.instagram.android" {
		t.Fatalf("expected instagram alias, got %q", got)
	}
	if got := ResolveApp("org.example.custom"); got != "org.example.custom" {
		t.Fatalf("expected literal passthrough, got %q", got)
	}
}
