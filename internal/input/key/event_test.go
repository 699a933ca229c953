package key

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want Class
	}{
		{"letter", NewRuneEvent('a', ModNone), ClassText},
		{"shifted letter", NewRuneEvent('A', ModShift), ClassText},
		{"space", NewRuneEvent(' ', ModNone), ClassText},
		{"tab", NewSpecialEvent(KeyTab, ModNone), ClassText},
		{"ctrl chord", NewRuneEvent('z', ModCtrl), ClassControl},
		{"alt chord", NewRuneEvent('x', ModAlt), ClassControl},
		{"escape", NewSpecialEvent(KeyEscape, ModNone), ClassEscape},
		{"enter", NewSpecialEvent(KeyEnter, ModNone), ClassEnter},
		{"backspace", NewSpecialEvent(KeyBackspace, ModNone), ClassBackspace},
		{"delete", NewSpecialEvent(KeyDelete, ModNone), ClassDelete},
		{"arrow", NewSpecialEvent(KeyLeft, ModNone), ClassMotion},
		{"home", NewSpecialEvent(KeyHome, ModNone), ClassMotion},
		{"zero rune", Event{Key: KeyRune}, ClassNone},
	}

	for _, tt := range tests {
		if got := tt.ev.Classify(); got != tt.want {
			t.Errorf("%s: Classify() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEventString(t *testing.T) {
	tests := []struct {
		ev   Event
		want string
	}{
		{NewRuneEvent('a', ModNone), "a"},
		{NewRuneEvent('z', ModCtrl), "C-z"},
		{NewRuneEvent(' ', ModNone), "Space"},
		{NewSpecialEvent(KeyEscape, ModNone), "Esc"},
		{NewSpecialEvent(KeyEnter, ModCtrl), "C-Enter"},
	}

	for _, tt := range tests {
		if got := tt.ev.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
