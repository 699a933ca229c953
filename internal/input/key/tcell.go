package key

import (
	"github.com/gdamore/tcell/v2"
)

// FromTcell normalizes a tcell key event.
// Unrecognized keys come back as ClassNone events and are ignored
// upstream.
func FromTcell(ev *tcell.EventKey) Event {
	mods := ModNone
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods |= ModCtrl
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods |= ModAlt
	}
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= ModShift
	}

	switch ev.Key() {
	case tcell.KeyRune:
		return Event{Key: KeyRune, Rune: ev.Rune(), Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyEscape:
		return Event{Key: KeyEscape, Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyEnter:
		return Event{Key: KeyEnter, Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyTab:
		return Event{Key: KeyTab, Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return Event{Key: KeyBackspace, Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyDelete:
		return Event{Key: KeyDelete, Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyUp:
		return Event{Key: KeyUp, Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyDown:
		return Event{Key: KeyDown, Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyLeft:
		return Event{Key: KeyLeft, Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyRight:
		return Event{Key: KeyRight, Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyHome:
		return Event{Key: KeyHome, Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyEnd:
		return Event{Key: KeyEnd, Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyPgUp:
		return Event{Key: KeyPgUp, Modifiers: mods, Timestamp: ev.When()}
	case tcell.KeyPgDn:
		return Event{Key: KeyPgDn, Modifiers: mods, Timestamp: ev.When()}
	}

	// Ctrl-letter chords arrive as dedicated tcell key codes.
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		r := rune('a' + (k - tcell.KeyCtrlA))
		return Event{Key: KeyRune, Rune: r, Modifiers: mods | ModCtrl, Timestamp: ev.When()}
	}

	return Event{Key: KeyRune, Modifiers: mods, Timestamp: ev.When()}
}
