package key

import "strings"

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
)

// HasCtrl returns true if Ctrl is held.
func (m Modifier) HasCtrl() bool { return m&ModCtrl != 0 }

// HasAlt returns true if Alt is held.
func (m Modifier) HasAlt() bool { return m&ModAlt != 0 }

// HasShift returns true if Shift is held.
func (m Modifier) HasShift() bool { return m&ModShift != 0 }

// String returns the modifier prefix, e.g. "C-", "C-A-".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}
	var b strings.Builder
	if m.HasCtrl() {
		b.WriteString("C-")
	}
	if m.HasAlt() {
		b.WriteString("A-")
	}
	if m.HasShift() {
		b.WriteString("S-")
	}
	return b.String()
}
