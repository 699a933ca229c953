package buffer

// Option configures a Buffer at construction time.
type Option func(*Buffer)

// WithTabWidth sets the buffer's tab width.
// Values below 1 are ignored.
func WithTabWidth(width int) Option {
	return func(b *Buffer) {
		if width >= 1 {
			b.tabWidth = width
		}
	}
}
