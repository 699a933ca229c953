// Package tui renders a session to a tcell screen and feeds terminal
// events back into it. One goroutine owns the screen; the render pass
// redraws the visible window after every handled event.
package tui
