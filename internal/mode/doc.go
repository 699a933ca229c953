// Package mode implements the editor's modal state machine.
//
// The mode set is closed: Edit, Command, and Select. Input dispatch is
// a single table keyed by (Mode, key.Class); there is no open-ended
// handler registration. Edit routes keystrokes into buffer mutation,
// Command buffers a command line and never touches the buffer, Select
// extends the cursor's anchor through motions. Transitions not present
// in the table are no-ops, never errors, and the controller has no
// terminal state.
package mode
