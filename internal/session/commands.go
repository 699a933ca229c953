package session

import (
	"errors"
	"fmt"
	"strings"
)

// Command errors surfaced on the status line.
var (
	ErrUnsavedChanges = errors.New("unsaved changes (add ! to override)")
	ErrNoFileName     = errors.New("no file name")
)

// ExecuteCommand runs a completed command line. The grammar is the
// usual ex-style set: w [path], q, q!, wq, e[!] path.
func (s *Session) ExecuteCommand(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case "w", "write":
		path := s.path
		if len(args) > 0 {
			path = args[0]
		}
		return s.saveLocked(path)

	case "q", "quit":
		return s.quitLocked(false)

	case "q!", "quit!":
		return s.quitLocked(true)

	case "wq", "x":
		if err := s.saveLocked(s.path); err != nil {
			return err
		}
		return s.quitLocked(false)

	case "e", "edit", "e!", "edit!":
		if len(args) == 0 {
			return ErrNoFileName
		}
		force := strings.HasSuffix(name, "!")
		return s.editLocked(args[0], force)

	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

func (s *Session) quitLocked(force bool) error {
	if s.dirty && !force {
		return ErrUnsavedChanges
	}
	s.quit = true
	return nil
}
