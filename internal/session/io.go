package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/makoedit/mako/internal/engine/buffer"
	"github.com/makoedit/mako/internal/engine/cursor"
	"github.com/makoedit/mako/internal/highlight"
	"github.com/makoedit/mako/internal/workspace"
)

// Save writes the buffer to its backing file.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(s.path)
}

// saveLocked writes atomically: the content lands in a temp file in
// the target directory and is renamed over the destination, so a crash
// mid-write never truncates the original.
func (s *Session) saveLocked(path string) error {
	if path == "" {
		return ErrNoFileName
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".mako-*")
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(s.buf.Text()); err != nil {
		tmp.Close()
		return fmt.Errorf("save: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	s.path = path
	s.dirty = false
	s.notice = fmt.Sprintf("wrote %s", path)
	return nil
}

// editLocked replaces the session's document with the named file. The
// swap flows through the buffer as a whole-document replacement so the
// version stream stays monotonic for the bridge, then history and
// highlighting start fresh.
func (s *Session) editLocked(path string, force bool) error {
	if s.dirty && !force {
		return ErrUnsavedChanges
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	pre := s.buf.Snapshot()
	group := buffer.EditGroup{
		buffer.NewEdit(buffer.Range{Start: 0, End: s.buf.Len()}, text),
	}
	if _, err := s.buf.Apply(group); err != nil {
		return err
	}

	s.cursors.Set(cursor.At(0))
	s.hist.Clear()
	s.hl = highlight.New(highlight.Detect(path), s.hlOpts...)
	s.hl.Reset(s.buf)

	if s.bridge != nil {
		snap := s.buf.Snapshot()
		if err := s.bridge.DidChange(pre, snap, group); err != nil {
			s.logger.Warn("didChange not delivered", zap.Error(err))
		}
		if err := s.bridge.DidOpen(workspace.URI(path), s.hl.Language().Name, snap); err != nil {
			s.logger.Warn("didOpen not delivered", zap.Error(err))
		}
	}

	s.path = path
	s.dirty = false
	s.notice = fmt.Sprintf("opened %s", path)
	return nil
}
