package main

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/treefold/treefold/cmd/treefold/logger"
)

// dirChangedMsg reports that a watched directory's listing may have changed.
type dirChangedMsg struct {
	dir string
}

type watchErrMsg struct {
	err error
}

// waitForChange blocks on the watcher and converts the next structural event
// into a message. Writes are skipped: file content changes never move rows.
func waitForChange(w *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("fs event", "op", ev.Op.String(), "path", ev.Name)
				return dirChangedMsg{dir: filepath.Dir(ev.Name)}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}
