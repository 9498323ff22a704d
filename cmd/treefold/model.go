package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/treefold/treefold/cmd/treefold/logger"
	"github.com/treefold/treefold/pkg/tree"
)

// filterState is shared between the model value and the tree filter closure
// so the hidden-files toggle survives bubbletea's value copies.
type filterState struct {
	showHidden bool
}

// Model is the bubbletea model. The tree holds absolute paths; directories
// are loaded one level at a time on expand, except that lone-child chains
// load eagerly so they render as a single folded row.
type Model struct {
	root    string
	styles  Styles
	keys    KeyMap
	scan    *scanner
	tree    *tree.CompressedModel[string]
	filter  *filterState
	loaded  map[string]bool
	kinds   map[string]bool
	watcher *fsnotify.Watcher

	cursor int
	vp     viewport.Model
	ready  bool
	status string
}

func NewModel(root string, cfg Config) (Model, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return Model{}, fmt.Errorf("start watcher: %w", err)
	}

	fs := &filterState{showHidden: cfg.ShowHidden}
	m := Model{
		root:    root,
		styles:  NewStyles(cfg.Theme),
		keys:    DefaultKeyMap(),
		scan:    newScanner(root),
		filter:  fs,
		loaded:  make(map[string]bool),
		kinds:   make(map[string]bool),
		watcher: watcher,
	}
	m.tree = tree.NewCompressedModel[string](tree.CompressedModelOptions[string]{
		CollapseByDefault: true,
		Filter: func(n *tree.CompressedNode[string]) bool {
			if fs.showHidden {
				return true
			}
			for _, p := range n.Elements {
				if hiddenWithin(root, p) {
					return false
				}
			}
			return true
		},
	})
	if err := m.loadDir(root); err != nil {
		watcher.Close()
		return Model{}, err
	}
	return m, nil
}

// Close releases the watcher. Safe after tea.Quit.
func (m Model) Close() error { return m.watcher.Close() }

func (m Model) Init() tea.Cmd { return waitForChange(m.watcher) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		vpHeight := msg.Height - chromeHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.vp = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = vpHeight
		}
		m.syncViewport()
		return m, nil

	case dirChangedMsg:
		m.refreshDir(msg.dir)
		m.clampCursor()
		m.syncViewport()
		return m, waitForChange(m.watcher)

	case watchErrMsg:
		m.status = "watch error: " + msg.err.Error()
		logger.Error("watcher failed", "error", msg.err)
		return m, waitForChange(m.watcher)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.watcher.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.cursor--
	case key.Matches(msg, m.keys.Down):
		m.cursor++
	case key.Matches(msg, m.keys.Expand):
		m.expandCursor()
	case key.Matches(msg, m.keys.Collapse):
		m.collapseCursor()
	case key.Matches(msg, m.keys.Toggle):
		m.toggleCursor()
	case key.Matches(msg, m.keys.CollapseAll):
		m.collapseAll()
		m.cursor = 0
	case key.Matches(msg, m.keys.Refresh):
		if err := m.loadDir(m.root); err != nil {
			m.status = "refresh failed: " + err.Error()
		} else {
			m.status = "refreshed"
		}
	case key.Matches(msg, m.keys.CopyPath):
		m.copyCursorPath()
	case key.Matches(msg, m.keys.ToggleHidden):
		m.filter.showHidden = !m.filter.showHidden
		m.tree.Refilter()
		if m.filter.showHidden {
			m.status = "showing hidden files"
		} else {
			m.status = "hiding hidden files"
		}
	}
	m.clampCursor()
	m.syncViewport()
	return m, nil
}

// loadDir lists path into the model. Directories already loaded below it are
// re-listed too, so the call doubles as a refresh that keeps expanded
// content in place. Rebuilt runs come back collapsed-by-default, so each
// loaded directory's collapse state is captured first and restored after.
func (m *Model) loadDir(path string) error {
	wasLoaded := m.loaded[path]
	m.loaded[path] = true

	collapsed := make(map[string]bool, len(m.loaded))
	for d := range m.loaded {
		if c, err := m.tree.IsCollapsed(d); err == nil {
			collapsed[d] = c
		}
	}

	target := path
	if path == m.root {
		target = ""
	}
	children := m.scan.elements(path, func(d string) bool { return m.loaded[d] })
	if _, err := m.tree.SetChildren(target, children, nil, m.pruneDeleted); err != nil {
		if !wasLoaded {
			delete(m.loaded, path)
		}
		return err
	}
	for d, c := range collapsed {
		if !m.tree.Has(d) {
			continue
		}
		if cur, err := m.tree.IsCollapsed(d); err == nil && cur != c {
			if _, err := m.tree.SetCollapsed(d, c, false); err != nil {
				logger.Warn("restore collapse state failed", "dir", d, "error", err)
			}
		}
	}

	m.watch(path)
	for _, e := range m.scan.list(path) {
		if !e.isDir || e.symlink {
			continue
		}
		chain := m.scan.chainedDirs(e.path)
		for _, d := range chain[:len(chain)-1] {
			m.loaded[d] = true
			m.watch(d)
		}
	}
	return nil
}

func (m *Model) watch(dir string) {
	if err := m.watcher.Add(dir); err != nil {
		logger.Warn("watch failed", "dir", dir, "error", err)
	}
}

// pruneDeleted drops index state for elements that really left the model.
// An element can reappear in a different run within the same edit, so
// presence is checked rather than assumed.
func (m *Model) pruneDeleted(n *tree.Node[*tree.CompressedNode[string]]) {
	for _, p := range n.Element().Elements {
		if m.tree.Has(p) {
			continue
		}
		if m.loaded[p] {
			delete(m.loaded, p)
			m.watcher.Remove(p)
		}
		delete(m.kinds, p)
	}
}

// refreshDir re-lists a directory after a filesystem event. Events for
// unloaded directories are ignored; their content loads on expand.
func (m *Model) refreshDir(dir string) {
	if !m.loaded[dir] {
		return
	}
	if dir != m.root && !m.tree.Has(dir) {
		return
	}
	if err := m.loadDir(dir); err != nil {
		logger.Warn("refresh failed", "dir", dir, "error", err)
		m.status = "refresh failed: " + err.Error()
	}
}

func (m *Model) expandCursor() {
	n := m.currentNode()
	if n == nil {
		return
	}
	tip := n.Element().Last()
	if !m.isDir(tip) {
		return
	}
	if !m.loaded[tip] {
		if err := m.loadDir(tip); err != nil {
			m.status = "expand failed: " + err.Error()
			return
		}
	}
	if _, err := m.tree.SetCollapsed(tip, false, false); err != nil {
		logger.Warn("expand failed", "path", tip, "error", err)
	}
}

func (m *Model) collapseCursor() {
	n := m.currentNode()
	if n == nil {
		return
	}
	run := n.Element()
	if n.Collapsible() && !n.Collapsed() {
		if _, err := m.tree.SetCollapsed(run.Last(), true, false); err != nil {
			logger.Warn("collapse failed", "path", run.Last(), "error", err)
		}
		return
	}
	// Already collapsed, jump to the parent row instead.
	parent, err := m.tree.GetParentElement(run.First())
	if err != nil || parent == "" {
		return
	}
	if idx, err := m.tree.GetListIndex(parent); err == nil && idx >= 0 {
		m.cursor = idx
	}
}

func (m *Model) toggleCursor() {
	n := m.currentNode()
	if n == nil {
		return
	}
	tip := n.Element().Last()
	if n.Collapsible() {
		if _, err := m.tree.SetCollapsed(tip, !n.Collapsed(), false); err != nil {
			logger.Warn("toggle failed", "path", tip, "error", err)
		}
		return
	}
	if m.isDir(tip) && !m.loaded[tip] {
		m.expandCursor()
	}
}

func (m *Model) collapseAll() {
	// Collapsing reshuffles the row slice, so pick targets first.
	var tops []string
	for _, n := range m.tree.VisibleNodes() {
		if n.Depth() == 0 && n.Collapsible() {
			tops = append(tops, n.Element().Last())
		}
	}
	for _, tip := range tops {
		if _, err := m.tree.SetCollapsed(tip, true, true); err != nil {
			logger.Warn("collapse all failed", "path", tip, "error", err)
		}
	}
}

func (m *Model) copyCursorPath() {
	n := m.currentNode()
	if n == nil {
		return
	}
	path := n.Element().Last()
	if err := clipboard.WriteAll(path); err != nil {
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = "copied " + m.relLabel(path)
}

func (m Model) currentNode() *tree.Node[*tree.CompressedNode[string]] {
	rows := m.tree.VisibleNodes()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return nil
	}
	return rows[m.cursor]
}

func (m *Model) clampCursor() {
	last := len(m.tree.VisibleNodes()) - 1
	if m.cursor > last {
		m.cursor = last
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// isDir classifies a path, caching stat results. Entries pruned from the
// model also leave the cache, so a path that changes kind re-stats.
func (m Model) isDir(path string) bool {
	if v, ok := m.kinds[path]; ok {
		return v
	}
	info, err := os.Stat(path)
	v := err == nil && info.IsDir()
	m.kinds[path] = v
	return v
}

// relLabel shortens a path for the status line.
func (m Model) relLabel(path string) string {
	if rel, err := filepath.Rel(m.root, path); err == nil {
		return rel
	}
	return path
}
