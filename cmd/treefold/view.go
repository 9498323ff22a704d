package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/treefold/treefold/pkg/tree"
)

// Lines used by the header, status line, and help line.
const chromeHeight = 4

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	var b strings.Builder
	b.WriteString(m.styles.Directory.Bold(true).Render(m.root))
	b.WriteString("\n\n")
	b.WriteString(m.vp.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Status.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.helpLine()))
	return b.String()
}

// syncViewport rebuilds the row content and scrolls the cursor into view.
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}
	rows := m.tree.VisibleNodes()
	lines := make([]string, len(rows))
	for i, n := range rows {
		lines[i] = m.renderRow(n, i == m.cursor)
	}
	m.vp.SetContent(strings.Join(lines, "\n"))

	if m.cursor < m.vp.YOffset {
		m.vp.SetYOffset(m.cursor)
	} else if m.cursor >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(m.cursor - m.vp.Height + 1)
	}
}

func (m Model) renderRow(n *tree.Node[*tree.CompressedNode[string]], selected bool) string {
	p := buildRowProps(n, m.loaded, m.isDir)

	indent := strings.Repeat("  ", p.Depth)
	label := p.Label
	style := m.styles.File
	switch {
	case len(n.Element().Elements) > 1:
		style = m.styles.Chain
	case p.IsDir:
		style = m.styles.Directory
	}

	prefix := "  "
	if selected {
		prefix = m.styles.Cursor.Render("> ")
		style = m.styles.Cursor
	}
	return prefix + indent + p.Icon + " " + style.Render(label)
}

func (m Model) statusLine() string {
	if m.status != "" {
		return m.status
	}
	rows := m.tree.VisibleNodes()
	if n := m.currentNode(); n != nil {
		return m.relLabel(n.Element().Last())
	}
	if len(rows) == 0 {
		return "empty"
	}
	return ""
}

func (m Model) helpLine() string {
	bindings := []key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Expand, m.keys.Collapse,
		m.keys.CollapseAll, m.keys.Refresh, m.keys.CopyPath,
		m.keys.ToggleHidden, m.keys.Quit,
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}
