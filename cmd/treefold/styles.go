package main

import "github.com/charmbracelet/lipgloss"

// Styles holds the rendered row styles derived from the theme.
type Styles struct {
	Cursor    lipgloss.Style
	Directory lipgloss.Style
	File      lipgloss.Style
	Chain     lipgloss.Style
	Status    lipgloss.Style
	Help      lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Cursor:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Cursor)).Bold(true),
		Directory: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Directory)),
		File:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.File)),
		Chain:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.Chain)),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Status)),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Status)).Italic(true),
	}
}
