// Package ux renders the benchmark to the terminal.
package ux

import "github.com/charmbracelet/lipgloss"

// Style names a role in the console output.
type Style int

const (
	StylePlain Style = iota
	StyleHeader
	StyleSection
	StyleSuccess
	StyleError
	StyleWarning
	StyleInfo
	StyleBar
	StyleBold
)

var (
	colorHeader  = lipgloss.Color("#D787FF")
	colorSection = lipgloss.Color("#F4D03F")
	colorSuccess = lipgloss.Color("#2CD7C7")
	colorError   = lipgloss.Color("#E74C3C")
	colorInfo    = lipgloss.Color("#5FD7FF")
	colorBar     = lipgloss.Color("#5F87FF")
)

// styleTable returns a fresh table on every call so callers cannot mutate
// shared state.
func styleTable() map[Style]lipgloss.Style {
	return map[Style]lipgloss.Style{
		StylePlain:   lipgloss.NewStyle(),
		StyleHeader:  lipgloss.NewStyle().Bold(true).Foreground(colorHeader),
		StyleSection: lipgloss.NewStyle().Bold(true).Foreground(colorSection),
		StyleSuccess: lipgloss.NewStyle().Foreground(colorSuccess),
		StyleError:   lipgloss.NewStyle().Foreground(colorError),
		StyleWarning: lipgloss.NewStyle().Foreground(colorSection),
		StyleInfo:    lipgloss.NewStyle().Foreground(colorInfo),
		StyleBar:     lipgloss.NewStyle().Foreground(colorBar),
		StyleBold:    lipgloss.NewStyle().Bold(true),
	}
}

// Theme maps styles to their lipgloss rendering.
type Theme struct {
	styles map[Style]lipgloss.Style
	plain  bool
}

// NewTheme returns the default theme. A plain theme renders text unchanged,
// which keeps files and pipes free of escape codes.
func NewTheme(plain bool) Theme {
	return Theme{styles: styleTable(), plain: plain}
}

func (t Theme) Render(s Style, text string) string {
	if t.plain {
		return text
	}
	st, ok := t.styles[s]
	if !ok {
		return text
	}
	return st.Render(text)
}
