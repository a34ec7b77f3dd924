package tui

import (
	"github.com/charmbracelet/lipgloss"

	"projectintel/internal/model"
)

var (
	colorPrimary = lipgloss.Color("#101F38")
	colorAccent  = lipgloss.Color("#8BC34A")
	colorMuted   = lipgloss.Color("#8a94a6")
	colorBad     = lipgloss.Color("#e53935")
	colorWarn    = lipgloss.Color("#FFC107")
	colorInfo    = lipgloss.Color("#2196F3")
)

// Styles 终端界面样式
type Styles struct {
	Header  lipgloss.Style
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Body    lipgloss.Style
	OK      lipgloss.Style
	Warn    lipgloss.Style
	Bad     lipgloss.Style
	Info    lipgloss.Style
	Badge   lipgloss.Style
	Footer  lipgloss.Style
	Divider lipgloss.Style
}

// DefaultStyles 默认样式
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(colorPrimary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true),
		Muted: lipgloss.NewStyle().Foreground(colorMuted),
		Bold:  lipgloss.NewStyle().Bold(true),
		Body:  lipgloss.NewStyle(),
		OK:    lipgloss.NewStyle().Foreground(colorAccent).Bold(true),
		Warn:  lipgloss.NewStyle().Foreground(colorWarn).Bold(true),
		Bad:   lipgloss.NewStyle().Foreground(colorBad).Bold(true),
		Info:  lipgloss.NewStyle().Foreground(colorInfo),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorInfo).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 2),
		Divider: lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// Alert 按预警级别渲染文本
func (s Styles) Alert(a model.StageAlert) string {
	switch a.Kind {
	case model.AlertOK:
		return s.OK.Render(a.Text)
	case model.AlertWarn:
		return s.Warn.Render(a.Text)
	case model.AlertBad:
		return s.Bad.Render(a.Text)
	default:
		return s.Muted.Render("-")
	}
}
