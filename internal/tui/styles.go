package tui

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Palette, ANSI 256 so it renders the same in every terminal.
var (
	colorAccent  = lipgloss.Color("212")
	colorText    = lipgloss.Color("15")
	colorSubtle  = lipgloss.Color("247")
	colorMuted   = lipgloss.Color("241")
	colorSuccess = lipgloss.Color("42")
	colorError   = lipgloss.Color("203")
	colorInverse = lipgloss.Color("0")
)

// Styles holds the lipgloss styles shared by the dialogs and the command
// summaries.
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Path    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style

	// Dialogs
	Cursor            lipgloss.Style
	Checked           lipgloss.Style
	ConfirmPrompt     lipgloss.Style
	ConfirmSelected   lipgloss.Style
	ConfirmUnselected lipgloss.Style
}

var (
	stylesOnce sync.Once
	styles     Styles
)

// GetStyles returns the shared styles.
func GetStyles() *Styles {
	stylesOnce.Do(func() {
		styles = buildStyles()
	})
	return &styles
}

func buildStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Label:   lipgloss.NewStyle().Foreground(colorSubtle),
		Value:   lipgloss.NewStyle().Foreground(colorText),
		Path:    lipgloss.NewStyle().Foreground(colorText).Underline(true),
		Muted:   lipgloss.NewStyle().Foreground(colorMuted),
		Success: lipgloss.NewStyle().Bold(true).Foreground(colorSuccess),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(colorError),

		Cursor:        lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Checked:       lipgloss.NewStyle().Foreground(colorSuccess),
		ConfirmPrompt: lipgloss.NewStyle().Bold(true).Foreground(colorText),
		ConfirmSelected: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorInverse).
			Background(colorAccent).
			Padding(0, 2),
		ConfirmUnselected: lipgloss.NewStyle().
			Foreground(colorSubtle).
			Padding(0, 2),
	}
}
