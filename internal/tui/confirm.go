// Package tui provides the interactive dialogs of adeptkey: the key picker
// and a yes/no confirmation.
package tui

import (
	"fmt"
	"io"
	"os"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/wethinkt/go-adeptkey/internal/i18n"
)

// ConfirmResult represents the outcome of a confirmation dialog.
type ConfirmResult int

const (
	ConfirmYes ConfirmResult = iota
	ConfirmNo
	ConfirmCancelled
)

// ConfirmOptions configures the confirm dialog.
type ConfirmOptions struct {
	Prompt      string    // The question to ask
	Affirmative string    // Text for yes button (default localized "Yes")
	Negative    string    // Text for no button (default localized "No")
	Default     bool      // Default selection (true = affirmative)
	Input       io.Reader // Defaults to os.Stdin
	Output      io.Writer // Defaults to os.Stderr so stdout stays clean
}

// Confirm displays an interactive confirmation dialog and returns the result.
func Confirm(opts ConfirmOptions) (ConfirmResult, error) {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	p := tea.NewProgram(newConfirmModel(opts), tea.WithInput(opts.Input), tea.WithOutput(opts.Output))
	finalModel, err := p.Run()
	if err != nil {
		return ConfirmCancelled, err
	}
	return finalModel.(confirmModel).result, nil
}

type confirmModel struct {
	prompt      string
	affirmative string
	negative    string
	selection   bool // true = affirmative selected
	result      ConfirmResult
	quitting    bool
	keys        confirmKeyMap
	styles      *Styles
}

type confirmKeyMap struct {
	Toggle      key.Binding
	Submit      key.Binding
	Affirmative key.Binding
	Negative    key.Binding
	Quit        key.Binding
	Abort       key.Binding
}

func defaultConfirmKeyMap() confirmKeyMap {
	return confirmKeyMap{
		Toggle:      key.NewBinding(key.WithKeys("left", "right", "h", "l", "tab", "shift+tab")),
		Submit:      key.NewBinding(key.WithKeys("enter")),
		Affirmative: key.NewBinding(key.WithKeys("y", "Y", "j", "J")),
		Negative:    key.NewBinding(key.WithKeys("n", "N")),
		Quit:        key.NewBinding(key.WithKeys("q", "esc")),
		Abort:       key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func newConfirmModel(opts ConfirmOptions) confirmModel {
	if opts.Affirmative == "" {
		opts.Affirmative = i18n.T("tui.confirm.yes", "Yes")
	}
	if opts.Negative == "" {
		opts.Negative = i18n.T("tui.confirm.no", "No")
	}
	return confirmModel{
		prompt:      opts.Prompt,
		affirmative: opts.Affirmative,
		negative:    opts.Negative,
		selection:   opts.Default,
		result:      ConfirmCancelled,
		keys:        defaultConfirmKeyMap(),
		styles:      GetStyles(),
	}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) finish(r ConfirmResult, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.result = r
	m.quitting = true
	return m, cmd
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(km, m.keys.Abort):
		return m.finish(ConfirmCancelled, tea.Interrupt)
	case key.Matches(km, m.keys.Quit):
		return m.finish(ConfirmCancelled, tea.Quit)
	case key.Matches(km, m.keys.Affirmative):
		return m.finish(ConfirmYes, tea.Quit)
	case key.Matches(km, m.keys.Negative):
		return m.finish(ConfirmNo, tea.Quit)
	case key.Matches(km, m.keys.Toggle):
		m.selection = !m.selection
	case key.Matches(km, m.keys.Submit):
		if m.selection {
			return m.finish(ConfirmYes, tea.Quit)
		}
		return m.finish(ConfirmNo, tea.Quit)
	}
	return m, nil
}

func (m confirmModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	return tea.NewView(m.render())
}

func (m confirmModel) render() string {
	aff, neg := m.styles.ConfirmUnselected, m.styles.ConfirmSelected
	if m.selection {
		aff, neg = neg, aff
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, aff.Render(m.affirmative), "  ", neg.Render(m.negative))

	return fmt.Sprintf("\n%s\n\n%s\n", m.styles.ConfirmPrompt.Render(m.prompt), buttons)
}
