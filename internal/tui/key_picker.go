package tui

import (
	"io"
	"os"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/wethinkt/go-adeptkey/internal/i18n"
)

// KeyOption is one recovered key offered in the picker.
type KeyOption struct {
	Name   string
	Detail string // e.g. "1218 bytes"
}

// maxNameWidth caps the name column in terminal cells.
const maxNameWidth = 48

// KeyPickerResult holds the result of the key picker.
type KeyPickerResult struct {
	Selected  []int // indices into the options, ascending
	Cancelled bool
}

// KeyPickerModel lets the user choose which keys to save. All keys start
// selected.
type KeyPickerModel struct {
	title    string
	options  []KeyOption
	checked  []bool
	cursor   int
	result   KeyPickerResult
	quitting bool
	styles   *Styles
}

// NewKeyPickerModel creates a key picker.
func NewKeyPickerModel(title string, options []KeyOption) KeyPickerModel {
	checked := make([]bool, len(options))
	for i := range checked {
		checked[i] = true
	}
	return KeyPickerModel{
		title:   title,
		options: options,
		checked: checked,
		styles:  GetStyles(),
	}
}

func (m KeyPickerModel) Init() tea.Cmd { return nil }

func (m KeyPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok || len(m.options) == 0 {
		if ok {
			m.result.Cancelled = true
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}
	keys := keyPickerKeyMap()

	switch {
	case key.Matches(km, keys.Up):
		m.cursor = (m.cursor - 1 + len(m.options)) % len(m.options)

	case key.Matches(km, keys.Down):
		m.cursor = (m.cursor + 1) % len(m.options)

	case key.Matches(km, keys.Toggle):
		m.checked[m.cursor] = !m.checked[m.cursor]

	case key.Matches(km, keys.All):
		all := !m.allChecked()
		for i := range m.checked {
			m.checked[i] = all
		}

	case key.Matches(km, keys.Quit):
		m.result.Cancelled = true
		m.quitting = true
		return m, tea.Quit

	case key.Matches(km, keys.Enter):
		m.result.Selected = m.selected()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m KeyPickerModel) allChecked() bool {
	for _, c := range m.checked {
		if !c {
			return false
		}
	}
	return true
}

// selected returns the checked indices, or the cursor row when nothing is
// checked.
func (m KeyPickerModel) selected() []int {
	var out []int
	for i, c := range m.checked {
		if c {
			out = append(out, i)
		}
	}
	if len(out) == 0 {
		out = []int{m.cursor}
	}
	return out
}

func (m KeyPickerModel) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	return tea.NewView(m.render())
}

func (m KeyPickerModel) render() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n\n")

	nameCol := 0
	for _, o := range m.options {
		nameCol = max(nameCol, ansi.StringWidth(o.Name))
	}
	nameCol = min(nameCol, maxNameWidth)

	for i, o := range m.options {
		if i == m.cursor {
			b.WriteString(m.styles.Cursor.Render("> "))
		} else {
			b.WriteString("  ")
		}

		if m.checked[i] {
			b.WriteString(m.styles.Checked.Render("[x] "))
		} else {
			b.WriteString("[ ] ")
		}

		name := ansi.Truncate(o.Name, nameCol, "…")
		name += strings.Repeat(" ", nameCol-ansi.StringWidth(name))
		if i == m.cursor {
			b.WriteString(m.styles.Value.Render(name))
		} else {
			b.WriteString(m.styles.Label.Render(name))
		}
		b.WriteString("  ")
		b.WriteString(m.styles.Muted.Render(o.Detail))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Muted.Render("  " + i18n.T("tui.keyPicker.help", "↑/↓ navigate • space toggle • a all • enter save • esc cancel")))
	return b.String()
}

// Result returns the picker result.
func (m KeyPickerModel) Result() KeyPickerResult {
	return m.result
}

type keyPickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	Enter  key.Binding
	Quit   key.Binding
}

func keyPickerKeyMap() keyPickerKeys {
	return keyPickerKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k")),
		Down:   key.NewBinding(key.WithKeys("down", "j")),
		Toggle: key.NewBinding(key.WithKeys("space", "x")),
		All:    key.NewBinding(key.WithKeys("a")),
		Enter:  key.NewBinding(key.WithKeys("enter")),
		Quit:   key.NewBinding(key.WithKeys("esc", "q", "ctrl+c")),
	}
}

// PickKeys runs the picker on in/out and returns the chosen indices, or nil
// if the user cancelled.
func PickKeys(title string, options []KeyOption, in io.Reader, out io.Writer) ([]int, error) {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stderr
	}
	p := tea.NewProgram(NewKeyPickerModel(title, options), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	result := final.(KeyPickerModel).Result()
	if result.Cancelled {
		return nil, nil
	}
	return result.Selected, nil
}
