package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"folio/internal/adapters/tui/styles"
)

// FormKeyMap defines key bindings shared by text forms
type FormKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
	Next   key.Binding
	Prev   key.Binding
}

// FormKeys are the form bindings
var FormKeys = FormKeyMap{
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
}

type formField struct {
	label string
	input textinput.Model
}

// newField builds a labelled input; limit 0 keeps the textinput default
func newField(label, placeholder string, limit int) formField {
	in := textinput.New()
	in.Placeholder = placeholder
	if limit > 0 {
		in.CharLimit = limit
	}
	return formField{label: label, input: in}
}

// Form is a column of labelled text inputs with exactly one focused
type Form struct {
	fields []formField
	focus  int
}

// NewForm focuses the first field
func NewForm(fields ...formField) *Form {
	f := &Form{fields: fields}
	f.focusAt(0)
	return f
}

// Init starts the cursor blink
func (f *Form) Init() tea.Cmd {
	return textinput.Blink
}

// Focused returns the index of the focused field
func (f *Form) Focused() int {
	return f.focus
}

// Update moves focus on next/prev and feeds everything else to the focused input
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, FormKeys.Next):
			f.focusAt(f.focus + 1)
			return nil
		case key.Matches(k, FormKeys.Prev):
			f.focusAt(f.focus - 1)
			return nil
		}
	}
	if len(f.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *Form) focusAt(i int) {
	n := len(f.fields)
	if n == 0 {
		return
	}
	f.focus = (i%n + n) % n
	for j := range f.fields {
		if j == f.focus {
			f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
}

// Value returns the trimmed text of a field
func (f *Form) Value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return strings.TrimSpace(f.fields[i].input.Value())
}

// List splits a comma separated field, dropping blanks
func (f *Form) List(i int) []string {
	var out []string
	for _, part := range strings.Split(f.Value(i), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Reset empties every field and focuses the first
func (f *Form) Reset() {
	for i := range f.fields {
		f.fields[i].input.SetValue("")
	}
	f.focusAt(0)
}

// View renders the fields, the focused one highlighted
func (f *Form) View() string {
	rows := make([]string, 0, len(f.fields))
	for i, fld := range f.fields {
		style := styles.InputField
		if i == f.focus {
			style = styles.InputFocused
		}
		rows = append(rows, styles.InputLabel.Render(fld.label)+"\n"+style.Render(fld.input.View()))
	}
	return strings.Join(rows, "\n")
}
