package views

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"folio/internal/application"
	"folio/internal/application/commands"
)

// Form field indexes
const (
	fieldName = iota
	fieldType
	fieldAuthor
	fieldSubtitle
)

var createSubmit = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "create"))

// CreateModel is the new project form
type CreateModel struct {
	ViewState
	creator *application.ProjectCreator
	form    *Form
	busy    bool
}

// NewCreateModel creates a new create view model
func NewCreateModel(creator *application.ProjectCreator) *CreateModel {
	return &CreateModel{
		creator: creator,
		form: NewForm(
			newField("Name", "The Long Winter", 120),
			newField("Type", "book, script, film or essay", 20),
			newField("Author", "Optional, comma separated", 200),
			newField("Subtitle", "Optional", 200),
		),
	}
}

// Reset clears the form for a new project
func (m *CreateModel) Reset() {
	m.form.Reset()
	m.busy = false
	m.ClearMessage()
}

// Init initializes the create view
func (m *CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

// CreatedMsg reports a new project
type CreatedMsg struct {
	ProjectPath string
	Message     string
}

// Update handles messages for the create view
func (m *CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case errMsg:
		m.busy = false
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, FormKeys.Cancel):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, FormKeys.Submit):
			if m.busy {
				return m, nil
			}
			m.busy = true
			return m, m.create()
		}
	}

	return m, m.form.Update(msg)
}

func (m *CreateModel) create() tea.Cmd {
	cmd := commands.NewCreateProjectCommand(m.creator, m.form.Value(fieldName), m.form.Value(fieldType))
	cmd.Authors = m.form.List(fieldAuthor)
	cmd.Subtitle = m.form.Value(fieldSubtitle)

	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return CreatedMsg{ProjectPath: result.Project.Path, Message: result.Message}
	}
}

// View renders the create view
func (m *CreateModel) View() string {
	v := NewViewBuilder().
		Title("New Project").
		Subtitle("Creates the folder, its config and the starter files for the type.")

	return v.Line(m.form.View()).
		Message(m.Message, m.MessageErr).
		Help(FormKeys.Next, FormKeys.Prev, createSubmit, FormKeys.Cancel).
		String()
}
