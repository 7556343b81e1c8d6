package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"folio/internal/adapters/tui/styles"
	"folio/internal/application"
	"folio/internal/domain"
)

// ProjectsKeyMap defines key bindings for the project list
type ProjectsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	New    key.Binding
	Stats  key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var ProjectsKeys = ProjectsKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter", "l", "right"),
		key.WithHelp("enter", "open"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Stats: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stats"),
	),
	Reload: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rescan"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ProjectsModel lists the projects under the root
type ProjectsModel struct {
	ViewState
	workspace *application.Workspace
	root      string
	projects  []domain.Project
	loaded    bool
	pager     *Paginator
}

// NewProjectsModel creates the project list
func NewProjectsModel(workspace *application.Workspace, root string) *ProjectsModel {
	return &ProjectsModel{
		workspace: workspace,
		root:      root,
		pager:     NewPaginator(10),
	}
}

type projectsLoadedMsg struct {
	projects []domain.Project
}

// Init scans the root
func (m *ProjectsModel) Init() tea.Cmd {
	return m.load
}

// Reload rescans the root
func (m *ProjectsModel) Reload() tea.Cmd {
	return m.load
}

func (m *ProjectsModel) load() tea.Msg {
	return projectsLoadedMsg{projects: m.workspace.Refresh(context.Background())}
}

// Update handles messages for the project list
func (m *ProjectsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.pager.SetPageSize(m.pageSize(9))
		return m, nil

	case projectsLoadedMsg:
		m.projects = msg.projects
		m.loaded = true
		m.pager.SetTotal(len(m.projects))
		return m, nil

	case tea.KeyMsg:
		m.ClearMessage()

		switch {
		case key.Matches(msg, ProjectsKeys.Quit):
			return m, tea.Quit

		case key.Matches(msg, ProjectsKeys.Up):
			m.pager.CursorUp()

		case key.Matches(msg, ProjectsKeys.Down):
			m.pager.CursorDown()

		case key.Matches(msg, ProjectsKeys.Open):
			if p, ok := m.Selected(); ok {
				return m, func() tea.Msg { return SwitchToTreeMsg{ProjectPath: p.Path} }
			}

		case key.Matches(msg, ProjectsKeys.Stats):
			if p, ok := m.Selected(); ok {
				return m, func() tea.Msg { return SwitchToStatsMsg{ProjectPath: p.Path} }
			}

		case key.Matches(msg, ProjectsKeys.New):
			return m, func() tea.Msg { return SwitchToCreateMsg{} }

		case key.Matches(msg, ProjectsKeys.Reload):
			return m, m.load

		case key.Matches(msg, ProjectsKeys.Help):
			return m, func() tea.Msg { return SwitchToHelpMsg{} }
		}
	}

	return m, nil
}

// Selected returns the project under the cursor
func (m *ProjectsModel) Selected() (domain.Project, bool) {
	i := m.pager.Cursor()
	if i < 0 || i >= len(m.projects) {
		return domain.Project{}, false
	}
	return m.projects[i], true
}

// Select moves the cursor to a project, if it is listed
func (m *ProjectsModel) Select(projectPath string) {
	for i, p := range m.projects {
		if p.Path == projectPath {
			m.pager.SetCursor(i)
			return
		}
	}
}

// View renders the project list
func (m *ProjectsModel) View() string {
	v := NewViewBuilder().
		Title("Folio").
		Subtitle(m.root)

	switch {
	case !m.loaded:
		v.Muted("Scanning...")
	case len(m.projects) == 0:
		v.Muted("No projects yet. Press n to create one.")
	default:
		start, end := m.pager.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderProject(m.projects[i], i == m.pager.Cursor()))
		}
		if len(m.projects) > end-start {
			v.Muted(fmt.Sprintf("%d/%d", m.pager.Cursor()+1, len(m.projects)))
		}
	}

	return v.Message(m.Message, m.MessageErr).
		Help(ProjectsKeys.Open, ProjectsKeys.New, ProjectsKeys.Stats, ProjectsKeys.Help, ProjectsKeys.Quit).
		String()
}

func (m *ProjectsModel) renderProject(p domain.Project, selected bool) string {
	kind := lipgloss.NewStyle().Foreground(styles.TypeColor(p.Type)).Render(fmt.Sprintf("%-7s", p.Type))
	name := p.Name
	if p.Name != p.Path {
		name += styles.MutedText.Render("  " + p.Path)
	}
	if p.Cover != "" {
		name += styles.MutedText.Render("  ◧")
	}
	if selected {
		return kind + " " + styles.NodeSelected.Render(strings.TrimSpace(p.Name))
	}
	return kind + " " + name
}
