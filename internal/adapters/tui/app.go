package tui

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"folio/internal/adapters/tui/views"
	"folio/internal/application"
	"folio/internal/domain"
	"folio/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewProjects ViewState = iota
	ViewTree
	ViewCreate
	ViewStats
	ViewHelp
)

// App is the main TUI application model
type App struct {
	svc    *application.Services
	editor ports.EditorOpener
	root   string

	state    ViewState
	previous ViewState // where overlays return to
	projects *views.ProjectsModel
	browser  *views.BrowserModel
	create   *views.CreateModel
	stats    *views.StatsModel
	help     *views.HelpModel
}

// NewApp creates a new TUI application; root is the absolute storage root used to open files
func NewApp(svc *application.Services, ed ports.EditorOpener, root string) *App {
	return &App{
		svc:      svc,
		editor:   ed,
		root:     root,
		state:    ViewProjects,
		projects: views.NewProjectsModel(svc.Workspace, root),
		browser:  views.NewBrowserModel(svc),
		create:   views.NewCreateModel(svc.Creator),
		stats:    views.NewStatsModel(svc),
		help:     views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.projects.Init()
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.projects.Update(msg)
		a.browser.Update(msg)
		a.create.Update(msg)
		a.stats.Update(msg)
		a.help.Update(msg)
		return a, nil

	case views.SwitchToProjectsMsg:
		a.state = ViewProjects
		a.projects.Select(a.browser.ProjectPath())
		return a, a.projects.Reload()

	case views.SwitchToTreeMsg:
		project, ok := a.svc.Workspace.Find(msg.ProjectPath)
		if !ok {
			project = domain.Project{Name: msg.ProjectPath, Path: msg.ProjectPath}
		}
		a.state = ViewTree
		return a, a.browser.Open(project)

	case views.SwitchToCreateMsg:
		a.enterOverlay(ViewCreate)
		a.create.Reset()
		return a, a.create.Init()

	case views.SwitchToStatsMsg:
		a.enterOverlay(ViewStats)
		return a, a.stats.Open(msg.ProjectPath)

	case views.SwitchToHelpMsg:
		a.enterOverlay(ViewHelp)
		return a, nil

	case views.BackMsg:
		a.state = a.previous
		if a.state == ViewTree {
			return a, a.browser.Reload()
		}
		return a, nil

	case views.CreatedMsg:
		a.state = ViewProjects
		a.projects.SetMessage(msg.Message, false)
		return a, tea.Sequence(a.projects.Reload(), func() tea.Msg {
			return views.SwitchToTreeMsg{ProjectPath: msg.ProjectPath}
		})

	case views.OpenEditorMsg:
		return a, a.openEditor(msg.Path)

	case editorFinishedMsg:
		if msg.err != nil {
			a.browser.SetMessage(msg.err.Error(), true)
		}
		return a, a.browser.Reload()

	case views.ProjectChangedMsg:
		return a, a.projectChanged(msg)
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewProjects:
		_, cmd = a.projects.Update(msg)
	case ViewTree:
		_, cmd = a.browser.Update(msg)
	case ViewCreate:
		_, cmd = a.create.Update(msg)
	case ViewStats:
		_, cmd = a.stats.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

func (a *App) enterOverlay(state ViewState) {
	if a.state == ViewProjects || a.state == ViewTree {
		a.previous = a.state
	}
	a.state = state
}

// projectChanged reloads whatever shows the refreshed project
func (a *App) projectChanged(msg views.ProjectChangedMsg) tea.Cmd {
	if msg.Err != nil {
		if a.state == ViewTree && a.browser.ProjectPath() == msg.ProjectPath {
			a.browser.SetMessage(fmt.Sprintf("refresh failed: %v", msg.Err), true)
		}
		return nil
	}
	switch {
	case a.state == ViewTree && a.browser.ProjectPath() == msg.ProjectPath:
		return a.browser.Reload()
	case a.state == ViewStats && a.stats.ProjectPath() == msg.ProjectPath:
		return a.stats.Reload()
	case a.state == ViewProjects:
		return a.projects.Reload()
	}
	return nil
}

type editorFinishedMsg struct{ err error }

func (a *App) openEditor(relPath string) tea.Cmd {
	if a.editor == nil {
		return nil
	}

	cmd, err := a.editor.Command(filepath.Join(a.root, filepath.FromSlash(relPath)))
	if err != nil {
		return func() tea.Msg {
			return editorFinishedMsg{err: err}
		}
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewTree:
		return a.browser.View()
	case ViewCreate:
		return a.create.View()
	case ViewStats:
		return a.stats.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.projects.View()
	}
}
