package views

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"folio/internal/adapters/tui/styles"
	"folio/internal/application"
	"folio/internal/application/commands"
	"folio/internal/domain"
)

// BrowserKeyMap defines key bindings for the tree browser
type BrowserKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Edit     key.Binding
	Complete key.Binding
	Exclude  key.Binding
	Include  key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Sync     key.Binding
	Stats    key.Binding
	Copy     key.Binding
	Back     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "collapse"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "expand"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "toggle/open"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit"),
	),
	Complete: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "done"),
	),
	Exclude: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "exclude"),
	),
	Include: key.NewBinding(
		key.WithKeys("i"),
		key.WithHelp("i", "include"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move down"),
	),
	Sync: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "sync"),
	),
	Stats: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stats"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy manuscript"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace"),
		key.WithHelp("esc", "projects"),
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

// BrowserModel is the model for a project's tree
type BrowserModel struct {
	ViewState
	svc *application.Services

	project    domain.Project
	tree       []*domain.Node
	perChapter map[string]int
	total      int
	overrides  domain.OverrideSets
	rows       []domain.FlatNode
	loaded     bool
	pager      *Paginator
	selectID   string // keep the cursor on this node after a reload
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(svc *application.Services) *BrowserModel {
	return &BrowserModel{
		svc:   svc,
		pager: NewPaginator(10),
	}
}

// Open switches the browser to a project and loads its tree
func (m *BrowserModel) Open(project domain.Project) tea.Cmd {
	if project.Path != m.project.Path {
		m.pager.SetTotal(0)
		m.selectID = ""
	}
	m.project = project
	m.loaded = false
	m.ClearMessage()
	return m.loadTree
}

// ProjectPath returns the open project
func (m *BrowserModel) ProjectPath() string {
	return m.project.Path
}

// Reload reloads the tree, keeping the cursor on the same node
func (m *BrowserModel) Reload() tea.Cmd {
	if n := m.selectedNode(); n != nil && m.selectID == "" {
		m.selectID = n.ID
	}
	return m.loadTree
}

type treeLoadedMsg struct {
	projectPath string
	tree        []*domain.Node
	stats       domain.Stats
}

func (m *BrowserModel) loadTree() tea.Msg {
	ctx := context.Background()
	projectPath := m.project.Path
	tree, err := m.svc.Workspace.Tree(ctx, projectPath)
	if err != nil {
		return errMsg{err}
	}
	var stats domain.Stats
	if doc, err := m.svc.Configs.Load(ctx, projectPath); err == nil && doc != nil {
		stats = doc.Stats
	}
	return treeLoadedMsg{projectPath: projectPath, tree: tree, stats: stats}
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		m.pager.SetPageSize(m.pageSize(10))
		return m, nil

	case treeLoadedMsg:
		if msg.projectPath != m.project.Path {
			return m, nil
		}
		m.tree = msg.tree
		m.perChapter = msg.stats.PerChapter
		m.total = msg.stats.TotalWords
		m.overrides = domain.BuildOverrideSets(m.tree)
		m.loaded = true
		m.refreshRows()
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case successMsg:
		m.SetMessage(msg.message, false)
		return m, m.Reload()

	case tea.KeyMsg:
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Back):
		return func() tea.Msg { return SwitchToProjectsMsg{} }

	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg { return SwitchToHelpMsg{} }

	case key.Matches(msg, BrowserKeys.Stats):
		projectPath := m.project.Path
		return func() tea.Msg { return SwitchToStatsMsg{ProjectPath: projectPath} }

	case key.Matches(msg, BrowserKeys.Sync):
		return m.syncTree()

	case key.Matches(msg, BrowserKeys.Copy):
		return m.copyManuscript()

	case key.Matches(msg, BrowserKeys.Up):
		m.pager.CursorUp()
		return nil

	case key.Matches(msg, BrowserKeys.Down):
		m.pager.CursorDown()
		return nil
	}

	r, ok := m.selectedRow()
	if !ok {
		return nil
	}
	n := r.Node

	switch {
	case key.Matches(msg, BrowserKeys.Left):
		if n.IsGroup() && m.svc.Workspace.IsExpanded(m.project.Path, n.Path) {
			return m.toggle(n)
		}
		if r.Parent != nil {
			m.selectNode(r.Parent.ID)
		}
		return nil

	case key.Matches(msg, BrowserKeys.Right):
		if n.IsGroup() && !m.svc.Workspace.IsExpanded(m.project.Path, n.Path) {
			return m.toggle(n)
		}
		return nil

	case key.Matches(msg, BrowserKeys.Enter):
		if n.IsGroup() {
			return m.toggle(n)
		}
		return m.edit(n)

	case key.Matches(msg, BrowserKeys.Edit):
		if !n.IsGroup() {
			return m.edit(n)
		}
		return nil

	case key.Matches(msg, BrowserKeys.Complete):
		if n.IsGroup() {
			return nil
		}
		return m.run(commands.NewSetCompletedCommand(m.svc.Mutator, m.project.Path, n.Path, !n.Completed).Execute)

	case key.Matches(msg, BrowserKeys.Exclude):
		mode := commands.InclusionExclude
		if n.Exclude {
			mode = commands.InclusionClear
		}
		return m.run(commands.NewSetInclusionCommand(m.svc.Mutator, m.project.Path, n.Path, mode).Execute)

	case key.Matches(msg, BrowserKeys.Include):
		mode := commands.InclusionInclude
		if n.Include {
			mode = commands.InclusionClear
		}
		return m.run(commands.NewSetInclusionCommand(m.svc.Mutator, m.project.Path, n.Path, mode).Execute)

	case key.Matches(msg, BrowserKeys.MoveUp):
		return m.shift(r, -1)

	case key.Matches(msg, BrowserKeys.MoveDown):
		return m.shift(r, +1)
	}
	return nil
}

// run executes a command that reports a plain message
func (m *BrowserModel) run(exec func(context.Context) (string, error)) tea.Cmd {
	if n := m.selectedNode(); n != nil {
		m.selectID = n.ID
	}
	return func() tea.Msg {
		msg, err := exec(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return successMsg{msg}
	}
}

func (m *BrowserModel) toggle(n *domain.Node) tea.Cmd {
	m.selectID = n.ID
	projectPath := m.project.Path
	return func() tea.Msg {
		if _, err := m.svc.Workspace.ToggleExpanded(context.Background(), projectPath, n.Path); err != nil {
			return errMsg{err}
		}
		return m.loadTree()
	}
}

func (m *BrowserModel) edit(n *domain.Node) tea.Cmd {
	target := path.Join(m.project.Path, n.Path)
	return func() tea.Msg { return OpenEditorMsg{Path: target} }
}

// shift swaps a node with its neighbour; at either end of a folder it steps out next to the folder
func (m *BrowserModel) shift(r domain.FlatNode, dir int) tea.Cmd {
	siblings := m.tree
	if r.Parent != nil {
		siblings = r.Parent.Children
	}
	i := -1
	for j, s := range siblings {
		if s.ID == r.Node.ID {
			i = j
			break
		}
	}

	var target *domain.Node
	pos := "after"
	if dir < 0 {
		pos = "before"
	}
	switch {
	case i+dir >= 0 && i+dir < len(siblings):
		target = siblings[i+dir]
	case r.Parent != nil:
		target = r.Parent
	default:
		return nil
	}

	m.selectID = r.Node.ID
	cmd := commands.NewReorderCommand(m.svc.Mutator, m.project.Path, r.Node.ID, target.ID, pos)
	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return successMsg{fmt.Sprintf("Moved %s %s %s", r.Node.Title, result.Position, target.Title)}
	}
}

func (m *BrowserModel) syncTree() tea.Cmd {
	cmd := commands.NewSyncTreeCommand(m.svc.Sync, m.project.Path)
	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return successMsg{result.Message}
	}
}

func (m *BrowserModel) copyManuscript() tea.Cmd {
	cmd := commands.NewAssembleCommand(m.svc.Assembler, m.project.Path)
	return func() tea.Msg {
		result, err := cmd.Execute(context.Background())
		if err != nil {
			return errMsg{err}
		}
		if err := clipboard.WriteAll(result.Markdown); err != nil {
			return errMsg{fmt.Errorf("failed to copy to clipboard: %w", err)}
		}
		return successMsg{result.Message + ", copied to clipboard"}
	}
}

func (m *BrowserModel) selectedRow() (domain.FlatNode, bool) {
	i := m.pager.Cursor()
	if i < 0 || i >= len(m.rows) {
		return domain.FlatNode{}, false
	}
	return m.rows[i], true
}

func (m *BrowserModel) selectedNode() *domain.Node {
	if r, ok := m.selectedRow(); ok {
		return r.Node
	}
	return nil
}

func (m *BrowserModel) selectNode(id string) {
	for i, r := range m.rows {
		if r.Node.ID == id {
			m.pager.SetCursor(i)
			return
		}
	}
}

func (m *BrowserModel) refreshRows() {
	m.rows = domain.Flatten(m.tree, func(n *domain.Node) bool {
		return m.svc.Workspace.IsExpanded(m.project.Path, n.Path)
	})

	m.pager.SetTotal(len(m.rows))
	if m.selectID != "" {
		m.selectNode(m.selectID)
		m.selectID = ""
	}
}

// View renders the browser
func (m *BrowserModel) View() string {
	title := lipgloss.NewStyle().Foreground(styles.TypeColor(m.project.Type)).Render(m.project.Type.String())
	v := NewViewBuilder().
		Title(m.project.Name).
		Subtitle(fmt.Sprintf("%s · %d words", title, m.total))

	switch {
	case !m.loaded:
		v.Muted("Loading...")
	case len(m.rows) == 0:
		v.Muted("Empty project. Add files on disk or press S to sync.")
	default:
		start, end := m.pager.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderRow(m.rows[i], i == m.pager.Cursor()))
		}
	}

	return v.Message(m.Message, m.MessageErr).
		Help(BrowserKeys.Enter, BrowserKeys.Complete, BrowserKeys.Exclude, BrowserKeys.MoveUp, BrowserKeys.MoveDown,
			BrowserKeys.Stats, BrowserKeys.Back, BrowserKeys.Help).
		String()
}

func (m *BrowserModel) renderRow(r domain.FlatNode, selected bool) string {
	n := r.Node
	indent := strings.Repeat("  ", r.Depth)

	var prefix string
	switch {
	case n.IsGroup() && m.svc.Workspace.IsExpanded(m.project.Path, n.Path):
		prefix = styles.TreeExpanded
	case n.IsGroup():
		prefix = styles.TreeCollapsed
	case n.Completed:
		prefix = styles.MarkDone
	default:
		prefix = styles.MarkOpen
	}

	text := n.Title
	if n.Include {
		text += " +"
	}

	var style lipgloss.Style
	switch {
	case n.Exclude || m.overrides.Excluded[n.Path]:
		style = styles.NodeExcluded
	case n.IsGroup():
		style = styles.NodeGroup
	case n.Type == domain.NodeCanvas:
		style = styles.NodeCanvas
	case n.Completed:
		style = styles.NodeCompleted
	default:
		style = styles.NodeFile
	}
	if selected {
		style = styles.NodeSelected
	}

	line := indent + styles.TreeBranch.Render(prefix) + style.Render(text)
	if words, ok := m.perChapter[n.Path]; ok && !n.IsGroup() {
		line += styles.WordCount.Render(fmt.Sprintf("  %d", words))
	}
	return line
}
