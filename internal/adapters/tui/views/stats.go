package views

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"folio/internal/application"
	"folio/internal/application/commands"
	"folio/internal/domain"
)

// StatsKeyMap defines key bindings for the statistics view
type StatsKeyMap struct {
	Recount key.Binding
	Back    key.Binding
	Quit    key.Binding
}

var StatsKeys = StatsKeyMap{
	Recount: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "recount"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc", "backspace", "s"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// recentDays is how many ledger days the view lists
const recentDays = 7

// StatsModel shows a project's word counts and progress
type StatsModel struct {
	ViewState
	svc *application.Services

	projectPath string
	stats       *domain.Stats
}

// NewStatsModel creates the statistics view
func NewStatsModel(svc *application.Services) *StatsModel {
	return &StatsModel{svc: svc}
}

type statsLoadedMsg struct {
	projectPath string
	stats       *domain.Stats
	message     string
}

// Open shows the stored statistics of a project
func (m *StatsModel) Open(projectPath string) tea.Cmd {
	m.projectPath = projectPath
	m.stats = nil
	m.ClearMessage()
	return m.load
}

// ProjectPath returns the shown project
func (m *StatsModel) ProjectPath() string {
	return m.projectPath
}

// Reload reads the stored statistics again
func (m *StatsModel) Reload() tea.Cmd {
	return m.load
}

func (m *StatsModel) load() tea.Msg {
	result, err := commands.NewShowStatsCommand(m.svc.Configs, m.projectPath).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return statsLoadedMsg{projectPath: m.projectPath, stats: result.Stats}
}

func (m *StatsModel) recount() tea.Msg {
	result, err := commands.NewComputeStatsCommand(m.svc.Stats, m.projectPath).Execute(context.Background())
	if err != nil {
		return errMsg{err}
	}
	return statsLoadedMsg{projectPath: m.projectPath, stats: result.Stats, message: result.Message}
}

// Update handles messages for the statistics view
func (m *StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case statsLoadedMsg:
		if msg.projectPath == m.projectPath {
			m.stats = msg.stats
			if msg.message != "" {
				m.SetMessage(msg.message, false)
			}
		}
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, StatsKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, StatsKeys.Back):
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(msg, StatsKeys.Recount):
			m.ClearMessage()
			return m, m.recount
		}
	}
	return m, nil
}

// View renders the statistics
func (m *StatsModel) View() string {
	v := NewViewBuilder().
		Title("Statistics").
		Subtitle(m.projectPath)

	s := m.stats
	if s == nil {
		return v.Muted("Loading...").Message(m.Message, m.MessageErr).Help(StatsKeys.Back).String()
	}

	barWidth := 40
	if m.Width > 0 {
		barWidth = min(max(m.Width-30, 10), 60)
	}

	words := fmt.Sprintf("%d", s.TotalWords)
	if s.TargetTotalWords > 0 {
		words += fmt.Sprintf(" of %d", s.TargetTotalWords)
	}
	v.Line(RenderLabelValue("Words", words))
	if s.TargetTotalWords > 0 {
		v.Line(RenderProgress(s.ProgressByWords, barWidth))
	}
	v.BlankLine()

	v.Line(RenderLabelValue("Chapters done", fmt.Sprintf("%d of %d", s.ProgressByChapter.Completed, s.ProgressByChapter.Total)))
	v.Line(RenderProgress(s.ProgressByChapter.Percent, barWidth))
	v.BlankLine()

	v.Line(RenderLabelValue("Writing days", fmt.Sprintf("%d", s.WritingDays)))
	v.Line(RenderLabelValue("Daily average", fmt.Sprintf("%d words", s.AverageDailyWords)))
	if s.LastWritingDate != "" {
		v.Line(RenderLabelValue("Last written", s.LastWritingDate))
	}

	days := slices.Sorted(maps.Keys(s.DailyWords))
	if len(days) > recentDays {
		days = days[len(days)-recentDays:]
	}
	if len(days) > 0 {
		v.BlankLine()
		for _, d := range days {
			v.Muted(fmt.Sprintf("  %s %6d", d, s.DailyWords[d]))
		}
	}

	return v.Message(m.Message, m.MessageErr).
		Help(StatsKeys.Recount, StatsKeys.Back, StatsKeys.Quit).
		String()
}
