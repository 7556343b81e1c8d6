package styles

import (
	"github.com/charmbracelet/lipgloss"

	"folio/internal/domain"
)

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // Purple
	Secondary = lipgloss.Color("#10B981") // Green
	Muted     = lipgloss.Color("#6B7280") // Gray
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Error     = lipgloss.Color("#EF4444") // Red
	White     = lipgloss.Color("#FFFFFF")

	// Project type colors
	TypeBook   = lipgloss.Color("#8B5CF6") // Violet
	TypeScript = lipgloss.Color("#EC4899") // Pink
	TypeFilm   = lipgloss.Color("#F97316") // Orange
	TypeEssay  = lipgloss.Color("#60A5FA") // Blue

	// Base styles
	App = lipgloss.NewStyle().
		Padding(1, 2)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	// Tree node styles
	NodeGroup = lipgloss.NewStyle().
			Bold(true)

	NodeFile = lipgloss.NewStyle()

	NodeCanvas = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60A5FA"))

	NodeCompleted = lipgloss.NewStyle().
			Foreground(Secondary)

	NodeExcluded = lipgloss.NewStyle().
			Foreground(Muted).
			Strikethrough(true)

	NodeSelected = lipgloss.NewStyle().
			Background(Primary).
			Foreground(White).
			Bold(true)

	WordCount = lipgloss.NewStyle().
			Foreground(Muted)

	// Tree indicators
	TreeBranch    = lipgloss.NewStyle().Foreground(Muted)
	TreeExpanded  = "▼ "
	TreeCollapsed = "▶ "
	TreeLeaf      = "  "
	MarkDone      = "✓ "
	MarkOpen      = "· "

	// Status bar
	StatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(White).
			Padding(0, 1)

	// Input styles
	InputLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	InputField = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputFocused = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Secondary).
			Padding(0, 1)

	// Help styles
	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Muted)

	HelpSeparator = lipgloss.NewStyle().
			Foreground(Muted).
			SetString(" • ")

	// Message styles
	Success = lipgloss.NewStyle().
		Foreground(Secondary).
		Bold(true)

	ErrorMsg = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	// Muted text style (for using Muted color as a style)
	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// TypeColor returns the accent color of a project type
func TypeColor(t domain.ProjectType) lipgloss.Color {
	switch t {
	case domain.ProjectBook:
		return TypeBook
	case domain.ProjectScript:
		return TypeScript
	case domain.ProjectFilm:
		return TypeFilm
	case domain.ProjectEssay:
		return TypeEssay
	default:
		return Primary
	}
}
