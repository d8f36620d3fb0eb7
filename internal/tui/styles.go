package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#E06C75")).
			MarginBottom(1)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#A9B1D6"))
	activeTabStyle = tabStyle.Bold(true).Foreground(lipgloss.Color("#61AFEF")).Underline(true)

	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5C07B"))
	doneStyle      = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("#5C6370"))
	emptyStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#5C6370"))
	countStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#98C379"))
	warningStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BE5046"))
	statusMsgStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#56B6C2"))
)
