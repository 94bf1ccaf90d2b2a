package ui

import "github.com/charmbracelet/lipgloss"

// palette bundles the styles the interactive view renders with. Two
// variants back the persisted dark-mode flag; the light one leans on the
// terminal's default foreground so it stays readable on pale backgrounds.
type palette struct {
	title    lipgloss.Style
	accent   lipgloss.Style
	muted    lipgloss.Style
	success  lipgloss.Style
	errText  lipgloss.Style
	selected lipgloss.Style
	total    lipgloss.Style
	frame    lipgloss.Style
}

func newPalette(dark bool) palette {
	if dark {
		return palette{
			title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("219")),
			accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
			muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			selected: lipgloss.NewStyle().Bold(true).Reverse(true),
			total:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
			frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(0, 1),
		}
	}
	return palette{
		title:    lipgloss.NewStyle().Bold(true),
		accent:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		muted:    lipgloss.NewStyle().Faint(true),
		success:  lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		errText:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		total:    lipgloss.NewStyle().Bold(true),
		frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
	}
}
