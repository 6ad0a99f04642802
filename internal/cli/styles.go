package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorDanger    = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	okStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorDanger).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(14)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)
)

func row(label, value string) string {
	return labelStyle.Render(label) + value
}
