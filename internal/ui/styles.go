package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#3FA7D6")
	warm   = lipgloss.Color("#FAC05E")
	muted  = lipgloss.Color("#6B7280")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			MarginTop(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(muted)

	LanguageStyle = lipgloss.NewStyle().
			Foreground(warm).
			Bold(true)

	PathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(warm)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EE6352")).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#59CD90")).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(muted).
			MarginTop(1)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2)
)
