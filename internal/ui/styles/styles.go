package styles

import "github.com/charmbracelet/lipgloss"

const (
	AccentDarkColor  = "#1F7A6D"
	AccentMidColor   = "#2FA39A"
	AccentLightColor = "#6FD3C7"
)

var (
	AccentDark = lipgloss.NewStyle().
			Foreground(lipgloss.Color(AccentDarkColor))

	AccentMid = lipgloss.NewStyle().
			Foreground(lipgloss.Color(AccentMidColor))

	AccentLight = lipgloss.NewStyle().
			Foreground(lipgloss.Color(AccentLightColor))

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(AccentLightColor))

	Version = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	Message = lipgloss.NewStyle()

	Secondary = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	SecondaryMessage = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	Success = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("42"))

	Note = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	Warning = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("214"))

	ErrorTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	ErrorDetail = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(AccentMidColor))

	Connected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	Connecting = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	Disconnected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)
