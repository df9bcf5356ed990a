package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, trimmed to what the app draws with.
const (
	colorPeach    lipgloss.Color = "#fab387"
	colorSky      lipgloss.Color = "#89dceb"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorRed      lipgloss.Color = "#f38ba8"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorBase     lipgloss.Color = "#1e1e2e"
)

const (
	colorCalories = colorPeach
	colorWater    = colorSky
	colorSuccess  = colorGreen
	colorError    = colorRed
	colorFocus    = colorLavender
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle    = lipgloss.NewStyle().Foreground(colorOverlay1)
	statusStyle   = lipgloss.NewStyle().Foreground(colorOverlay1)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	successStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	optionStyle   = lipgloss.NewStyle().Padding(0, 2).Background(colorSurface1).Foreground(colorText)
	selectedStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(colorBase)
	overlayStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFocus).
			Padding(1, 3).
			Width(44).
			Align(lipgloss.Center)
	quoteStyle  = lipgloss.NewStyle().Italic(true).Foreground(colorText)
	authorStyle = lipgloss.NewStyle().Foreground(colorFocus)
)
