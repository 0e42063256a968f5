package main

import "github.com/charmbracelet/lipgloss"

var (
	colorBackground = lipgloss.Color("#141d2b")
	colorForeground = lipgloss.Color("#f2f2f2")
	colorAccent     = lipgloss.Color("#8BC34A")
	colorMuted      = lipgloss.Color("#2a3850")
	colorBorder     = lipgloss.Color("#2a3850")

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorForeground).
			Background(colorMuted).
			Padding(0, 1)

	bufferStyle = lipgloss.NewStyle().
			Foreground(colorForeground).
			Padding(1, 2)

	popupBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Background(colorBackground)

	cursorStyle = lipgloss.NewStyle().
			Foreground(colorBackground).
			Background(colorAccent)
)
