package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Help     lipgloss.Style
	Card     lipgloss.Style
	Input    lipgloss.Style
	Toast    lipgloss.Style

	AuthBadge   lipgloss.Style
	NoAuthBadge lipgloss.Style
	BusyBadge   lipgloss.Style

	OK   lipgloss.Style
	Fail lipgloss.Style
	Dim  lipgloss.Style
}

func DefaultTheme() Theme {
	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	return Theme{
		Title:    lipgloss.NewStyle().Bold(true),
		Subtitle: lipgloss.NewStyle().Faint(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
		Input: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("238")).
			Padding(0, 1),
		Toast: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),

		AuthBadge:   badge.Foreground(lipgloss.Color("255")).Background(lipgloss.Color("28")),
		NoAuthBadge: badge.Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		BusyBadge:   badge.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")),

		OK:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		Fail: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
}
