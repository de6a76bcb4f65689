package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lexcodex/bonebudget/framework"
)

var (
	colorPrimary   = lipgloss.Color("39")
	colorSecondary = lipgloss.Color("86")
	colorSuccess   = lipgloss.Color("42")
	colorGood      = lipgloss.Color("114")
	colorWarning   = lipgloss.Color("220")
	colorPoor      = lipgloss.Color("208")
	colorError     = lipgloss.Color("196")
	colorDim       = lipgloss.Color("241")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorSecondary)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)
)

var ratingColors = map[framework.Rating]lipgloss.Color{
	framework.RatingExcellent: colorSuccess,
	framework.RatingGood:      colorGood,
	framework.RatingMedium:    colorWarning,
	framework.RatingPoor:      colorPoor,
	framework.RatingVeryPoor:  colorError,
}

func ratingStyle(r framework.Rating) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	if c, ok := ratingColors[r]; ok {
		style = style.Foreground(c)
	}
	return style
}
