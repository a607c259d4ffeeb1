package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			MarginBottom(1)

	HintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	ValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	SectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true).
			MarginTop(1)
)

// Row renders a "label  value" line of a summary.
func Row(label, value string) string {
	if value == "" {
		value = HintStyle.Render("—")
	} else {
		value = ValueStyle.Render(value)
	}
	return LabelStyle.Render(fmt.Sprintf("%-48s", label+":")) + value
}
