package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/accidentwizard/internal/engine"
	"github.com/mrsinham/accidentwizard/internal/report"
)

var (
	stepCurrentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("63")).
				Padding(0, 1)

	stepReachedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Padding(0, 1)

	stepLockedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Padding(0, 1)
)

// StepBar renders the wizard progress: reached steps are selectable, steps past
// the furthest reached one are dimmed.
func StepBar(steps []report.Step, view engine.StepView) string {
	parts := make([]string, 0, len(steps))
	for i, s := range steps {
		label := fmt.Sprintf("%d. %s", i+1, s.Title)
		if s.Optional {
			label += " (opcjonalnie)"
		}
		switch {
		case i == view.Index:
			parts = append(parts, stepCurrentStyle.Render(label))
		case i <= view.Furthest:
			parts = append(parts, stepReachedStyle.Render(label))
		default:
			parts = append(parts, stepLockedStyle.Render(label))
		}
	}
	return strings.Join(parts, HintStyle.Render("›"))
}

// StepInfo renders the inline help of a step, or "" when it has none.
func StepInfo(s report.Step) string {
	if s.Info == nil {
		return ""
	}
	return s.Info.Label + "\n" + strings.Join(s.Info.Content, "\n")
}
