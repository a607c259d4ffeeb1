package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/accidentwizard/cmd/accidentwizard/wizard/help"
)

var (
	helpPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63")).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	helpDetailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// HelpPanel shows the help of the focused field, or the step info when no field
// help exists.
type HelpPanel struct {
	text     help.HelpText
	hasText  bool
	fallback string
	width    int
}

// NewHelpPanel returns a panel that shows fallback until a field is focused.
func NewHelpPanel(fallback string) *HelpPanel {
	return &HelpPanel{fallback: fallback, width: 60}
}

// SetField shows the help registered for field.
func (h *HelpPanel) SetField(field string) {
	h.text, h.hasText = help.Texts[field]
}

// SetText shows an explicit help text.
func (h *HelpPanel) SetText(t help.HelpText) {
	h.text, h.hasText = t, true
}

// SetWidth updates the panel width.
func (h *HelpPanel) SetWidth(width int) {
	if width > 20 {
		h.width = width
	}
}

func (h *HelpPanel) View() string {
	style := helpPanelStyle.Width(h.width - 4)
	if !h.hasText {
		return style.Render(helpDetailStyle.Render(h.fallback))
	}

	var sb strings.Builder
	sb.WriteString(helpTitleStyle.Render(h.text.Title))
	sb.WriteString("\n\n")
	sb.WriteString(helpDescStyle.Render(h.text.Description))
	if h.text.Details != "" {
		sb.WriteString("\n\n")
		sb.WriteString(helpDetailStyle.Render(h.text.Details))
	}
	return style.Render(sb.String())
}
