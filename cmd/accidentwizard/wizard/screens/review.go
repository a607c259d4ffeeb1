package screens

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/accidentwizard/cmd/accidentwizard/wizard/components"
	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/docservice"
	"github.com/mrsinham/accidentwizard/internal/engine"
	"github.com/mrsinham/accidentwizard/internal/report"
)

// Review actions handled by the wizard rather than the screen.
const (
	ActionSave   = "save"
	ActionQuit   = "quit"
	ActionSelect = "select"

	actionSubmit   = "submit"
	actionDownload = "download"
)

// SubmitDoneMsg is sent when a submission finishes.
type SubmitDoneMsg struct {
	Err error
}

// DownloadDoneMsg is sent when a download finishes.
type DownloadDoneMsg struct {
	Format report.Format
	Err    error
}

var reviewPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 2)

// ReviewScreen summarises the draft and runs the submission and downloads.
type ReviewScreen struct {
	ctx         context.Context
	engine      *engine.Engine
	view        engine.StepView
	steps       []report.Step
	downloadDir string
	form        *huh.Form
	choice      string
	busy        string
	notice      string
	action      Action
	done        bool
	cancelled   bool
}

// NewReviewScreen shows the summary. downloadDir is only used to tell the user
// where a downloaded file went.
func NewReviewScreen(ctx context.Context, e *engine.Engine, downloadDir, notice string) *ReviewScreen {
	s := &ReviewScreen{
		ctx:         ctx,
		engine:      e,
		view:        e.CurrentStep(),
		steps:       e.Steps(),
		downloadDir: downloadDir,
		notice:      notice,
	}
	s.buildMenu()
	return s
}

func (s *ReviewScreen) buildMenu() {
	s.choice = ""
	status := s.engine.Status()

	submitLabel := "Przygotuj formularz"
	if status.State == engine.SubmitSuccess {
		submitLabel = "Przygotuj formularz ponownie"
	}
	opts := []huh.Option[string]{huh.NewOption(submitLabel, actionSubmit)}
	if status.HasDocument {
		opts = append(opts,
			huh.NewOption("Pobierz PDF", encodeAction(actionDownload, report.FormatPDF)),
			huh.NewOption("Pobierz DOCX", encodeAction(actionDownload, report.FormatDOCX)),
		)
	}
	opts = append(opts, huh.NewOption("Zapisz szkic", ActionSave))
	for i, st := range s.steps {
		if i < s.view.Index {
			opts = append(opts, huh.NewOption("Wróć do: "+st.Title, encodeAction(ActionSelect, st.ID)))
		}
	}
	opts = append(opts, huh.NewOption("Zakończ", ActionQuit))

	s.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Key("action").
			Title("Co chcesz zrobić?").
			Options(opts...).
			Value(&s.choice),
	)).WithShowHelp(false)
}

func (s *ReviewScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *ReviewScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, nil
		case "esc":
			if s.busy == "" {
				s.action, s.done = Action{Kind: ActionBack}, true
			}
			return s, nil
		}
	case SubmitDoneMsg:
		s.busy = ""
		if msg.Err == nil {
			s.notice = ""
		}
		s.buildMenu()
		return s, s.form.Init()
	case DownloadDoneMsg:
		s.busy = ""
		if msg.Err == nil {
			name := docservice.FileName(s.engine.Status().DocumentID, msg.Format)
			s.notice = "Zapisano plik " + filepath.Join(s.downloadDir, name)
		}
		s.buildMenu()
		return s, s.form.Init()
	}

	if s.busy != "" {
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	if s.form.State != huh.StateCompleted {
		return s, cmd
	}
	return s.handle(s.choice)
}

func (s *ReviewScreen) handle(choice string) (tea.Model, tea.Cmd) {
	a := decodeAction(choice)
	switch a.Kind {
	case actionSubmit:
		s.busy = "Przygotowuję formularz…"
		s.notice = ""
		ctx, e := s.ctx, s.engine
		return s, func() tea.Msg {
			return SubmitDoneMsg{Err: e.Submit(ctx)}
		}
	case actionDownload:
		format := report.Format(a.ID)
		s.busy = fmt.Sprintf("Pobieram plik %s…", strings.ToUpper(a.ID))
		s.notice = ""
		ctx, e := s.ctx, s.engine
		return s, func() tea.Msg {
			return DownloadDoneMsg{Format: format, Err: e.Download(ctx, format)}
		}
	default:
		s.action, s.done = a, true
		return s, nil
	}
}

func (s *ReviewScreen) View() string {
	parts := []string{
		components.StepBar(s.steps, s.view),
		"",
		components.TitleStyle.Render(strings.ToUpper(s.view.Step.Title)),
		components.SubtitleStyle.Render(s.view.Step.Description),
		reviewPanelStyle.Render(Summary(s.engine)),
		"",
	}
	if errs := errorLines(s.engine.Errors()); len(errs) > 0 {
		parts = append(parts, components.ErrorStyle.Render(strings.Join(errs, "\n")), "")
	}
	parts = append(parts, s.statusLine())

	if s.busy != "" {
		parts = append(parts, components.HintStyle.Render(s.busy))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	parts = append(parts,
		"",
		s.form.View(),
		"",
		components.HintStyle.Render("Enter: wybierz | Esc: wstecz | Ctrl+C: wyjście"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *ReviewScreen) statusLine() string {
	st := s.engine.Status()
	var lines []string
	switch st.State {
	case engine.SubmitSuccess:
		lines = append(lines, components.SuccessStyle.Render(fmt.Sprintf("Formularz nr %d jest gotowy do pobrania.", st.DocumentID)))
	case engine.SubmitError:
		lines = append(lines, components.ErrorStyle.Render(st.SubmitError))
	}
	if st.DownloadError != "" {
		lines = append(lines, components.ErrorStyle.Render(st.DownloadError))
	}
	if s.notice != "" {
		lines = append(lines, components.HintStyle.Render(s.notice))
	}
	return strings.Join(lines, "\n")
}

// errorLines lists recorded validation errors with field captions, sorted by key.
func errorLines(errs map[string]string) []string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("• %s: %s", errorCaption(k), errs[k]))
	}
	return lines
}

func errorCaption(key string) string {
	if key == engine.MedicalDocumentsKey {
		return attachment.CategoryMedical.Label()
	}
	if rest, ok := strings.CutPrefix(key, report.WitnessKeyPrefix); ok {
		idx, field, _ := strings.Cut(rest, ".")
		if n, err := strconv.Atoi(idx); err == nil {
			return fmt.Sprintf("Świadek %d, %s", n+1, report.WitnessLabel(report.WitnessField(field)))
		}
	}
	return report.Label(key)
}

// Summary renders the draft and its attachments.
func Summary(e *engine.Engine) string {
	d := e.Draft()
	var b strings.Builder

	section := func(title string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.SectionStyle.Render(title))
		b.WriteString("\n")
	}

	for _, st := range e.Steps() {
		inputs := stepInputs[st.ID]
		if len(inputs) == 0 {
			continue
		}
		section(st.Title)
		for _, name := range inputs {
			b.WriteString(components.Row(report.Label(name), d.Get(name)))
			b.WriteString("\n")
		}
		for _, name := range stepQuestions[st.ID] {
			b.WriteString(components.Row(report.Label(name), formatAnswer(d.Flag(name))))
			b.WriteString("\n")
		}
	}

	section("Świadkowie")
	if len(d.Witnesses) == 0 {
		b.WriteString(components.HintStyle.Render("brak"))
		b.WriteString("\n")
	}
	for i, w := range d.Witnesses {
		line := fmt.Sprintf("%d. %s", i+1, witnessName(i, w))
		if w.Phone != "" {
			line += ", tel. " + w.Phone
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	section("Załączniki")
	total := 0
	for _, c := range attachment.Categories {
		list := e.Attachments(c)
		total += len(list)
		for _, a := range list {
			fmt.Fprintf(&b, "%s: %s (%s)\n", c.Label(), a.Name, attachment.FormatSize(a.Size))
		}
	}
	if total == 0 {
		b.WriteString(components.HintStyle.Render("brak"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Done reports whether an action for the wizard was chosen.
func (s *ReviewScreen) Done() bool { return s.done }

// Cancelled reports whether the user quit.
func (s *ReviewScreen) Cancelled() bool { return s.cancelled }

// Action returns the chosen action.
func (s *ReviewScreen) Action() Action { return s.action }
