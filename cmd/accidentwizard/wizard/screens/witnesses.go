package screens

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/accidentwizard/cmd/accidentwizard/wizard/components"
	"github.com/mrsinham/accidentwizard/cmd/accidentwizard/wizard/help"
	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/engine"
	"github.com/mrsinham/accidentwizard/internal/report"
	"github.com/mrsinham/accidentwizard/internal/validate"
)

// Menu actions shared by the list screens.
const (
	ActionAdd     = "add"
	ActionEdit    = "edit"
	ActionRemove  = "remove"
	ActionPreview = "preview"
	ActionNext    = "next"
	ActionBack    = "back"
)

// Action is a menu choice, with the item it applies to.
type Action struct {
	Kind  string
	Index int
	ID    string
}

func encodeAction(kind string, arg any) string {
	return fmt.Sprintf("%s:%v", kind, arg)
}

func decodeAction(v string) Action {
	kind, arg, _ := strings.Cut(v, ":")
	a := Action{Kind: kind}
	if n, err := strconv.Atoi(arg); err == nil {
		a.Index = n
	} else {
		a.ID = arg
	}
	return a
}

// WitnessListScreen lists the witnesses and lets the user add, edit or remove them.
type WitnessListScreen struct {
	engine    *engine.Engine
	view      engine.StepView
	steps     []report.Step
	form      *huh.Form
	choice    string
	action    Action
	notice    string
	done      bool
	cancelled bool
}

// NewWitnessListScreen builds the menu for the current witness list.
func NewWitnessListScreen(e *engine.Engine, notice string) *WitnessListScreen {
	s := &WitnessListScreen{
		engine: e,
		view:   e.CurrentStep(),
		steps:  e.Steps(),
		notice: notice,
	}

	var opts []huh.Option[string]
	for i, w := range e.Witnesses() {
		opts = append(opts,
			huh.NewOption("Edytuj: "+witnessName(i, w), encodeAction(ActionEdit, i)),
			huh.NewOption("Usuń: "+witnessName(i, w), encodeAction(ActionRemove, i)),
		)
	}
	opts = append(opts,
		huh.NewOption("Dodaj świadka", ActionAdd),
		huh.NewOption("Dalej", ActionNext),
		huh.NewOption("Wstecz", ActionBack),
	)
	s.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Key("action").
			Title("Co chcesz zrobić?").
			Options(opts...).
			Value(&s.choice),
	)).WithShowHelp(false)
	return s
}

func witnessName(i int, w report.Witness) string {
	name := strings.TrimSpace(w.FirstName + " " + w.LastName)
	if name == "" {
		return fmt.Sprintf("świadek %d", i+1)
	}
	return name
}

func (s *WitnessListScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *WitnessListScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, nil
		case "esc":
			s.action, s.done = Action{Kind: ActionBack}, true
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	if s.form.State == huh.StateCompleted {
		s.action, s.done = decodeAction(s.choice), true
	}
	return s, cmd
}

func (s *WitnessListScreen) View() string {
	var lines []string
	witnesses := s.engine.Witnesses()
	if len(witnesses) == 0 {
		lines = append(lines, components.HintStyle.Render("Nie dodano jeszcze żadnego świadka."))
	}
	for i, w := range witnesses {
		line := fmt.Sprintf("%d. %s", i+1, witnessName(i, w))
		if w.City != "" {
			line += ", " + w.City
		}
		if w.Statement != "" {
			line += components.HintStyle.Render(" (oświadczenie dołączone)")
		}
		lines = append(lines, line)
	}

	parts := []string{
		components.StepBar(s.steps, s.view),
		"",
		components.TitleStyle.Render(strings.ToUpper(s.view.Step.Title)),
		components.SubtitleStyle.Render(s.view.Step.Description),
		strings.Join(lines, "\n"),
		"",
	}
	if s.notice != "" {
		parts = append(parts, components.ErrorStyle.Render(s.notice), "")
	}
	parts = append(parts,
		s.form.View(),
		"",
		components.HintStyle.Render("Enter: wybierz | Esc: wstecz | Ctrl+C: wyjście"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Done reports whether an action was chosen.
func (s *WitnessListScreen) Done() bool { return s.done }

// Cancelled reports whether the user quit.
func (s *WitnessListScreen) Cancelled() bool { return s.cancelled }

// Action returns the chosen action.
func (s *WitnessListScreen) Action() Action { return s.action }

// WitnessScreen edits one witness and optionally attaches a written statement.
type WitnessScreen struct {
	engine    *engine.Engine
	index     int
	form      *huh.Form
	helpPanel *components.HelpPanel
	values    map[report.WitnessField]*string
	statement string
	done      bool
	back      bool
	cancelled bool
}

// NewWitnessScreen builds the form of witness i.
func NewWitnessScreen(e *engine.Engine, i int, strict bool) *WitnessScreen {
	s := &WitnessScreen{
		engine:    e,
		index:     i,
		helpPanel: components.NewHelpPanel("Imię i nazwisko świadka są wymagane."),
		values:    make(map[report.WitnessField]*string),
	}

	var w report.Witness
	if ws := e.Witnesses(); i >= 0 && i < len(ws) {
		w = ws[i]
	}

	var fields []huh.Field
	for _, f := range report.WitnessFields {
		v := w.Get(f)
		s.values[f] = &v
		in := huh.NewInput().
			Key(string(f)).
			Title(report.WitnessLabel(f)).
			Description(e.Error(report.WitnessFieldKey(i, f))).
			Value(&v)
		if strict {
			in.Validate(validate.ForWitness(f))
		}
		fields = append(fields, in)
	}

	stmtTitle := "Oświadczenie świadka (ścieżka do pliku)"
	if w.Statement != "" {
		stmtTitle = "Nowe oświadczenie świadka (zastąpi dołączone)"
	}
	fields = append(fields, huh.NewInput().
		Key("statement").
		Title(stmtTitle).
		Value(&s.statement).
		Validate(optionalFile))

	s.form = huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(false).WithShowErrors(true)
	return s
}

// optionalFile accepts an empty value or the path of a regular file.
func optionalFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return existingFile(path)
}

func existingFile(path string) error {
	info, err := os.Stat(strings.TrimSpace(path))
	if err != nil {
		return errors.New("Nie znaleziono pliku.")
	}
	if info.IsDir() {
		return errors.New("Wskaż plik, a nie katalog.")
	}
	return nil
}

// Apply writes the changed fields into witness i and uploads the statement.
func (s *WitnessScreen) Apply() error {
	ws := s.engine.Witnesses()
	if s.index < 0 || s.index >= len(ws) {
		return engine.ErrWitnessIndex
	}
	current := ws[s.index]

	var errs []error
	for _, f := range report.WitnessFields {
		if v := *s.values[f]; v != current.Get(f) {
			errs = append(errs, s.engine.UpdateWitness(s.index, f, v))
		}
	}
	if path := strings.TrimSpace(s.statement); path != "" {
		errs = append(errs, s.attachStatement(path, current.Statement))
	}
	return errors.Join(errs...)
}

func (s *WitnessScreen) attachStatement(path, previous string) error {
	f, err := attachment.OpenLocal(path)
	if err != nil {
		return err
	}
	added, err := s.engine.Upload(attachment.CategoryWitnessStatement, f)
	if err != nil {
		return err
	}
	if err := s.engine.AttachWitnessStatement(s.index, added[0].ID); err != nil {
		return err
	}
	if previous != "" {
		s.engine.RemoveAttachment(attachment.CategoryWitnessStatement, previous)
	}
	s.statement = ""
	return nil
}

func (s *WitnessScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *WitnessScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, nil
		case "esc":
			s.back = true
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.helpPanel.SetWidth(msg.Width / 2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	if focused := s.form.GetFocusedField(); focused != nil {
		if key := focused.GetKey(); key == "statement" {
			s.helpPanel.SetField(key)
		} else {
			s.helpPanel.SetText(help.Witness(report.WitnessField(key)))
		}
	}
	if s.form.State == huh.StateCompleted {
		s.done = true
	}
	return s, cmd
}

func (s *WitnessScreen) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render(fmt.Sprintf("ŚWIADEK %d", s.index+1)),
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render("Tab: następne pole | Enter: zapisz | Esc: wróć do listy"),
	)
}

// Done reports whether the form was completed.
func (s *WitnessScreen) Done() bool { return s.done }

// Back reports whether the user left the form without completing it.
func (s *WitnessScreen) Back() bool { return s.back }

// Cancelled reports whether the user quit.
func (s *WitnessScreen) Cancelled() bool { return s.cancelled }

// Index returns the witness being edited.
func (s *WitnessScreen) Index() int { return s.index }
