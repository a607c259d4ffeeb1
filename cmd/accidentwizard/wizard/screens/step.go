package screens

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/accidentwizard/cmd/accidentwizard/wizard/components"
	"github.com/mrsinham/accidentwizard/internal/engine"
	"github.com/mrsinham/accidentwizard/internal/report"
	"github.com/mrsinham/accidentwizard/internal/validate"
)

// Answers offered for a yes/no question. Skip leaves it unanswered.
const (
	answerSkip = ""
	answerYes  = "tak"
	answerNo   = "nie"
)

// Inputs shown on each form step. This includes the optional fields that are not
// checked when leaving the step.
var (
	stepInputs = map[report.StepID][]string{
		report.StepIdentity: {
			report.FieldPESEL,
			report.FieldIDNumber,
			report.FieldFirstName,
			report.FieldLastName,
			report.FieldPhone,
		},
		report.StepResidence: {report.FieldStreet},
		report.StepAccident: {
			report.FieldAccidentDay,
			report.FieldAccidentAt,
			report.FieldPlace,
			report.FieldWorkStart,
			report.FieldWorkEnd,
			report.FieldInjuries,
			report.FieldNarrative,
			report.FieldAidPlace,
			report.FieldAuthority,
			report.FieldMachines,
		},
	}

	stepQuestions = map[report.StepID][]string{
		report.StepAccident: report.FlagNames,
	}

	multiline = map[string]bool{
		report.FieldNarrative: true,
		report.FieldMachines:  true,
	}
)

// HasForm reports whether a step is edited with a StepScreen.
func HasForm(id report.StepID) bool {
	_, ok := stepInputs[id]
	return ok
}

// StepScreen edits the text fields and yes/no answers of the current step.
type StepScreen struct {
	engine    *engine.Engine
	view      engine.StepView
	steps     []report.Step
	form      *huh.Form
	helpPanel *components.HelpPanel
	values    map[string]*string
	answers   map[string]*string
	strict    bool
	done      bool
	back      bool
	cancelled bool
	width     int
}

// NewStepScreen builds the form of the engine's current step. With strict set
// the form refuses invalid values; otherwise errors recorded by the engine are
// shown next to the fields.
func NewStepScreen(e *engine.Engine, strict bool) *StepScreen {
	view := e.CurrentStep()
	s := &StepScreen{
		engine:    e,
		view:      view,
		steps:     e.Steps(),
		helpPanel: components.NewHelpPanel(components.StepInfo(view.Step)),
		values:    make(map[string]*string),
		answers:   make(map[string]*string),
		strict:    strict,
	}

	var fields []huh.Field
	for _, name := range stepInputs[view.Step.ID] {
		v := e.Field(name)
		s.values[name] = &v
		fields = append(fields, s.input(name, &v))
	}
	groups := []*huh.Group{huh.NewGroup(fields...)}

	if questions := stepQuestions[view.Step.ID]; len(questions) > 0 {
		var selects []huh.Field
		for _, name := range questions {
			a := formatAnswer(e.Flag(name))
			s.answers[name] = &a
			selects = append(selects, huh.NewSelect[string]().
				Key(name).
				Title(report.Label(name)).
				Options(
					huh.NewOption("pomiń", answerSkip),
					huh.NewOption("tak", answerYes),
					huh.NewOption("nie", answerNo),
				).
				Value(&a))
		}
		groups = append(groups, huh.NewGroup(selects...))
	}

	s.form = huh.NewForm(groups...).WithShowHelp(false).WithShowErrors(true)
	return s
}

func (s *StepScreen) input(name string, value *string) huh.Field {
	desc := s.engine.Error(name)
	if multiline[name] {
		t := huh.NewText().
			Key(name).
			Title(report.Label(name)).
			Description(desc).
			Lines(4).
			Value(value)
		if s.strict {
			t.Validate(fieldValidator(name))
		}
		return t
	}
	in := huh.NewInput().
		Key(name).
		Title(report.Label(name)).
		Description(desc).
		Value(value)
	if s.strict {
		in.Validate(fieldValidator(name))
	}
	return in
}

// fieldValidator checks a value the way the engine will store it.
func fieldValidator(name string) func(string) error {
	rule := validate.For(name)
	if name == report.FieldIDNumber {
		return func(v string) error { return rule(strings.ToUpper(v)) }
	}
	return rule
}

func formatAnswer(b *bool) string {
	switch {
	case b == nil:
		return answerSkip
	case *b:
		return answerYes
	default:
		return answerNo
	}
}

func parseAnswer(s string) *bool {
	switch s {
	case answerYes:
		v := true
		return &v
	case answerNo:
		v := false
		return &v
	default:
		return nil
	}
}

// Apply writes the changed form values into the engine draft.
func (s *StepScreen) Apply() error {
	var errs []error
	for _, name := range stepInputs[s.view.Step.ID] {
		if v := *s.values[name]; v != s.engine.Field(name) {
			errs = append(errs, s.engine.HandleInput(name, v))
		}
	}
	for name, a := range s.answers {
		if *a != formatAnswer(s.engine.Flag(name)) {
			errs = append(errs, s.engine.SetFlag(name, parseAnswer(*a)))
		}
	}
	return errors.Join(errs...)
}

func (s *StepScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *StepScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		s.width = msg.Width
		s.helpPanel.SetWidth(msg.Width / 2)
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	if focused := s.form.GetFocusedField(); focused != nil {
		s.helpPanel.SetField(focused.GetKey())
	}
	if s.form.State == huh.StateCompleted {
		s.done = true
	}
	return s, cmd
}

func (s *StepScreen) View() string {
	step := s.view.Step
	return lipgloss.JoinVertical(lipgloss.Left,
		components.StepBar(s.steps, s.view),
		"",
		components.TitleStyle.Render(strings.ToUpper(step.Title)),
		components.SubtitleStyle.Render(step.Description),
		s.form.View(),
		"",
		s.helpPanel.View(),
		"",
		components.HintStyle.Render("Tab: następne pole | Enter: dalej | Esc: wstecz | Ctrl+C: wyjście"),
	)
}

// Done reports whether the form was completed.
func (s *StepScreen) Done() bool { return s.done }

// Back reports whether the user asked for the previous step.
func (s *StepScreen) Back() bool { return s.back }

// Cancelled reports whether the user quit.
func (s *StepScreen) Cancelled() bool { return s.cancelled }

// Step returns the step being edited.
func (s *StepScreen) Step() report.Step { return s.view.Step }
