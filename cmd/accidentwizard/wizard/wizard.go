package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/accidentwizard/cmd/accidentwizard/wizard/components"
	"github.com/mrsinham/accidentwizard/cmd/accidentwizard/wizard/screens"
	"github.com/mrsinham/accidentwizard/internal/engine"
	"github.com/mrsinham/accidentwizard/internal/report"
)

// DefaultDraftFile is offered when saving a draft that was not loaded from a file.
const DefaultDraftFile = "zgloszenie.yaml"

// Phase represents the screen the wizard shows.
type Phase int

const (
	PhaseStep Phase = iota
	PhaseAttachments
	PhaseWitnessList
	PhaseWitness
	PhaseReview
	PhaseSaveDraft
)

// Options configures a wizard session.
type Options struct {
	// Strict makes the forms refuse invalid values.
	Strict bool
	// From is a draft file loaded before the first screen.
	From        string
	DownloadDir string
	Logger      *slog.Logger
}

type screen interface {
	tea.Model
	Done() bool
	Cancelled() bool
}

// Wizard drives the engine from the terminal, one screen per step.
type Wizard struct {
	ctx    context.Context
	engine *engine.Engine
	opts   Options
	log    *slog.Logger

	phase  Phase
	screen screen

	saveForm  *huh.Form
	draftPath string

	width  int
	height int

	cancelled bool
	finished  bool
}

// New returns a wizard positioned on the engine's current step.
func New(ctx context.Context, e *engine.Engine, opts Options) *Wizard {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	w := &Wizard{
		ctx:       ctx,
		engine:    e,
		opts:      opts,
		log:       log.With("component", "wizard"),
		draftPath: opts.From,
	}
	if w.draftPath == "" {
		w.draftPath = DefaultDraftFile
	}
	w.enterCurrentStep("")
	return w
}

func (w *Wizard) Init() tea.Cmd {
	return w.screen.Init()
}

func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		w.width = wsm.Width
		w.height = wsm.Height
	}
	if w.phase == PhaseSaveDraft {
		return w.updateSaveDraft(msg)
	}

	_, cmd := w.screen.Update(msg)
	if w.screen.Cancelled() {
		w.cancelled = true
		return w, tea.Quit
	}
	if !w.screen.Done() && !backRequested(w.screen) {
		return w, cmd
	}

	switch s := w.screen.(type) {
	case *screens.StepScreen:
		return w.afterStep(s)
	case *screens.AttachmentScreen:
		return w.afterAttachments(s)
	case *screens.WitnessListScreen:
		return w.afterWitnessList(s)
	case *screens.WitnessScreen:
		return w.afterWitness(s)
	case *screens.ReviewScreen:
		return w.afterReview(s)
	}
	return w, cmd
}

func backRequested(s screen) bool {
	b, ok := s.(interface{ Back() bool })
	return ok && b.Back()
}

func (w *Wizard) View() string {
	if w.cancelled {
		return "Przerwano.\n"
	}
	if w.phase == PhaseSaveDraft {
		return w.viewSaveDraft()
	}
	return w.screen.View()
}

// show makes s the active screen.
func (w *Wizard) show(phase Phase, s screen) (tea.Model, tea.Cmd) {
	w.phase = phase
	w.screen = s
	if w.width > 0 {
		s.Update(tea.WindowSizeMsg{Width: w.width, Height: w.height})
	}
	w.log.Debug("screen", "phase", phase, "step", w.engine.CurrentStep().Step.ID)
	return w, s.Init()
}

func (w *Wizard) enterCurrentStep(notice string) (tea.Model, tea.Cmd) {
	id := w.engine.CurrentStep().Step.ID
	switch {
	case screens.HasForm(id):
		return w.show(PhaseStep, screens.NewStepScreen(w.engine, w.opts.Strict))
	case id == report.StepWitnesses:
		return w.show(PhaseWitnessList, screens.NewWitnessListScreen(w.engine, notice))
	default:
		return w.show(PhaseReview, screens.NewReviewScreen(w.ctx, w.engine, w.opts.DownloadDir, notice))
	}
}

// advance leaves the current step, or redraws it with its errors when the engine
// refuses.
func (w *Wizard) advance() (tea.Model, tea.Cmd) {
	if err := w.engine.Next(w.ctx); err != nil && !errors.Is(err, engine.ErrStepInvalid) {
		return w.enterCurrentStep(err.Error())
	}
	return w.enterCurrentStep("")
}

func (w *Wizard) back() (tea.Model, tea.Cmd) {
	w.engine.Back()
	return w.enterCurrentStep("")
}

func (w *Wizard) afterStep(s *screens.StepScreen) (tea.Model, tea.Cmd) {
	if err := s.Apply(); err != nil {
		w.log.Warn("apply step", "step", s.Step().ID, "error", err)
	}
	if s.Back() {
		return w.back()
	}
	if s.Step().ID == report.StepAccident {
		return w.show(PhaseAttachments, screens.NewAttachmentScreen(w.ctx, w.engine))
	}
	return w.advance()
}

func (w *Wizard) afterAttachments(s *screens.AttachmentScreen) (tea.Model, tea.Cmd) {
	if s.Action().Kind == screens.ActionBack {
		return w.show(PhaseStep, screens.NewStepScreen(w.engine, w.opts.Strict))
	}

	err := w.engine.Next(w.ctx)
	if !errors.Is(err, engine.ErrStepInvalid) {
		return w.enterCurrentStep("")
	}
	for _, f := range report.StepFields[report.StepAccident] {
		if w.engine.Error(f) != "" {
			return w.show(PhaseStep, screens.NewStepScreen(w.engine, w.opts.Strict))
		}
	}
	// Only the medical documents are missing; the screen shows the requirement.
	return w.show(PhaseAttachments, screens.NewAttachmentScreen(w.ctx, w.engine))
}

func (w *Wizard) afterWitnessList(s *screens.WitnessListScreen) (tea.Model, tea.Cmd) {
	a := s.Action()
	switch a.Kind {
	case screens.ActionAdd:
		i := w.engine.AddWitness()
		return w.show(PhaseWitness, screens.NewWitnessScreen(w.engine, i, w.opts.Strict))
	case screens.ActionEdit:
		if active, ok := w.engine.ActiveWitness(); !ok || active != a.Index {
			if err := w.engine.ToggleWitness(a.Index); err != nil {
				return w.show(PhaseWitnessList, screens.NewWitnessListScreen(w.engine, err.Error()))
			}
		}
		return w.show(PhaseWitness, screens.NewWitnessScreen(w.engine, a.Index, w.opts.Strict))
	case screens.ActionRemove:
		notice := ""
		if err := w.engine.RemoveWitness(a.Index); err != nil {
			notice = err.Error()
		}
		return w.show(PhaseWitnessList, screens.NewWitnessListScreen(w.engine, notice))
	case screens.ActionNext:
		return w.advance()
	default:
		return w.back()
	}
}

func (w *Wizard) afterWitness(s *screens.WitnessScreen) (tea.Model, tea.Cmd) {
	notice := ""
	if err := s.Apply(); err != nil {
		notice = fmt.Sprintf("Świadek %d: %v", s.Index()+1, err)
	}
	if active, ok := w.engine.ActiveWitness(); ok && active == s.Index() {
		_ = w.engine.ToggleWitness(active)
	}
	return w.show(PhaseWitnessList, screens.NewWitnessListScreen(w.engine, notice))
}

func (w *Wizard) afterReview(s *screens.ReviewScreen) (tea.Model, tea.Cmd) {
	a := s.Action()
	switch a.Kind {
	case screens.ActionSave:
		return w.transitionToSaveDraft()
	case screens.ActionSelect:
		if err := w.engine.SelectStep(report.StepID(a.ID)); err != nil {
			return w.enterCurrentStep(err.Error())
		}
		return w.enterCurrentStep("")
	case screens.ActionQuit:
		w.finished = true
		return w, tea.Quit
	default:
		return w.back()
	}
}

func (w *Wizard) transitionToSaveDraft() (tea.Model, tea.Cmd) {
	w.phase = PhaseSaveDraft
	w.saveForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("draft_path").
				Title("Zapisz szkic do pliku").
				Description("Ścieżka pliku YAML").
				Value(&w.draftPath).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("Podaj ścieżkę pliku.")
					}
					return nil
				}),
		),
	).WithShowHelp(false).WithShowErrors(true)
	return w, w.saveForm.Init()
}

func (w *Wizard) updateSaveDraft(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return w.enterCurrentStep("")
		case "ctrl+c":
			w.cancelled = true
			return w, tea.Quit
		}
	}

	form, cmd := w.saveForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.saveForm = f
	}
	if w.saveForm.State != huh.StateCompleted {
		return w, cmd
	}

	if err := SaveToYAML(w.draftPath, FromEngine(w.engine)); err != nil {
		w.log.Error("save draft", "path", w.draftPath, "error", err)
		return w.enterCurrentStep("Nie udało się zapisać szkicu: " + err.Error())
	}
	w.log.Info("draft saved", "path", w.draftPath)
	path, _ := filepath.Abs(w.draftPath)
	return w.enterCurrentStep("Zapisano szkic w " + path)
}

func (w *Wizard) viewSaveDraft() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		components.TitleStyle.Render("ZAPIS SZKICU"),
		"",
		w.saveForm.View(),
		"",
		components.HintStyle.Render("Enter: zapisz | Esc: wróć"),
	)
}

// Phase returns the active phase.
func (w *Wizard) Phase() Phase { return w.phase }

// Finished reports whether the user left through the quit action.
func (w *Wizard) Finished() bool { return w.finished }

// Cancelled reports whether the user interrupted the wizard.
func (w *Wizard) Cancelled() bool { return w.cancelled }

// Run loads opts.From when set and runs the wizard until the user quits or ctx
// is canceled.
func Run(ctx context.Context, e *engine.Engine, opts Options) error {
	if opts.From != "" {
		df, err := LoadFromYAML(opts.From)
		if err != nil {
			return fmt.Errorf("loading draft: %w", err)
		}
		if err := df.Apply(e); err != nil {
			return fmt.Errorf("loading draft: %w", err)
		}
	}

	w := New(ctx, e, opts)
	p := tea.NewProgram(w, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running wizard: %w", err)
	}
	return nil
}
