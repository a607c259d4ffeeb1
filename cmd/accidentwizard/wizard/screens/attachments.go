package screens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/accidentwizard/cmd/accidentwizard/wizard/components"
	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/engine"
	"github.com/mrsinham/accidentwizard/internal/report"
)

// Collections managed on the accident step. Witness statements are attached from
// the witness form.
var accidentCategories = []attachment.Category{
	attachment.CategoryMedical,
	attachment.CategoryAdditional,
	attachment.CategoryLegalNotice,
}

// PreviewMsg reports the outcome of an attachment preview.
type PreviewMsg struct {
	Name string
	Err  error
}

// AttachmentScreen manages the documents attached to the accident description.
type AttachmentScreen struct {
	ctx       context.Context
	engine    *engine.Engine
	view      engine.StepView
	steps     []report.Step
	form      *huh.Form
	choice    string
	path      string
	adding    attachment.Category
	inPath    bool
	notice    string
	failed    bool
	action    Action
	done      bool
	cancelled bool
}

// NewAttachmentScreen opens the attachment menu.
func NewAttachmentScreen(ctx context.Context, e *engine.Engine) *AttachmentScreen {
	s := &AttachmentScreen{
		ctx:    ctx,
		engine: e,
		view:   e.CurrentStep(),
		steps:  e.Steps(),
	}
	s.buildMenu()
	return s
}

func (s *AttachmentScreen) buildMenu() {
	s.inPath = false
	s.choice = ""

	var opts []huh.Option[string]
	for _, c := range accidentCategories {
		opts = append(opts, huh.NewOption("Dodaj: "+c.Label(), encodeAction(ActionAdd, c.String())))
	}
	for _, c := range accidentCategories {
		for _, a := range s.engine.Attachments(c) {
			opts = append(opts,
				huh.NewOption("Podgląd: "+a.Name, encodeAction(ActionPreview, a.ID)),
				huh.NewOption("Usuń: "+a.Name, encodeAction(ActionRemove, c.String()+"/"+a.ID)),
			)
		}
	}
	opts = append(opts,
		huh.NewOption("Dalej", ActionNext),
		huh.NewOption("Wstecz", ActionBack),
	)
	s.form = huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Key("action").
			Title("Załączniki").
			Options(opts...).
			Value(&s.choice),
	)).WithShowHelp(false)
}

func (s *AttachmentScreen) buildPathForm(c attachment.Category) {
	s.inPath = true
	s.adding = c
	s.path = ""
	s.form = huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Key("path").
			Title(c.Label() + ": ścieżka do pliku").
			Value(&s.path).
			Validate(existingFile),
	)).WithShowHelp(false).WithShowErrors(true)
}

// SetNotice shows a message above the menu.
func (s *AttachmentScreen) SetNotice(msg string, failed bool) {
	s.notice, s.failed = msg, failed
}

func (s *AttachmentScreen) Init() tea.Cmd {
	return s.form.Init()
}

func (s *AttachmentScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			s.cancelled = true
			return s, nil
		case "esc":
			if s.inPath {
				s.buildMenu()
				return s, s.form.Init()
			}
			s.action, s.done = Action{Kind: ActionBack}, true
			return s, nil
		}
	case PreviewMsg:
		switch {
		case msg.Err == nil:
			s.SetNotice("Otwarto podgląd: "+msg.Name, false)
		case errors.Is(msg.Err, attachment.ErrPreviewUnavailable):
			s.SetNotice("Podgląd pliku "+msg.Name+" jest niedostępny.", false)
		default:
			s.SetNotice(fmt.Sprintf("Nie udało się otworzyć podglądu %s: %v", msg.Name, msg.Err), true)
		}
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}
	if s.form.State != huh.StateCompleted {
		return s, cmd
	}

	if s.inPath {
		s.upload()
		s.buildMenu()
		return s, s.form.Init()
	}
	return s.handle(decodeAction(s.choice))
}

func (s *AttachmentScreen) handle(a Action) (tea.Model, tea.Cmd) {
	switch a.Kind {
	case ActionAdd:
		c, err := attachment.ParseCategory(a.ID)
		if err != nil {
			s.SetNotice(err.Error(), true)
			s.buildMenu()
			return s, s.form.Init()
		}
		s.buildPathForm(c)
		return s, s.form.Init()
	case ActionRemove:
		cat, id, _ := strings.Cut(a.ID, "/")
		if c, err := attachment.ParseCategory(cat); err == nil && s.engine.RemoveAttachment(c, id) {
			s.SetNotice("Usunięto załącznik.", false)
		}
		s.buildMenu()
		return s, s.form.Init()
	case ActionPreview:
		s.buildMenu()
		return s, tea.Batch(s.form.Init(), s.preview(a.ID))
	default:
		s.action, s.done = a, true
		return s, nil
	}
}

func (s *AttachmentScreen) upload() {
	f, err := attachment.OpenLocal(strings.TrimSpace(s.path))
	if err != nil {
		s.SetNotice("Nie udało się otworzyć pliku: "+err.Error(), true)
		return
	}
	if _, err := s.engine.Upload(s.adding, f); err != nil {
		if errors.Is(err, attachment.ErrTooLarge) {
			s.SetNotice(fmt.Sprintf("Plik %s jest zbyt duży.", f.Name()), true)
			return
		}
		s.SetNotice(err.Error(), true)
		return
	}
	s.SetNotice("Dodano: "+f.Name(), false)
}

func (s *AttachmentScreen) preview(id string) tea.Cmd {
	name := id
	for _, c := range accidentCategories {
		for _, a := range s.engine.Attachments(c) {
			if a.ID == id {
				name = a.Name
			}
		}
	}
	return func() tea.Msg {
		_, err := s.engine.Preview(s.ctx, id)
		return PreviewMsg{Name: name, Err: err}
	}
}

func (s *AttachmentScreen) View() string {
	parts := []string{
		components.StepBar(s.steps, s.view),
		"",
		components.TitleStyle.Render("ZAŁĄCZNIKI"),
		components.SubtitleStyle.Render("Dołącz dokumentację medyczną i inne dokumenty dotyczące zdarzenia."),
	}
	for _, c := range accidentCategories {
		parts = append(parts, components.SectionStyle.Render(c.Label()))
		list := s.engine.Attachments(c)
		if len(list) == 0 {
			parts = append(parts, components.HintStyle.Render("brak plików"))
		}
		for _, a := range list {
			parts = append(parts, fmt.Sprintf("  %s (%s)", a.Name, attachment.FormatSize(a.Size)))
		}
	}
	parts = append(parts, "")

	if msg := s.engine.Error(engine.MedicalDocumentsKey); msg != "" {
		parts = append(parts, components.ErrorStyle.Render(msg), "")
	}
	if s.notice != "" {
		style := components.HintStyle
		if s.failed {
			style = components.ErrorStyle
		}
		parts = append(parts, style.Render(s.notice), "")
	}
	parts = append(parts,
		s.form.View(),
		"",
		components.HintStyle.Render("Enter: wybierz | Esc: wstecz | Ctrl+C: wyjście"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Done reports whether the user chose to leave the screen.
func (s *AttachmentScreen) Done() bool { return s.done }

// Cancelled reports whether the user quit.
func (s *AttachmentScreen) Cancelled() bool { return s.cancelled }

// Action returns the action that closed the screen, next or back.
func (s *AttachmentScreen) Action() Action { return s.action }
