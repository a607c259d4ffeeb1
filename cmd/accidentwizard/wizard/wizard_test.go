package wizard

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/docservice"
	"github.com/mrsinham/accidentwizard/internal/engine"
	"github.com/mrsinham/accidentwizard/internal/report"
)

// engineAt returns an ungated engine holding a sample draft and one medical
// document, moved forward by steps. The medical document requirement applies
// without gating too, so the accident step needs the upload.
func engineAt(t *testing.T, steps int) *engine.Engine {
	t.Helper()
	mem, err := docservice.NewMemory(docservice.WithDownloadDir(t.TempDir()))
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	e := engine.New(mem, engine.WithGating(false))
	t.Cleanup(func() { _ = e.Close() })
	e.LoadDraft(report.SampleDraft(1, rand.New(rand.NewPCG(3, 4))))
	if _, err := e.Upload(attachment.CategoryMedical, attachment.NewBytesFile("wypis.pdf", []byte("wypis ze szpitala"))); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	for i := 0; i < steps; i++ {
		if err := e.Next(context.Background()); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	return e
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewWizard_StartsOnCurrentStep(t *testing.T) {
	tests := []struct {
		name  string
		steps int
		phase Phase
		title string
	}{
		{"identity", 0, PhaseStep, "TWOJE DANE"},
		{"residence", 1, PhaseStep, "ADRES ZAMIESZKANIA"},
		{"witnesses", 3, PhaseWitnessList, "ŚWIADKOWIE"},
		{"review", 4, PhaseReview, "PODSUMOWANIE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New(context.Background(), engineAt(t, tt.steps), Options{})
			if w.Phase() != tt.phase {
				t.Errorf("Phase() = %v, want %v", w.Phase(), tt.phase)
			}
			if view := w.View(); !strings.Contains(view, tt.title) {
				t.Errorf("view does not contain %q:\n%s", tt.title, view)
			}
		})
	}
}

func TestWizard_EscGoesBack(t *testing.T) {
	tests := []struct {
		name      string
		steps     int
		wantStep  report.StepID
		wantPhase Phase
	}{
		{"first step stays", 0, report.StepIdentity, PhaseStep},
		{"residence to identity", 1, report.StepIdentity, PhaseStep},
		{"witnesses to accident", 3, report.StepAccident, PhaseStep},
		{"review to witnesses", 4, report.StepWitnesses, PhaseWitnessList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := engineAt(t, tt.steps)
			w := New(context.Background(), e, Options{})
			w.Update(key("esc"))

			if got := e.CurrentStep().Step.ID; got != tt.wantStep {
				t.Errorf("step = %s, want %s", got, tt.wantStep)
			}
			if w.Phase() != tt.wantPhase {
				t.Errorf("Phase() = %v, want %v", w.Phase(), tt.wantPhase)
			}
		})
	}
}

func TestWizard_EscKeepsEditedDraft(t *testing.T) {
	e := engineAt(t, 1)
	want := e.Field(report.FieldStreet)
	w := New(context.Background(), e, Options{})
	w.Update(key("esc"))

	if got := e.Field(report.FieldStreet); got != want {
		t.Errorf("ulica = %q, want %q", got, want)
	}
}

func TestWizard_CtrlCQuits(t *testing.T) {
	w := New(context.Background(), engineAt(t, 0), Options{})
	_, cmd := w.Update(key("ctrl+c"))

	if !w.Cancelled() {
		t.Error("wizard should be cancelled")
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if w.View() != "Przerwano.\n" {
		t.Errorf("View() = %q", w.View())
	}
}

func TestWizard_AccidentFormBack(t *testing.T) {
	e := engineAt(t, 2)
	w := New(context.Background(), e, Options{})
	w.Update(key("esc"))
	if e.CurrentStep().Step.ID != report.StepResidence {
		t.Errorf("step = %s, want residence", e.CurrentStep().Step.ID)
	}
}

func TestWizard_SaveDraftPhase(t *testing.T) {
	e := engineAt(t, 4)
	w := New(context.Background(), e, Options{From: "moj-szkic.yaml"})
	w.transitionToSaveDraft()

	if w.Phase() != PhaseSaveDraft {
		t.Fatalf("Phase() = %v, want PhaseSaveDraft", w.Phase())
	}
	if !strings.Contains(w.View(), "ZAPIS SZKICU") {
		t.Errorf("unexpected view:\n%s", w.View())
	}
	if w.draftPath != "moj-szkic.yaml" {
		t.Errorf("draftPath = %q, want the loaded file", w.draftPath)
	}

	w.Update(key("esc"))
	if w.Phase() != PhaseReview {
		t.Errorf("Phase() = %v, want PhaseReview", w.Phase())
	}
}

func TestNew_DefaultDraftPath(t *testing.T) {
	w := New(context.Background(), engineAt(t, 0), Options{})
	if w.draftPath != DefaultDraftFile {
		t.Errorf("draftPath = %q, want %q", w.draftPath, DefaultDraftFile)
	}
}

func TestWizard_AccidentStepNeedsMedicalDocument(t *testing.T) {
	mem, err := docservice.NewMemory(docservice.WithDownloadDir(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	e := engine.New(mem, engine.WithGating(false))
	t.Cleanup(func() { _ = e.Close() })
	e.LoadDraft(report.SampleDraft(1, rand.New(rand.NewPCG(3, 4))))
	for i := 0; i < 2; i++ {
		if err := e.Next(context.Background()); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}

	if err := e.Next(context.Background()); !errors.Is(err, engine.ErrStepInvalid) {
		t.Fatalf("Next without a medical document: err = %v, want ErrStepInvalid", err)
	}
	if e.Error(engine.MedicalDocumentsKey) == "" {
		t.Error("missing medical document should be reported")
	}
	if e.CurrentStep().Step.ID != report.StepAccident {
		t.Errorf("step = %s, want accident", e.CurrentStep().Step.ID)
	}
}
