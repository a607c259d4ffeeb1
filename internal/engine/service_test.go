package engine

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/report"
)

type downloadCall struct {
	id     int64
	format report.Format
}

// fakeService records calls. createFn and downloadFn, when set, decide the outcome
// of the n-th call (starting at 1).
type fakeService struct {
	mu         sync.Mutex
	creates    []report.Payload
	downloads  []downloadCall
	createFn   func(n int, p report.Payload) (report.Document, error)
	downloadFn func(n int) error
}

func (s *fakeService) CreateDocument(_ context.Context, p report.Payload) (report.Document, error) {
	s.mu.Lock()
	s.creates = append(s.creates, p)
	n := len(s.creates)
	fn := s.createFn
	s.mu.Unlock()

	if fn != nil {
		return fn(n, p)
	}
	return report.Document{ID: int64(100 + n), Draft: p.Draft}, nil
}

func (s *fakeService) DownloadDocumentFile(_ context.Context, id int64, format report.Format) error {
	s.mu.Lock()
	s.downloads = append(s.downloads, downloadCall{id: id, format: format})
	n := len(s.downloads)
	fn := s.downloadFn
	s.mu.Unlock()

	if fn != nil {
		return fn(n)
	}
	return nil
}

func (s *fakeService) createCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.creates)
}

func (s *fakeService) lastPayload() report.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates[len(s.creates)-1]
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, svc DocumentService, opts ...Option) *Engine {
	t.Helper()
	e := New(svc, append([]Option{WithLogger(quietLogger())}, opts...)...)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

const validNarrative = "Upadłem na mokrej posadzce" // 26 characters

// fillValidDraft fills every required field and attaches a medical document.
func fillValidDraft(t *testing.T, e *Engine) {
	t.Helper()
	fields := map[string]string{
		report.FieldPESEL:       "99999999999",
		report.FieldIDNumber:    "abc123456",
		report.FieldFirstName:   "Jan",
		report.FieldLastName:    "Kowalski",
		report.FieldAccidentDay: "2024-05-17",
		report.FieldAccidentAt:  "09:30",
		report.FieldPlace:       "hala magazynowa",
		report.FieldInjuries:    "złamanie nadgarstka",
		report.FieldNarrative:   validNarrative,
	}
	for f, v := range fields {
		if err := e.HandleInput(f, v); err != nil {
			t.Fatalf("HandleInput(%s): %v", f, err)
		}
	}
	if _, err := e.Upload(attachment.CategoryMedical, attachment.NewBytesFile("wypis.pdf", []byte("%PDF"))); err != nil {
		t.Fatalf("Upload: %v", err)
	}
}

// advanceTo calls Next until the engine shows step id.
func advanceTo(t *testing.T, e *Engine, id report.StepID) {
	t.Helper()
	for e.CurrentStep().Step.ID != id {
		if err := e.Next(context.Background()); err != nil {
			t.Fatalf("Next from %s: %v (errors: %v)", e.CurrentStep().Step.ID, err, e.Errors())
		}
	}
}

func witnessErrors(e *Engine) map[string]string {
	out := map[string]string{}
	for k, v := range e.Errors() {
		if strings.HasPrefix(k, report.WitnessKeyPrefix) {
			out[k] = v
		}
	}
	return out
}
