package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mrsinham/accidentwizard/internal/report"
)

// DocumentService creates case documents and delivers their renderings.
type DocumentService interface {
	CreateDocument(ctx context.Context, p report.Payload) (report.Document, error)
	DownloadDocumentFile(ctx context.Context, id int64, format report.Format) error
}

// SubmitState is the state of the submission state machine.
type SubmitState int

const (
	SubmitIdle SubmitState = iota
	SubmitSubmitting
	SubmitSuccess
	SubmitError
)

func (s SubmitState) String() string {
	switch s {
	case SubmitSubmitting:
		return "submitting"
	case SubmitSuccess:
		return "success"
	case SubmitError:
		return "error"
	default:
		return "idle"
	}
}

// DownloadState names the format being downloaded, or idle.
type DownloadState string

const (
	DownloadIdle DownloadState = "idle"
	DownloadDOCX DownloadState = DownloadState(report.FormatDOCX)
	DownloadPDF  DownloadState = DownloadState(report.FormatPDF)
)

// Status is a snapshot of the submission controller, suitable for driving
// buttons and spinners.
type Status struct {
	State         SubmitState
	DocumentID    int64
	HasDocument   bool
	SubmitError   string
	DownloadError string
	Download      DownloadState
}

// SubmissionController runs document creation and downloads. Every submission is
// tagged with a generation; a response whose generation is no longer current is
// dropped.
type SubmissionController struct {
	svc DocumentService
	log *slog.Logger

	mu          sync.Mutex
	state       SubmitState
	docID       int64
	hasDoc      bool
	submitErr   string
	downloadErr string
	download    DownloadState
	gen         uint64
	closed      bool
}

// NewSubmissionController returns an idle controller.
func NewSubmissionController(svc DocumentService, log *slog.Logger) *SubmissionController {
	return &SubmissionController{svc: svc, log: log, download: DownloadIdle}
}

// Submit builds the payload and creates a document. It is a no-op while a
// submission is in flight or after one succeeded. build is called without the
// controller lock held.
func (c *SubmissionController) Submit(ctx context.Context, build func() (report.Payload, error)) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state == SubmitSubmitting || c.state == SubmitSuccess {
		c.mu.Unlock()
		return nil
	}
	c.state = SubmitSubmitting
	c.submitErr = ""
	c.downloadErr = ""
	c.docID, c.hasDoc = 0, false
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	payload, err := build()
	if err != nil {
		return c.fail(gen, err)
	}

	c.log.Info("creating document", "witnesses", len(payload.Draft.Witnesses), "attachments", len(payload.Attachments))
	doc, err := c.svc.CreateDocument(ctx, payload)
	if err != nil {
		return c.fail(gen, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.Debug("dropping late submission response", "generation", gen, "current", c.gen, "document_id", doc.ID)
		return ErrSuperseded
	}
	c.state = SubmitSuccess
	c.docID, c.hasDoc = doc.ID, true
	c.log.Info("document created", "document_id", doc.ID)
	return nil
}

func (c *SubmissionController) fail(gen uint64, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.log.Debug("dropping late submission error", "generation", gen, "current", c.gen, "error", err)
		return ErrSuperseded
	}
	c.state = SubmitError
	if errors.Is(err, ErrDraftInvalid) {
		c.submitErr = MsgDraftInvalid
		c.log.Info("submission blocked by validation errors")
		return err
	}
	c.submitErr = userMessage(err, MsgSubmitFailed)
	c.log.Error("document creation failed", "error", err)
	return err
}

// Invalidate is called on every draft edit. A terminal result is discarded so a
// fresh submission is needed before downloading. An in-flight submission is left
// alone.
func (c *SubmissionController) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != SubmitSuccess && c.state != SubmitError {
		return
	}
	c.state = SubmitIdle
	c.docID, c.hasDoc = 0, false
	c.submitErr = ""
	c.downloadErr = ""
	c.gen++
}

// Reset returns to idle unconditionally. A response of a submission still in
// flight will be dropped.
func (c *SubmissionController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = SubmitIdle
	c.docID, c.hasDoc = 0, false
	c.submitErr = ""
	c.downloadErr = ""
	c.gen++
}

// Download retrieves a rendering of the prepared document. Only one download may
// be in flight; the download state is back to idle when Download returns.
func (c *SubmissionController) Download(ctx context.Context, format report.Format) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if !c.hasDoc {
		c.downloadErr = MsgNoDocument
		c.mu.Unlock()
		return ErrNoDocument
	}
	if c.download != DownloadIdle {
		c.mu.Unlock()
		return ErrDownloadBusy
	}
	id, gen := c.docID, c.gen
	c.download = DownloadState(format)
	c.downloadErr = ""
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.download = DownloadIdle
		c.mu.Unlock()
	}()

	if err := c.svc.DownloadDocumentFile(ctx, id, format); err != nil {
		c.log.Error("document download failed", "document_id", id, "format", format, "error", err)
		c.mu.Lock()
		if gen == c.gen {
			c.downloadErr = userMessage(err, MsgDownloadFailed)
		}
		c.mu.Unlock()
		return err
	}
	c.log.Info("document downloaded", "document_id", id, "format", format)
	return nil
}

// Status returns a snapshot of the controller.
func (c *SubmissionController) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		State:         c.state,
		DocumentID:    c.docID,
		HasDocument:   c.hasDoc,
		SubmitError:   c.submitErr,
		DownloadError: c.downloadErr,
		Download:      c.download,
	}
}

// Close drops every outstanding response and refuses further work.
func (c *SubmissionController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.gen++
}
