// Package engine drives the accident report wizard: the draft and its validation,
// witnesses, attachments, step navigation and submission to the document service.
//
// One Engine is built per wizard session and passed to whatever presents it. All
// methods are safe for concurrent use. The engine mutex is always taken before the
// submission controller's, and neither is held across a call to the document
// service or the preview viewer.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/report"
	"github.com/mrsinham/accidentwizard/internal/validate"
)

// StepView is the render data of the current step.
type StepView struct {
	Step     report.Step
	Index    int
	Total    int
	Furthest int
}

// Engine is the composition root of a wizard session.
type Engine struct {
	opts options
	log  *slog.Logger

	mu          sync.Mutex
	drafts      *DraftStore
	witnesses   *WitnessCollection
	nav         *StepNavigator
	attachments *attachment.Set
	closed      bool

	submission *SubmissionController
}

// New builds an engine submitting to svc.
func New(svc DocumentService, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	drafts := NewDraftStore()
	return &Engine{
		opts:        o,
		log:         o.logger,
		drafts:      drafts,
		witnesses:   NewWitnessCollection(drafts),
		nav:         NewStepNavigator(o.steps),
		attachments: attachment.NewSet(o.maxAttachmentSize),
		submission:  NewSubmissionController(svc, o.logger),
	}
}

// CurrentStep returns the render data of the current step.
func (e *Engine) CurrentStep() StepView {
	e.mu.Lock()
	defer e.mu.Unlock()
	return StepView{
		Step:     e.nav.Current(),
		Index:    e.nav.Index(),
		Total:    e.nav.Total(),
		Furthest: e.nav.Furthest(),
	}
}

// Steps returns the configured steps in order.
func (e *Engine) Steps() []report.Step {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nav.Steps()
}

// CanAdvance reports whether the primary action is enabled. On the last step that
// action is submission. Nothing is written to the error map.
func (e *Engine) CanAdvance() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.nav.IsLast() {
		st := e.submission.Status()
		return st.State != SubmitSubmitting && st.State != SubmitSuccess
	}
	step := e.nav.Current()
	if !e.medicalDocumentsReady(step, false) {
		return false
	}
	return !e.opts.gating || e.stepValid(step)
}

// CanGoBack reports whether Back would move.
func (e *Engine) CanGoBack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nav.Index() > 0
}

// Next advances one step when the current step passes its gate. On the last step
// it submits instead.
func (e *Engine) Next(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if e.nav.IsLast() {
		e.mu.Unlock()
		return e.Submit(ctx)
	}
	defer e.mu.Unlock()

	step := e.nav.Current()
	if !e.gate(step) {
		e.log.Debug("step gate rejected", "step", step.ID)
		return ErrStepInvalid
	}
	e.nav.Advance()
	e.log.Debug("step advanced", "from", step.ID, "to", e.nav.Current().ID)
	return nil
}

// Back moves one step backward without validating.
func (e *Engine) Back() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nav.Back()
}

// SelectStep jumps directly to an already reached step. Forward jumps must pass the
// current step's gate.
func (e *Engine) SelectStep(id report.StepID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	target := e.nav.IndexOf(id)
	if err := e.nav.CheckJump(target); err != nil {
		return err
	}
	if target > e.nav.Index() && !e.gate(e.nav.Current()) {
		return ErrStepInvalid
	}
	e.nav.JumpTo(target)
	return nil
}

// gate validates the step before leaving it forward, recording errors.
func (e *Engine) gate(step report.Step) bool {
	if !e.medicalDocumentsReady(step, true) {
		return false
	}
	if !e.opts.gating {
		return true
	}
	return e.drafts.validateFields(report.StepFields[step.ID])
}

// stepValid is the read-only form of the field gate.
func (e *Engine) stepValid(step report.Step) bool {
	return e.drafts.fieldsValid(report.StepFields[step.ID])
}

func (e *Engine) medicalDocumentsReady(step report.Step, record bool) bool {
	if !e.opts.requireMedical || step.ID != report.StepAccident {
		return true
	}
	ready := e.attachments.Store(attachment.CategoryMedical).Len() > 0
	if record {
		e.recordMedicalDocuments(ready)
	}
	return ready
}

func (e *Engine) recordMedicalDocuments(ready bool) {
	if ready {
		delete(e.drafts.errors, MedicalDocumentsKey)
		return
	}
	e.drafts.errors[MedicalDocumentsKey] = MsgMedicalDocuments
}

// HandleInput is the change handler of every text field. The identity card number
// is upper-cased before it is stored.
func (e *Engine) HandleInput(field, value string) error {
	if field == report.FieldIDNumber {
		value = strings.ToUpper(value)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.drafts.UpdateField(field, value); err != nil {
		return err
	}
	e.submission.Invalidate()
	return nil
}

// SetFlag records a yes/no answer.
func (e *Engine) SetFlag(name string, value *bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.drafts.SetFlag(name, value); err != nil {
		return err
	}
	e.submission.Invalidate()
	return nil
}

// Field returns the current value of a text field.
func (e *Engine) Field(field string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drafts.Field(field)
}

// Flag returns a yes/no answer, nil when unanswered.
func (e *Engine) Flag(name string) *bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drafts.Flag(name)
}

// Errors returns a copy of every validation message by key.
func (e *Engine) Errors() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drafts.errors.clone()
}

// Error returns the validation message of one key, "" when valid.
func (e *Engine) Error(key string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drafts.errors[key]
}

// Validate runs every rule of the draft, witnesses and attachments, recording the
// results. It reports whether the draft can be submitted.
func (e *Engine) Validate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateAll()
}

func (e *Engine) validateAll() bool {
	ok := true
	for _, step := range e.nav.steps {
		if !e.drafts.validateFields(report.StepFields[step.ID]) {
			ok = false
		}
		if !e.medicalDocumentsReady(step, true) {
			ok = false
		}
	}
	for _, f := range report.FieldNames {
		if _, stepped := report.StepOf(f); stepped {
			continue
		}
		if v := e.drafts.Field(f); v != "" {
			err := validate.Field(f, v)
			e.drafts.errors.apply(f, err)
			if err != nil {
				ok = false
			}
		}
	}
	if !e.witnesses.rebuildErrors() {
		ok = false
	}
	return ok
}

// Witnesses returns a copy of the witness list.
func (e *Engine) Witnesses() []report.Witness {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.witnesses.List()
}

// ActiveWitness returns the witness open for editing.
func (e *Engine) ActiveWitness() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.witnesses.Active()
}

// AddWitness appends an empty witness, opens it and returns its index.
func (e *Engine) AddWitness() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.witnesses.Add()
	e.submission.Invalidate()
	return i
}

// RemoveWitness deletes witness i. Removing the last witness also drops every
// witness statement.
func (e *Engine) RemoveWitness(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.witnesses.Remove(i); err != nil {
		return err
	}
	if e.witnesses.Len() == 0 {
		e.attachments.Store(attachment.CategoryWitnessStatement).Clear()
	}
	e.submission.Invalidate()
	return nil
}

// ToggleWitness opens or closes witness i for editing.
func (e *Engine) ToggleWitness(i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.witnesses.ToggleEdit(i)
}

// UpdateWitness sets and validates one field of witness i.
func (e *Engine) UpdateWitness(i int, field report.WitnessField, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.witnesses.UpdateField(i, field, value); err != nil {
		return err
	}
	e.submission.Invalidate()
	return nil
}

// AttachWitnessStatement links witness i to an uploaded witness statement. An
// empty id unlinks it.
func (e *Engine) AttachWitnessStatement(i int, attachmentID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if attachmentID != "" {
		if _, ok := e.attachments.Store(attachment.CategoryWitnessStatement).Get(attachmentID); !ok {
			return ErrUnknownAttachment
		}
	}
	if err := e.witnesses.AttachStatement(i, attachmentID); err != nil {
		return err
	}
	e.submission.Invalidate()
	return nil
}

// Upload attaches files to a category. Files above the size limit are rejected
// with an error wrapping attachment.ErrTooLarge; the others are still added.
func (e *Engine) Upload(c attachment.Category, files ...attachment.File) ([]attachment.Attachment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.attachments.Lookup(c)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	added, err := st.Upload(files...)
	if len(added) > 0 {
		e.log.Info("attachments uploaded", "category", c, "count", len(added))
		e.submission.Invalidate()
	}
	if c == attachment.CategoryMedical && e.opts.requireMedical {
		e.recordMedicalDocuments(st.Len() > 0)
	}
	return added, err
}

// RemoveAttachment deletes an attachment from a category.
func (e *Engine) RemoveAttachment(c attachment.Category, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.attachments.Lookup(c)
	if !ok || !st.Remove(id) {
		return false
	}
	if c == attachment.CategoryWitnessStatement {
		e.witnesses.unlinkStatement(id)
	}
	if c == attachment.CategoryMedical && e.opts.requireMedical {
		e.recordMedicalDocuments(st.Len() > 0)
	}
	e.submission.Invalidate()
	return true
}

// Attachments lists a category in upload order. An unknown category has none.
func (e *Engine) Attachments(c attachment.Category) []attachment.Attachment {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.attachments.Lookup(c)
	if !ok {
		return nil
	}
	return st.List()
}

// Preview shows an attachment through the configured previewer. Failures return
// attachment.ErrPreviewUnavailable and may be ignored.
func (e *Engine) Preview(ctx context.Context, id string) (*attachment.Lease, error) {
	e.mu.Lock()
	a, ok := e.attachments.Find(id)
	closed := e.closed
	e.mu.Unlock()

	if closed || e.opts.previewer == nil {
		return nil, attachment.ErrPreviewUnavailable
	}
	if !ok {
		return nil, ErrUnknownAttachment
	}
	return e.opts.previewer.Preview(ctx, a)
}

// Submit validates the draft when configured to, sanitizes it and creates the
// document. Repeated calls while a submission is in flight or after it succeeded
// do nothing.
func (e *Engine) Submit(ctx context.Context) error {
	return e.submission.Submit(ctx, e.buildPayload)
}

func (e *Engine) buildPayload() (report.Payload, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.opts.validateOnSubmit && !e.validateAll() {
		return report.Payload{}, ErrDraftInvalid
	}
	return report.Payload{
		Draft:       report.Sanitize(e.drafts.Snapshot()),
		Attachments: e.attachments.Refs(),
	}, nil
}

// Download retrieves the prepared document in the given format.
func (e *Engine) Download(ctx context.Context, format report.Format) error {
	return e.submission.Download(ctx, format)
}

// Status returns the submission and download status.
func (e *Engine) Status() Status {
	return e.submission.Status()
}

// Draft returns a deep copy of the draft.
func (e *Engine) Draft() report.Draft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drafts.Snapshot()
}

// LoadDraft replaces the whole draft, for example from a saved YAML file. Any
// submission result, or response still in flight, is discarded.
func (e *Engine) LoadDraft(d report.Draft) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.drafts.Replace(d)
	e.witnesses.reset()
	e.submission.Reset()
	e.log.Info("draft loaded", "witnesses", len(d.Witnesses))
}

// Close releases every preview and drops late responses. The engine refuses
// further submissions, downloads and previews.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.submission.Close()
	if e.opts.previewer != nil {
		return e.opts.previewer.Close()
	}
	return nil
}
