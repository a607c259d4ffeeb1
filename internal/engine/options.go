package engine

import (
	"io"
	"log/slog"

	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/report"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	gating            bool
	validateOnSubmit  bool
	requireMedical    bool
	steps             []report.Step
	previewer         *attachment.Previewer
	logger            *slog.Logger
	maxAttachmentSize int64
}

func defaultOptions() options {
	return options{
		gating:           true,
		validateOnSubmit: true,
		requireMedical:   true,
		steps:            report.DefaultSteps(),
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithGating toggles the per-step validation gate. When off, a citizen may move on
// with incomplete fields.
func WithGating(on bool) Option {
	return func(o *options) { o.gating = on }
}

// WithValidateOnSubmit toggles the final validation pass before a document is created.
func WithValidateOnSubmit(on bool) Option {
	return func(o *options) { o.validateOnSubmit = on }
}

// WithRequireMedicalDocuments toggles the rule that the accident step needs at least
// one medical document. It applies regardless of gating.
func WithRequireMedicalDocuments(on bool) Option {
	return func(o *options) { o.requireMedical = on }
}

// WithSteps replaces the default step list.
func WithSteps(steps []report.Step) Option {
	return func(o *options) {
		if len(steps) > 0 {
			o.steps = steps
		}
	}
}

// WithPreviewer enables attachment previews.
func WithPreviewer(p *attachment.Previewer) Option {
	return func(o *options) { o.previewer = p }
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxAttachmentSize rejects uploads above n bytes. 0 means no limit.
func WithMaxAttachmentSize(n int64) Option {
	return func(o *options) { o.maxAttachmentSize = n }
}
