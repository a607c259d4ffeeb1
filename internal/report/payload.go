package report

import (
	"fmt"
	"strings"
	"time"
)

// Format is a downloadable rendering of a created document.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

// ParseFormat parses a download format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatDOCX:
		return FormatDOCX, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("invalid format %q, valid options: docx, pdf", s)
	}
}

// AttachmentRef points at a locally held attachment from the submission payload.
type AttachmentRef struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Size     int64  `json:"size"`
}

// Payload is what the wizard hands to the document service on submission.
type Payload struct {
	Draft       Draft
	Attachments []AttachmentRef
}

// Document is a persisted case document as returned by the document service.
type Document struct {
	ID          int64
	CreatedAt   time.Time
	Draft       Draft
	Attachments []AttachmentRef
}

// Sanitize prepares a draft for submission: witness fields are trimmed, witnesses with
// neither a first nor a last name are dropped and the narrative is trimmed.
// The input is not modified.
func Sanitize(d Draft) Draft {
	out := d.Clone()
	witnesses := make([]Witness, 0, len(out.Witnesses))
	for _, w := range out.Witnesses {
		t := w.Trimmed()
		if t.FirstName == "" && t.LastName == "" {
			continue
		}
		witnesses = append(witnesses, t)
	}
	out.Witnesses = witnesses
	out.Fields[FieldNarrative] = strings.TrimSpace(out.Fields[FieldNarrative])
	return out
}
