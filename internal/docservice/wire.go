package docservice

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mrsinham/accidentwizard/internal/report"
)

const (
	actionCreate      = "create"
	actionGeneratePDF = "generate-pdf"
	actionList        = "list"
	actionDetail      = "detail"
)

// wireDocument is the flat JSON shape of a case document: every draft field and
// flag at the top level, next to id, created_at, witnesses and attachments.
type wireDocument struct {
	ID          int64
	CreatedAt   time.Time
	Draft       report.Draft
	Attachments []report.AttachmentRef
}

func fromDocument(d report.Document) wireDocument {
	return wireDocument{ID: d.ID, CreatedAt: d.CreatedAt, Draft: d.Draft, Attachments: d.Attachments}
}

func (w wireDocument) document() report.Document {
	return report.Document{ID: w.ID, CreatedAt: w.CreatedAt, Draft: w.Draft, Attachments: w.Attachments}
}

func (w wireDocument) object() map[string]any {
	m := make(map[string]any, len(report.FieldNames)+len(report.FlagNames)+4)
	if w.ID != 0 {
		m["id"] = w.ID
	}
	if !w.CreatedAt.IsZero() {
		m["created_at"] = w.CreatedAt.UTC().Format(time.RFC3339)
	}
	for _, f := range report.FieldNames {
		m[f] = w.Draft.Fields[f]
	}
	for _, f := range report.FlagNames {
		m[f] = w.Draft.Flags[f]
	}
	witnesses := w.Draft.Witnesses
	if witnesses == nil {
		witnesses = []report.Witness{}
	}
	m["witnesses"] = witnesses
	attachments := w.Attachments
	if attachments == nil {
		attachments = []report.AttachmentRef{}
	}
	m["attachments"] = attachments
	return m
}

func (w wireDocument) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.object())
}

func (w *wireDocument) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	out := wireDocument{Draft: report.NewDraft()}
	if v, ok := raw["id"]; ok {
		if err := json.Unmarshal(v, &out.ID); err != nil {
			return fmt.Errorf("id: %w", err)
		}
	}
	if v, ok := raw["created_at"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("created_at: %w", err)
		}
		if s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return fmt.Errorf("created_at: %w", err)
			}
			out.CreatedAt = t
		}
	}
	for _, f := range report.FieldNames {
		v, ok := raw[f]
		if !ok {
			continue
		}
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		if s != nil {
			out.Draft.Fields[f] = *s
		}
	}
	for _, f := range report.FlagNames {
		v, ok := raw[f]
		if !ok {
			continue
		}
		var b *bool
		if err := json.Unmarshal(v, &b); err != nil {
			return fmt.Errorf("%s: %w", f, err)
		}
		out.Draft.Flags[f] = b
	}
	if v, ok := raw["witnesses"]; ok {
		if err := json.Unmarshal(v, &out.Draft.Witnesses); err != nil {
			return fmt.Errorf("witnesses: %w", err)
		}
	}
	if v, ok := raw["attachments"]; ok {
		if err := json.Unmarshal(v, &out.Attachments); err != nil {
			return fmt.Errorf("attachments: %w", err)
		}
	}
	*w = out
	return nil
}

// actionRequest is the body of POST /api/documents/. The document fields sit
// next to the action.
type actionRequest struct {
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
}

func createBody(p report.Payload) ([]byte, error) {
	m := wireDocument{Draft: p.Draft, Attachments: p.Attachments}.object()
	m["action"] = actionCreate
	return json.Marshal(m)
}

func generateBody(id int64) ([]byte, error) {
	return json.Marshal(actionRequest{Action: actionGeneratePDF, ID: id})
}

// listResponse mirrors the backend's paginated list.
type listResponse struct {
	Items      []wireDocument `json:"items"`
	TotalCount int            `json:"totalCount"`
	TotalPages int            `json:"totalPages"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
}
