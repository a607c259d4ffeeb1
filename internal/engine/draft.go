package engine

import (
	"github.com/mrsinham/accidentwizard/internal/report"
	"github.com/mrsinham/accidentwizard/internal/validate"
)

// DraftStore owns the single authoritative copy of the draft and its validation
// errors. It is guarded by the engine mutex.
type DraftStore struct {
	draft  report.Draft
	errors ErrorMap
}

// NewDraftStore returns a store holding an empty draft.
func NewDraftStore() *DraftStore {
	return &DraftStore{draft: report.NewDraft(), errors: ErrorMap{}}
}

// UpdateField replaces a text field and re-validates it when it has a rule.
func (s *DraftStore) UpdateField(field, value string) error {
	if !report.IsField(field) {
		return ErrUnknownField
	}
	s.draft.Fields[field] = value
	if validate.Has(field) {
		s.errors.apply(field, validate.Field(field, value))
	}
	return nil
}

// SetFlag records a yes/no answer. nil clears it.
func (s *DraftStore) SetFlag(name string, value *bool) error {
	if !report.IsFlag(name) {
		return ErrUnknownField
	}
	if value == nil {
		s.draft.Flags[name] = nil
		return nil
	}
	v := *value
	s.draft.Flags[name] = &v
	return nil
}

// Field returns the current value of a text field, "" when unset.
func (s *DraftStore) Field(field string) string {
	return s.draft.Get(field)
}

// Flag returns a yes/no answer, nil when unanswered.
func (s *DraftStore) Flag(name string) *bool {
	v := s.draft.Flag(name)
	if v == nil {
		return nil
	}
	b := *v
	return &b
}

// Snapshot returns a deep copy of the draft.
func (s *DraftStore) Snapshot() report.Draft {
	return s.draft.Clone()
}

// Replace swaps in a new draft. Known fields missing from d are added empty and
// every non-empty field is validated.
func (s *DraftStore) Replace(d report.Draft) {
	next := report.NewDraft()
	for k, v := range d.Fields {
		if report.IsField(k) {
			next.Fields[k] = v
		}
	}
	for k, v := range d.Flags {
		if report.IsFlag(k) && v != nil {
			b := *v
			next.Flags[k] = &b
		}
	}
	next.Witnesses = append([]report.Witness(nil), d.Witnesses...)

	s.draft = next
	s.errors = ErrorMap{}
	for _, f := range report.FieldNames {
		if v := next.Fields[f]; v != "" {
			s.errors.apply(f, validate.Field(f, v))
		}
	}
}

// validateFields checks every field in fields and records the results. It reports
// whether all of them passed.
func (s *DraftStore) validateFields(fields []string) bool {
	ok := true
	for _, f := range fields {
		err := validate.Field(f, s.draft.Get(f))
		s.errors.apply(f, err)
		if err != nil {
			ok = false
		}
	}
	return ok
}

// fieldsValid is validateFields without recording anything.
func (s *DraftStore) fieldsValid(fields []string) bool {
	for _, f := range fields {
		if validate.Field(f, s.draft.Get(f)) != nil {
			return false
		}
	}
	return true
}
