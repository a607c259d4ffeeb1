package engine

import (
	"github.com/mrsinham/accidentwizard/internal/report"
	"github.com/mrsinham/accidentwizard/internal/validate"
)

const noActive = -1

// WitnessCollection edits the witness list of a draft. At most one witness is open
// for editing at a time.
type WitnessCollection struct {
	store  *DraftStore
	active int
}

// NewWitnessCollection returns a collection editing the witnesses of store.
func NewWitnessCollection(store *DraftStore) *WitnessCollection {
	return &WitnessCollection{store: store, active: noActive}
}

// Len returns the number of witnesses.
func (c *WitnessCollection) Len() int {
	return len(c.store.draft.Witnesses)
}

// List returns a copy of the witnesses.
func (c *WitnessCollection) List() []report.Witness {
	return append([]report.Witness(nil), c.store.draft.Witnesses...)
}

// Active returns the witness open for editing.
func (c *WitnessCollection) Active() (int, bool) {
	return c.active, c.active != noActive
}

// Add appends an empty witness and opens it for editing.
func (c *WitnessCollection) Add() int {
	c.store.draft.Witnesses = append(c.store.draft.Witnesses, report.Witness{})
	c.active = len(c.store.draft.Witnesses) - 1
	return c.active
}

// Remove deletes witness i and rebuilds every witness error key.
func (c *WitnessCollection) Remove(i int) error {
	if !c.inRange(i) {
		return ErrWitnessIndex
	}
	ws := c.store.draft.Witnesses
	c.store.draft.Witnesses = append(ws[:i:i], ws[i+1:]...)

	switch {
	case c.active == i:
		c.active = noActive
	case c.active > i:
		c.active--
	}
	c.rebuildErrors()
	return nil
}

// ToggleEdit opens witness i, or closes it when it is already open.
func (c *WitnessCollection) ToggleEdit(i int) error {
	if !c.inRange(i) {
		return ErrWitnessIndex
	}
	if c.active == i {
		c.active = noActive
	} else {
		c.active = i
	}
	return nil
}

// UpdateField sets one field of witness i and validates it.
func (c *WitnessCollection) UpdateField(i int, field report.WitnessField, value string) error {
	if !c.inRange(i) {
		return ErrWitnessIndex
	}
	if err := c.store.draft.Witnesses[i].Set(field, value); err != nil {
		return ErrUnknownField
	}
	c.store.errors.apply(report.WitnessFieldKey(i, field), validate.WitnessField(field, value))
	return nil
}

// AttachStatement links witness i to a witness-statement attachment. An empty id
// unlinks it.
func (c *WitnessCollection) AttachStatement(i int, attachmentID string) error {
	if !c.inRange(i) {
		return ErrWitnessIndex
	}
	c.store.draft.Witnesses[i].Statement = attachmentID
	return nil
}

// unlinkStatement clears every reference to a removed statement attachment.
func (c *WitnessCollection) unlinkStatement(attachmentID string) {
	for i := range c.store.draft.Witnesses {
		if c.store.draft.Witnesses[i].Statement == attachmentID {
			c.store.draft.Witnesses[i].Statement = ""
		}
	}
}

// reset closes the editor after the whole list was replaced.
func (c *WitnessCollection) reset() {
	c.active = noActive
	c.rebuildErrors()
}

// rebuildErrors recomputes all witnesses.* keys from the current list. Required
// fields are checked even when empty; empty optional fields never report.
func (c *WitnessCollection) rebuildErrors() bool {
	c.store.errors.dropPrefix(report.WitnessKeyPrefix)
	ok := true
	for i, w := range c.store.draft.Witnesses {
		for _, f := range report.WitnessFields {
			v := w.Get(f)
			if v == "" && !validate.WitnessRequired(f) {
				continue
			}
			err := validate.WitnessField(f, v)
			c.store.errors.apply(report.WitnessFieldKey(i, f), err)
			if err != nil {
				ok = false
			}
		}
	}
	return ok
}

func (c *WitnessCollection) inRange(i int) bool {
	return i >= 0 && i < len(c.store.draft.Witnesses)
}
