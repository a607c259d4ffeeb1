package engine

import (
	"github.com/mrsinham/accidentwizard/internal/report"
)

// StepNavigator tracks the current step and the furthest step ever reached. The
// furthest index never decreases.
type StepNavigator struct {
	steps    []report.Step
	current  int
	furthest int
}

// NewStepNavigator returns a navigator positioned on the first step.
func NewStepNavigator(steps []report.Step) *StepNavigator {
	return &StepNavigator{steps: steps}
}

// Current returns the step being shown.
func (n *StepNavigator) Current() report.Step { return n.steps[n.current] }

// Index returns the zero-based index of the current step.
func (n *StepNavigator) Index() int { return n.current }

// Furthest returns the highest index reached so far.
func (n *StepNavigator) Furthest() int { return n.furthest }

// Total returns the number of steps.
func (n *StepNavigator) Total() int { return len(n.steps) }

// IsLast reports whether the current step is the final one.
func (n *StepNavigator) IsLast() bool { return n.current == len(n.steps)-1 }

// Steps returns a copy of the configured steps.
func (n *StepNavigator) Steps() []report.Step {
	return append([]report.Step(nil), n.steps...)
}

// IndexOf returns the index of a step id, or -1.
func (n *StepNavigator) IndexOf(id report.StepID) int {
	for i, s := range n.steps {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Advance moves one step forward. It never moves past the last step.
func (n *StepNavigator) Advance() bool {
	if n.IsLast() {
		return false
	}
	n.moveTo(n.current + 1)
	return true
}

// Back moves one step backward, floored at the first step.
func (n *StepNavigator) Back() bool {
	if n.current == 0 {
		return false
	}
	n.current--
	return true
}

// CheckJump reports whether a direct jump to index is allowed at all.
func (n *StepNavigator) CheckJump(index int) error {
	switch {
	case index < 0 || index >= len(n.steps):
		return ErrUnknownStep
	case index == n.current:
		return ErrSameStep
	case index > n.furthest:
		return ErrStepLocked
	}
	return nil
}

// JumpTo moves to index after CheckJump accepted it.
func (n *StepNavigator) JumpTo(index int) {
	n.moveTo(index)
}

func (n *StepNavigator) moveTo(index int) {
	n.current = index
	if index > n.furthest {
		n.furthest = index
	}
}
