package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/mrsinham/accidentwizard/internal/attachment"
	"github.com/mrsinham/accidentwizard/internal/report"
)

// wizardContext holds state for a single scenario
type wizardContext struct {
	svc     *fakeService
	engine  *Engine
	lastErr error
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	wc := &wizardContext{}

	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if wc.engine != nil {
			_ = wc.engine.Close()
		}
		return ctx, nil
	})

	sc.Step(`^a new wizard with gating (enabled|disabled)$`, wc.aNewWizard)
	sc.Step(`^the citizen fills in:$`, wc.theCitizenFillsIn)
	sc.Step(`^the citizen enters "([^"]*)" as "([^"]*)"$`, wc.theCitizenEnters)
	sc.Step(`^the citizen enters a narrative of (\d+) characters$`, wc.theCitizenEntersANarrative)
	sc.Step(`^the citizen attaches the medical document "([^"]*)"$`, wc.theCitizenAttaches)
	sc.Step(`^the citizen presses next (\d+) times$`, wc.theCitizenPressesNextTimes)
	sc.Step(`^the citizen presses next$`, wc.theCitizenPressesNext)
	sc.Step(`^the citizen goes back$`, wc.theCitizenGoesBack)
	sc.Step(`^the current step is "([^"]*)"$`, wc.theCurrentStepIs)
	sc.Step(`^the citizen can advance$`, wc.theCitizenCanAdvance)
	sc.Step(`^pressing next is rejected$`, wc.pressingNextIsRejected)
	sc.Step(`^jumping to "([^"]*)" is rejected$`, wc.jumpingToIsRejected)
	sc.Step(`^the field "([^"]*)" has an error$`, wc.theFieldHasAnError)
	sc.Step(`^the submission state is "([^"]*)"$`, wc.theSubmissionStateIs)
	sc.Step(`^the document service received (\d+) documents?$`, wc.theServiceReceived)
	sc.Step(`^downloading a "([^"]*)" fails with a missing document$`, wc.downloadingFails)
}

func (wc *wizardContext) aNewWizard(gating string) error {
	wc.svc = &fakeService{}
	wc.engine = New(wc.svc, WithGating(gating == "enabled"), WithLogger(quietLogger()))
	return nil
}

func (wc *wizardContext) theCitizenFillsIn(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		if err := wc.theCitizenEnters(row.Cells[1].Value, row.Cells[0].Value); err != nil {
			return err
		}
	}
	return nil
}

func (wc *wizardContext) theCitizenEnters(value, field string) error {
	return wc.engine.HandleInput(field, value)
}

func (wc *wizardContext) theCitizenEntersANarrative(n int) error {
	return wc.engine.HandleInput(report.FieldNarrative, strings.Repeat("x", n))
}

func (wc *wizardContext) theCitizenAttaches(name string) error {
	_, err := wc.engine.Upload(attachment.CategoryMedical, attachment.NewBytesFile(name, []byte("%PDF")))
	return err
}

func (wc *wizardContext) theCitizenPressesNextTimes(n int) error {
	for i := 0; i < n; i++ {
		if err := wc.engine.Next(context.Background()); err != nil {
			return fmt.Errorf("next #%d on %s: %w", i+1, wc.engine.CurrentStep().Step.ID, err)
		}
	}
	return nil
}

func (wc *wizardContext) theCitizenPressesNext() error {
	wc.lastErr = wc.engine.Next(context.Background())
	return nil
}

func (wc *wizardContext) theCitizenGoesBack() error {
	wc.engine.Back()
	return nil
}

func (wc *wizardContext) theCurrentStepIs(id string) error {
	if got := wc.engine.CurrentStep().Step.ID; got != report.StepID(id) {
		return fmt.Errorf("current step is %s, want %s", got, id)
	}
	return nil
}

func (wc *wizardContext) theCitizenCanAdvance() error {
	if !wc.engine.CanAdvance() {
		return fmt.Errorf("cannot advance, errors: %v", wc.engine.Errors())
	}
	return nil
}

func (wc *wizardContext) pressingNextIsRejected() error {
	before := wc.engine.CurrentStep().Index
	err := wc.engine.Next(context.Background())
	if !errors.Is(err, ErrStepInvalid) {
		return fmt.Errorf("next returned %v, want ErrStepInvalid", err)
	}
	if wc.engine.CurrentStep().Index != before {
		return fmt.Errorf("rejected next moved the wizard")
	}
	return nil
}

func (wc *wizardContext) jumpingToIsRejected(id string) error {
	if err := wc.engine.SelectStep(report.StepID(id)); err == nil {
		return fmt.Errorf("jump to %s was accepted", id)
	}
	return nil
}

func (wc *wizardContext) theFieldHasAnError(key string) error {
	if wc.engine.Error(key) == "" {
		return fmt.Errorf("no error on %s, errors: %v", key, wc.engine.Errors())
	}
	return nil
}

func (wc *wizardContext) theSubmissionStateIs(state string) error {
	st := wc.engine.Status()
	if st.State.String() != state {
		return fmt.Errorf("submission state is %s (%s), want %s", st.State, st.SubmitError, state)
	}
	return nil
}

func (wc *wizardContext) theServiceReceived(n int) error {
	if got := wc.svc.createCount(); got != n {
		return fmt.Errorf("document service received %d documents, want %d", got, n)
	}
	return nil
}

func (wc *wizardContext) downloadingFails(format string) error {
	f, err := report.ParseFormat(format)
	if err != nil {
		return err
	}
	if err := wc.engine.Download(context.Background(), f); !errors.Is(err, ErrNoDocument) {
		return fmt.Errorf("download returned %v, want ErrNoDocument", err)
	}
	return nil
}
