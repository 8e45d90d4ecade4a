package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/claude/forgeplan/internal/apierr"
	"github.com/claude/forgeplan/internal/catalog"
	"github.com/claude/forgeplan/internal/engine"
	"github.com/claude/forgeplan/internal/models"
	"github.com/claude/forgeplan/internal/normalize"
	"github.com/claude/forgeplan/internal/wizard"
)

// localSubmitter runs the engine in process.
type localSubmitter struct {
	gen *engine.Generator
	err error
}

func (s localSubmitter) Submit(_ context.Context, form models.FormData) (*models.GenerationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.gen.Generate(normalize.Profile(form))
}

func newPrompter(t *testing.T, input string, sub wizard.Submitter) (*Prompter, *wizard.Machine, *bytes.Buffer) {
	t.Helper()
	m := wizard.New(nil, sub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(m.Close)
	var out bytes.Buffer
	m.Subscribe(Listener(&out))
	return New(strings.NewReader(input), &out, m), m, &out
}

func lines(ls ...string) string { return strings.Join(ls, "\n") + "\n" }

var completeAnswers = []string{
	"Ana", "30", "female",
	"strength", "legs, core", "",
	"advanced", "", "",
	"barbell, dumbbells", "",
	"4", "60", "", "",
}

// TestRunCompletesWizard verifies that typed answers for every step
// produce a plan shaped by those answers.
func TestRunCompletesWizard(t *testing.T) {
	sub := localSubmitter{gen: engine.New(catalog.Default(), engine.FirstPicker{})}
	p, _, out := newPrompter(t, lines(completeAnswers...), sub)

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v\n%s", err, out)
	}
	if labels := result.Plan.Labels(); len(labels) != 4 || labels[0] != "Upper Body 1" {
		t.Errorf("labels = %v", labels)
	}
	if result.Intensity != (models.Intensity{Sets: 6, Reps: "3-6"}) {
		t.Errorf("intensity = %+v", result.Intensity)
	}
	if !strings.Contains(out.String(), "Generating your workout plan...") {
		t.Errorf("output missing submission notice:\n%s", out)
	}

	PrintResult(out, result)
	if !strings.Contains(out.String(), "6 sets x 3-6 reps") {
		t.Errorf("printed result missing intensity:\n%s", out)
	}
}

// TestRunRepeatsInvalidStep verifies that a rejected step is asked again
// with the field message, keeping the answers that were fine.
func TestRunRepeatsInvalidStep(t *testing.T) {
	sub := localSubmitter{gen: engine.New(catalog.Default(), engine.FirstPicker{})}
	answers := append([]string{"Ana", "10", "female", "", "30", ""}, completeAnswers[3:]...)
	p, m, out := newPrompter(t, lines(answers...), sub)

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v\n%s", err, out)
	}
	text := out.String()
	if !strings.Contains(text, "age: Age must be between 13 and 100") {
		t.Errorf("missing validation message:\n%s", text)
	}
	if !strings.Contains(text, "Name (Ana)") {
		t.Errorf("second prompt does not show kept name:\n%s", text)
	}
	if m.State().Step != 1 {
		t.Errorf("machine not reset after success, step %d", m.State().Step)
	}
}

// TestRunBackCommand verifies :back returns to the previous step.
func TestRunBackCommand(t *testing.T) {
	p, m, _ := newPrompter(t, lines("Ana", "30", "female", ":back"), nil)

	_, err := p.Run(context.Background())
	if !errors.Is(err, ErrQuit) {
		t.Fatalf("err = %v, want ErrQuit at end of input", err)
	}
	if m.State().Step != 1 {
		t.Errorf("step = %d, want 1", m.State().Step)
	}
}

func TestRunQuit(t *testing.T) {
	p, m, _ := newPrompter(t, lines("Ana", ":quit"), nil)
	if _, err := p.Run(context.Background()); !errors.Is(err, ErrQuit) {
		t.Fatalf("err = %v, want ErrQuit", err)
	}
	if got := m.State().Fields["name"]; got != "Ana" {
		t.Errorf("name = %v, want kept answer", got)
	}
}

// TestRunSubmissionFailure verifies a failed submission is reported with
// the user-facing message and the answers stay in the machine.
func TestRunSubmissionFailure(t *testing.T) {
	sub := localSubmitter{err: apierr.New(apierr.GenerationError, "engine down")}
	p, m, out := newPrompter(t, lines(completeAnswers...), sub)

	_, err := p.Run(context.Background())
	if code, _ := apierr.CodeOf(err); code != apierr.GenerationError {
		t.Fatalf("err = %v, want GENERATION_ERROR", err)
	}
	if !strings.Contains(out.String(), apierr.UserMessage(apierr.GenerationError)) {
		t.Errorf("output missing user message:\n%s", out)
	}
	if m.State().Fields["name"] != "Ana" {
		t.Error("answers lost after failed submission")
	}
}

func TestParse(t *testing.T) {
	if v := parse(kindNumber, "42"); v != 42.0 {
		t.Errorf("number = %#v", v)
	}
	if v := parse(kindNumber, "lots"); v != "lots" {
		t.Errorf("bad number = %#v", v)
	}
	list, ok := parse(kindList, " legs, ,core ").([]any)
	if !ok || len(list) != 2 || list[0] != "legs" || list[1] != "core" {
		t.Errorf("list = %#v", list)
	}
}
