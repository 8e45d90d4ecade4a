package wizard

import "github.com/claude/forgeplan/internal/models"

// Msg is a state transition request processed by Machine.Dispatch.
type Msg interface{ msg() }

type (
	// Next validates the current step and advances, or submits on the last step.
	Next struct{}
	// Previous moves back one step without validation.
	Previous struct{}
	// GoTo jumps to Step when it is reachable.
	GoTo struct{ Step int }
	// Submit validates every step and hands the form to the Submitter.
	Submit struct{}
	// SetField writes one field value.
	SetField struct {
		Name  string
		Value any
	}
	// Reset discards all entered data.
	Reset struct{}
)

func (Next) msg()     {}
func (Previous) msg() {}
func (GoTo) msg()     {}
func (Submit) msg()   {}
func (SetField) msg() {}
func (Reset) msg()    {}

// Event reports a state change to listeners.
type Event interface{ event() }

type (
	StepChanged struct {
		From, To int
	}
	FieldChanged struct {
		Name  string
		Value any
	}
	ValidationFailed struct {
		Step   models.StepID
		Errors map[string]string
	}
	SubmissionStarted struct{}
	SubmissionFailed  struct {
		Err error
	}
	Submitted struct {
		Result *models.GenerationResult
	}
	WasReset struct{}
)

func (StepChanged) event()       {}
func (FieldChanged) event()      {}
func (ValidationFailed) event()  {}
func (SubmissionStarted) event() {}
func (SubmissionFailed) event()  {}
func (Submitted) event()         {}
func (WasReset) event()          {}

// Listener receives events after the change they describe is applied.
// Listeners run on the goroutine that caused the change and may call
// back into the machine.
type Listener func(Event)
