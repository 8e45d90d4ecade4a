// Package wizard implements the multi-step input state machine. The
// machine owns the entered fields, validates them step by step, keeps a
// resumable copy in a local cache and hands the finished form to a
// Submitter.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/claude/forgeplan/internal/models"
	"github.com/claude/forgeplan/internal/validation"
)

var (
	// ErrBusy is returned by Next and Submit while a submission is pending.
	ErrBusy = errors.New("wizard: submission in progress")
	// ErrStepLocked is returned by GoTo for a step that is ahead of the
	// current one and has never been validated.
	ErrStepLocked = errors.New("wizard: step not reachable yet")
	// ErrNoSubmitter is returned when submitting without a Submitter.
	ErrNoSubmitter = errors.New("wizard: no submitter configured")
)

// ValidationError carries the field messages of the step that failed.
type ValidationError struct {
	Step   models.StepID
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d has %d invalid field(s)", e.Step, len(e.Errors))
}

// Cache persists a resumable snapshot of the wizard.
type Cache interface {
	Load(ctx context.Context) (models.WizardSnapshot, bool, error)
	Save(ctx context.Context, snap models.WizardSnapshot) error
	Clear(ctx context.Context) error
}

// Submitter turns a completed form into a generated plan.
type Submitter interface {
	Submit(ctx context.Context, form models.FormData) (*models.GenerationResult, error)
}

// State is a copy of the machine's state.
type State struct {
	Step       int
	Fields     map[string]any
	Errors     map[string]string
	Validated  map[models.StepID]bool
	Submitting bool
}

// Machine is the wizard state machine. All methods are safe for
// concurrent use; state changes are serialized.
type Machine struct {
	submitter Submitter
	cache     Cache
	persist   *persister
	log       *slog.Logger

	mu        sync.Mutex
	step      int
	fields    map[string]any
	errs      map[string]string
	validated map[models.StepID]bool
	inFlight  bool
	listeners []Listener
}

// New creates a machine at step 1. cache may be nil, in which case
// nothing is persisted.
func New(cache Cache, submitter Submitter, log *slog.Logger) *Machine {
	if log == nil {
		log = slog.Default()
	}
	m := &Machine{
		submitter: submitter,
		cache:     cache,
		log:       log,
		step:      1,
		fields:    map[string]any{},
		errs:      map[string]string{},
		validated: map[models.StepID]bool{},
	}
	if cache != nil {
		m.persist = newPersister(cache, log)
	}
	return m
}

// Close flushes pending cache writes and stops the background writer.
func (m *Machine) Close() {
	if m.persist != nil {
		m.persist.close()
	}
}

// Flush waits for pending cache writes.
func (m *Machine) Flush() {
	if m.persist != nil {
		m.persist.flush()
	}
}

// Subscribe registers a listener.
func (m *Machine) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{
		Step:       m.step,
		Fields:     maps.Clone(m.fields),
		Errors:     maps.Clone(m.errs),
		Validated:  maps.Clone(m.validated),
		Submitting: m.inFlight,
	}
}

// Dispatch applies msg. The result is non-nil only when msg completed a
// submission.
func (m *Machine) Dispatch(ctx context.Context, msg Msg) (*models.GenerationResult, error) {
	switch v := msg.(type) {
	case Next:
		return m.Next(ctx)
	case Previous:
		m.Previous()
		return nil, nil
	case GoTo:
		return nil, m.GoTo(v.Step)
	case Submit:
		return m.Submit(ctx)
	case SetField:
		m.SetField(v.Name, v.Value)
		return nil, nil
	case Reset:
		m.Reset()
		return nil, nil
	}
	return nil, fmt.Errorf("wizard: unknown message %T", msg)
}

// Next validates the current step. On success it advances, or submits
// when the current step is the last one.
func (m *Machine) Next(ctx context.Context) (*models.GenerationResult, error) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return nil, ErrBusy
	}

	step := models.StepID(m.step)
	res := validation.Validate(m.step, m.stepFields(step))
	if !res.Valid {
		m.errs = maps.Clone(res.Errors)
		events := []Event{ValidationFailed{Step: step, Errors: maps.Clone(res.Errors)}}
		m.mu.Unlock()
		m.emit(events)
		return nil, &ValidationError{Step: step, Errors: res.Errors}
	}

	m.validated[step] = true
	m.clearStepErrors(step)
	if m.step == models.StepCount {
		m.mu.Unlock()
		return m.Submit(ctx)
	}

	from := m.step
	m.step++
	m.queueSave()
	events := []Event{StepChanged{From: from, To: m.step}}
	m.mu.Unlock()
	m.emit(events)
	return nil, nil
}

// Previous moves back one step. It never validates.
func (m *Machine) Previous() {
	m.mu.Lock()
	if m.step <= 1 {
		m.mu.Unlock()
		return
	}
	from := m.step
	m.step--
	m.queueSave()
	events := []Event{StepChanged{From: from, To: m.step}}
	m.mu.Unlock()
	m.emit(events)
}

// GoTo jumps to step n when n is not ahead of the current step or was
// validated before.
func (m *Machine) GoTo(n int) error {
	if n < 1 || n > models.StepCount {
		return fmt.Errorf("wizard: step %d out of range: %w", n, ErrStepLocked)
	}
	m.mu.Lock()
	if n > m.step && !m.validated[models.StepID(n)] {
		m.mu.Unlock()
		return ErrStepLocked
	}
	if n == m.step {
		m.mu.Unlock()
		return nil
	}
	from := m.step
	m.step = n
	m.queueSave()
	events := []Event{StepChanged{From: from, To: n}}
	m.mu.Unlock()
	m.emit(events)
	return nil
}

// SetField stores a value and queues a cache write. It never validates.
func (m *Machine) SetField(name string, value any) {
	m.mu.Lock()
	m.fields[name] = value
	delete(m.errs, name)
	m.queueSave()
	m.mu.Unlock()
	m.emit([]Event{FieldChanged{Name: name, Value: value}})
}

// Submit validates all steps and, if they pass, sends the form to the
// Submitter. The first invalid step becomes current with its errors
// recorded. Concurrent calls while one is pending get ErrBusy. On
// failure the entered data is kept so the caller can retry.
func (m *Machine) Submit(ctx context.Context) (*models.GenerationResult, error) {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return nil, ErrBusy
	}
	if m.submitter == nil {
		m.mu.Unlock()
		return nil, ErrNoSubmitter
	}

	var form models.FormData
	for _, def := range validation.Steps {
		data, res := validation.Decode(int(def.ID), m.stepFields(def.ID))
		if !res.Valid {
			m.errs = maps.Clone(res.Errors)
			m.validated[def.ID] = false
			var events []Event
			if m.step != int(def.ID) {
				from := m.step
				m.step = int(def.ID)
				m.queueSave()
				events = append(events, StepChanged{From: from, To: m.step})
			}
			events = append(events, ValidationFailed{Step: def.ID, Errors: maps.Clone(res.Errors)})
			m.mu.Unlock()
			m.emit(events)
			return nil, &ValidationError{Step: def.ID, Errors: res.Errors}
		}
		form.Set(data)
	}
	form.CurrentStep = models.StepCount
	form.LastUpdated = time.Now().Unix()

	m.inFlight = true
	m.mu.Unlock()
	m.emit([]Event{SubmissionStarted{}})

	result, err := m.submitter.Submit(ctx, form)

	m.mu.Lock()
	m.inFlight = false
	if err != nil {
		m.mu.Unlock()
		m.log.Warn("wizard submission failed", "error", err)
		m.emit([]Event{SubmissionFailed{Err: err}})
		return nil, fmt.Errorf("submitting wizard: %w", err)
	}
	m.resetLocked()
	if m.persist != nil {
		m.persist.enqueue(persistJob{clear: true})
	}
	m.mu.Unlock()
	m.emit([]Event{Submitted{Result: result}})
	return result, nil
}

// Reset discards every field and returns to step 1.
func (m *Machine) Reset() {
	m.mu.Lock()
	m.resetLocked()
	if m.persist != nil {
		m.persist.enqueue(persistJob{clear: true})
	}
	m.mu.Unlock()
	m.emit([]Event{WasReset{}})
}

// Restore loads a fresh cached snapshot. The machine moves towards the
// saved step only through steps whose cached fields still validate.
// It reports whether a snapshot was found.
func (m *Machine) Restore(ctx context.Context) (bool, error) {
	if m.cache == nil {
		return false, nil
	}
	m.Flush()
	snap, ok, err := m.cache.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("loading wizard cache: %w", err)
	}
	if !ok {
		return false, nil
	}

	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return false, ErrBusy
	}
	from := m.step
	m.fields = maps.Clone(snap.FormData)
	if m.fields == nil {
		m.fields = map[string]any{}
	}
	m.errs = map[string]string{}
	m.validated = map[models.StepID]bool{}
	m.step = 1
	target := min(max(snap.CurrentStep, 1), models.StepCount)
	for m.step < target {
		id := models.StepID(m.step)
		if !validation.Validate(m.step, m.stepFields(id)).Valid {
			break
		}
		m.validated[id] = true
		m.step++
	}
	events := []Event{StepChanged{From: from, To: m.step}}
	m.mu.Unlock()
	m.emit(events)
	return true, nil
}

func (m *Machine) resetLocked() {
	m.step = 1
	m.fields = map[string]any{}
	m.errs = map[string]string{}
	m.validated = map[models.StepID]bool{}
}

// stepFields returns the entered values owned by step. Caller holds mu.
func (m *Machine) stepFields(step models.StepID) map[string]any {
	def, ok := validation.Definition(int(step))
	if !ok {
		return nil
	}
	out := make(map[string]any, len(def.Fields))
	for _, f := range def.Fields {
		if v, ok := m.fields[f]; ok {
			out[f] = v
		}
	}
	return out
}

func (m *Machine) clearStepErrors(step models.StepID) {
	def, ok := validation.Definition(int(step))
	if !ok {
		return
	}
	for _, f := range def.Fields {
		delete(m.errs, f)
	}
}

// queueSave hands the current state to the background writer. Caller holds mu.
func (m *Machine) queueSave() {
	if m.persist == nil {
		return
	}
	m.persist.enqueue(persistJob{snap: models.WizardSnapshot{
		FormData:    maps.Clone(m.fields),
		CurrentStep: m.step,
	}})
}

func (m *Machine) emit(events []Event) {
	m.mu.Lock()
	listeners := append([]Listener(nil), m.listeners...)
	m.mu.Unlock()
	for _, e := range events {
		for _, l := range listeners {
			l(e)
		}
	}
}
