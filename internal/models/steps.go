package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StepID identifies one wizard step by its ordinal.
type StepID int

const (
	StepPersonalInfo StepID = iota + 1
	StepGoals
	StepExperience
	StepEquipment
	StepPreferences
)

// StepCount is the number of wizard steps.
const StepCount = int(StepPreferences)

// Key returns the session key for the step, e.g. "step_3".
func (s StepID) Key() string {
	return "step_" + strconv.Itoa(int(s))
}

// StepData is one validated step payload. Exactly one concrete type
// exists per StepID.
type StepData interface {
	Step() StepID
}

// PersonalInfo is the payload of step 1.
type PersonalInfo struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender Gender `json:"gender"`
}

// GoalsStep is the payload of step 2.
type GoalsStep struct {
	PrimaryGoal    Goal     `json:"primary_goal"`
	TargetAreas    []string `json:"target_areas"`
	SecondaryGoals []string `json:"secondary_goals,omitempty"`
}

// Experience is the payload of step 3.
type Experience struct {
	FitnessLevel     FitnessLevel `json:"fitness_level"`
	YearsActive      *int         `json:"years_active,omitempty"`
	PreviousInjuries []string     `json:"previous_injuries,omitempty"`
}

// EquipmentSelection is the payload of step 4.
type EquipmentSelection struct {
	Equipment []Equipment `json:"equipment"`
	Location  string      `json:"location,omitempty"`
}

// Preferences is the payload of step 5.
type Preferences struct {
	DaysPerWeek     int    `json:"days_per_week"`
	WorkoutDuration int    `json:"workout_duration"`
	Intensity       *int   `json:"intensity,omitempty"`
	TimeOfDay       string `json:"time_of_day,omitempty"`
}

func (PersonalInfo) Step() StepID       { return StepPersonalInfo }
func (GoalsStep) Step() StepID          { return StepGoals }
func (Experience) Step() StepID         { return StepExperience }
func (EquipmentSelection) Step() StepID { return StepEquipment }
func (Preferences) Step() StepID        { return StepPreferences }

// FormData is the per-step record kept in the session store while the
// wizard is in progress. A nil step pointer means the step was never saved.
type FormData struct {
	Personal    *PersonalInfo
	Goals       *GoalsStep
	Experience  *Experience
	Equipment   *EquipmentSelection
	Preferences *Preferences

	CurrentStep int
	LastUpdated int64
}

// Set stores d in its step slot, replacing any earlier payload.
func (f *FormData) Set(d StepData) {
	switch v := d.(type) {
	case PersonalInfo:
		f.Personal = &v
	case GoalsStep:
		f.Goals = &v
	case Experience:
		f.Experience = &v
	case EquipmentSelection:
		f.Equipment = &v
	case Preferences:
		f.Preferences = &v
	}
}

// Get returns the payload saved for step, or nil.
func (f *FormData) Get(step StepID) StepData {
	switch step {
	case StepPersonalInfo:
		if f.Personal != nil {
			return *f.Personal
		}
	case StepGoals:
		if f.Goals != nil {
			return *f.Goals
		}
	case StepExperience:
		if f.Experience != nil {
			return *f.Experience
		}
	case StepEquipment:
		if f.Equipment != nil {
			return *f.Equipment
		}
	case StepPreferences:
		if f.Preferences != nil {
			return *f.Preferences
		}
	}
	return nil
}

// Steps returns the saved payloads in step order.
func (f *FormData) Steps() []StepData {
	var out []StepData
	for s := StepPersonalInfo; s <= StepPreferences; s++ {
		if d := f.Get(s); d != nil {
			out = append(out, d)
		}
	}
	return out
}

// Empty reports whether no step has been saved.
func (f *FormData) Empty() bool {
	return len(f.Steps()) == 0
}

// MarshalJSON writes the flat session shape:
// {"step_1": {...}, ..., "current_step": n, "last_updated": unix}.
func (f FormData) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 7)
	for _, d := range f.Steps() {
		m[d.Step().Key()] = d
	}
	if f.CurrentStep != 0 {
		m["current_step"] = f.CurrentStep
	}
	if f.LastUpdated != 0 {
		m["last_updated"] = f.LastUpdated
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads the shape written by MarshalJSON.
func (f *FormData) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = FormData{}
	for key, val := range raw {
		switch key {
		case "current_step":
			if err := json.Unmarshal(val, &f.CurrentStep); err != nil {
				return fmt.Errorf("current_step: %w", err)
			}
			continue
		case "last_updated":
			if err := json.Unmarshal(val, &f.LastUpdated); err != nil {
				return fmt.Errorf("last_updated: %w", err)
			}
			continue
		}
		if !strings.HasPrefix(key, "step_") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(key, "step_"))
		if err != nil {
			continue
		}
		var d StepData
		switch StepID(n) {
		case StepPersonalInfo:
			var v PersonalInfo
			err = json.Unmarshal(val, &v)
			d = v
		case StepGoals:
			var v GoalsStep
			err = json.Unmarshal(val, &v)
			d = v
		case StepExperience:
			var v Experience
			err = json.Unmarshal(val, &v)
			d = v
		case StepEquipment:
			var v EquipmentSelection
			err = json.Unmarshal(val, &v)
			d = v
		case StepPreferences:
			var v Preferences
			err = json.Unmarshal(val, &v)
			d = v
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		f.Set(d)
	}
	return nil
}

// WizardSnapshot is the resumable wizard state kept in the local cache.
// Timestamp is in Unix milliseconds.
type WizardSnapshot struct {
	FormData    map[string]any `json:"formData"`
	CurrentStep int            `json:"currentStep"`
	Timestamp   int64          `json:"timestamp"`
}
