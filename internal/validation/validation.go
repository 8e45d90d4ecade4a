// Package validation implements the per-step wizard rules. Rules are pure:
// they inspect a raw field map and report field-keyed messages, never errors.
package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/claude/forgeplan/internal/models"
)

// Result is the outcome of validating one step.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

func result(errs map[string]string) Result {
	if len(errs) == 0 {
		return Result{Valid: true}
	}
	return Result{Valid: false, Errors: errs}
}

// StepDefinition describes one wizard step.
type StepDefinition struct {
	ID       models.StepID
	Title    string
	Fields   []string
	Required []string
	Check    func(raw map[string]any) map[string]string
}

// Steps lists the five wizard steps in order.
var Steps = []StepDefinition{
	{
		ID:       models.StepPersonalInfo,
		Title:    "Personal Information",
		Fields:   []string{"name", "age", "gender"},
		Required: []string{"name", "age", "gender"},
		Check:    checkPersonal,
	},
	{
		ID:       models.StepGoals,
		Title:    "Fitness Goals",
		Fields:   []string{"primary_goal", "target_areas", "secondary_goals"},
		Required: []string{"primary_goal", "target_areas"},
		Check:    checkGoals,
	},
	{
		ID:       models.StepExperience,
		Title:    "Experience Level",
		Fields:   []string{"fitness_level", "years_active", "previous_injuries"},
		Required: []string{"fitness_level"},
		Check:    checkExperience,
	},
	{
		ID:       models.StepEquipment,
		Title:    "Equipment",
		Fields:   []string{"equipment", "location"},
		Required: []string{"equipment"},
		Check:    checkEquipment,
	},
	{
		ID:       models.StepPreferences,
		Title:    "Preferences",
		Fields:   []string{"days_per_week", "workout_duration", "intensity", "time_of_day"},
		Required: []string{"days_per_week", "workout_duration"},
		Check:    checkPreferences,
	},
}

// Definition returns the definition of step, or false for an unknown step.
func Definition(step int) (StepDefinition, bool) {
	if step < 1 || step > len(Steps) {
		return StepDefinition{}, false
	}
	return Steps[step-1], true
}

// FieldStep returns the step that owns field.
func FieldStep(field string) (models.StepID, bool) {
	for _, def := range Steps {
		for _, f := range def.Fields {
			if f == field {
				return def.ID, true
			}
		}
	}
	return 0, false
}

// Validate checks raw against the rules of step.
func Validate(step int, raw map[string]any) Result {
	def, ok := Definition(step)
	if !ok {
		return result(map[string]string{"step": "Invalid step number"})
	}
	return result(def.Check(raw))
}

func checkPersonal(raw map[string]any) map[string]string {
	errs := map[string]string{}
	if name, _ := raw["name"].(string); len(strings.TrimSpace(name)) < 2 {
		errs["name"] = "Name must be at least 2 characters long"
	}
	if age, ok := Number(raw["age"]); !ok || age < 13 || age > 100 {
		errs["age"] = "Age must be between 13 and 100"
	}
	if g, _ := raw["gender"].(string); !models.ValidGender(g) {
		errs["gender"] = "Please select a valid gender"
	}
	return errs
}

func checkGoals(raw map[string]any) map[string]string {
	errs := map[string]string{}
	if g, _ := raw["primary_goal"].(string); !models.ValidGoal(g) {
		errs["primary_goal"] = "Please select a valid primary goal"
	}
	if areas, ok := Strings(raw["target_areas"]); !ok || len(areas) == 0 {
		errs["target_areas"] = "Please select at least one target area"
	}
	return errs
}

func checkExperience(raw map[string]any) map[string]string {
	errs := map[string]string{}
	if l, _ := raw["fitness_level"].(string); !models.ValidFitnessLevel(l) {
		errs["fitness_level"] = "Please select a valid fitness level"
	}
	if v, set := present(raw, "years_active"); set {
		if n, ok := Number(v); !ok || n < 0 || n > 50 {
			errs["years_active"] = "Years active must be between 0 and 50"
		}
	}
	return errs
}

func checkEquipment(raw map[string]any) map[string]string {
	errs := map[string]string{}
	items, ok := Strings(raw["equipment"])
	if !ok {
		if list, isList := raw["equipment"].([]any); isList && len(list) > 0 {
			errs["equipment"] = "Invalid equipment selection"
		} else {
			errs["equipment"] = "Please select at least one equipment option"
		}
		return errs
	}
	if len(items) == 0 {
		errs["equipment"] = "Please select at least one equipment option"
		return errs
	}
	for _, e := range items {
		if !models.ValidEquipment(e) {
			errs["equipment"] = "Invalid equipment selection"
			break
		}
	}
	return errs
}

func checkPreferences(raw map[string]any) map[string]string {
	errs := map[string]string{}
	if n, ok := Number(raw["days_per_week"]); !ok || n < 1 || n > 7 {
		errs["days_per_week"] = "Days per week must be between 1 and 7"
	}
	if n, ok := Number(raw["workout_duration"]); !ok || n < 15 || n > 180 {
		errs["workout_duration"] = "Workout duration must be between 15 and 180 minutes"
	}
	if v, set := present(raw, "intensity"); set {
		if n, ok := Number(v); !ok || n < 1 || n > 10 {
			errs["intensity"] = "Intensity must be between 1 and 10"
		}
	}
	return errs
}

// present reports whether key holds a non-null value.
func present(raw map[string]any, key string) (any, bool) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Number interprets v as a number. JSON numbers and numeric strings
// (form posts) are accepted; NaN and infinities are not.
func Number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Strings interprets v as a list of strings. A list holding any non-string
// element is rejected.
func Strings(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
