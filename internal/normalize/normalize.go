// Package normalize turns step-shaped wizard data, or the single-form
// legacy body, into the flat profile the plan engine consumes.
package normalize

import (
	"net/url"
	"strings"

	"github.com/claude/forgeplan/internal/models"
	"github.com/claude/forgeplan/internal/validation"
)

// Defaults applied when a step, or a field within it, is absent.
const (
	DefaultGoal            = models.GoalGeneralFitness
	DefaultFitnessLevel    = models.LevelBeginner
	DefaultLocation        = "home"
	DefaultDaysPerWeek     = 3
	DefaultWorkoutDuration = 45
	DefaultIntensity       = 5
	DefaultTimeOfDay       = "morning"
)

// DefaultEquipment returns a fresh copy of the default equipment set.
func DefaultEquipment() []models.Equipment {
	return []models.Equipment{models.EquipBodyweight}
}

// Profile flattens form into a profile. It never fails; absent data is
// replaced with the package defaults and an absent name stays empty so
// that Check can report it.
func Profile(form models.FormData) models.UserProfile {
	p := models.UserProfile{
		Goal:            DefaultGoal,
		FitnessLevel:    DefaultFitnessLevel,
		DaysPerWeek:     DefaultDaysPerWeek,
		Equipment:       DefaultEquipment(),
		WorkoutLocation: DefaultLocation,
		WorkoutDuration: DefaultWorkoutDuration,
		Intensity:       DefaultIntensity,
		TimeOfDay:       DefaultTimeOfDay,
	}

	if s := form.Personal; s != nil {
		p.Name = strings.TrimSpace(s.Name)
		if s.Age > 0 {
			age := s.Age
			p.Age = &age
		}
		p.Gender = s.Gender
	}
	if s := form.Goals; s != nil {
		if s.PrimaryGoal != "" {
			p.Goal = s.PrimaryGoal
		}
		p.TargetAreas = append([]string(nil), s.TargetAreas...)
		p.SecondaryGoals = append([]string(nil), s.SecondaryGoals...)
	}
	if s := form.Experience; s != nil {
		if s.FitnessLevel != "" {
			p.FitnessLevel = s.FitnessLevel
		}
		if s.YearsActive != nil {
			years := *s.YearsActive
			p.YearsActive = &years
		}
		p.PreviousInjuries = append([]string(nil), s.PreviousInjuries...)
	}
	if s := form.Equipment; s != nil {
		if len(s.Equipment) > 0 {
			p.Equipment = models.UniqueEquipment(s.Equipment)
		}
		if s.Location != "" {
			p.WorkoutLocation = s.Location
		}
	}
	if s := form.Preferences; s != nil {
		if s.DaysPerWeek != 0 {
			p.DaysPerWeek = s.DaysPerWeek
		}
		if s.WorkoutDuration != 0 {
			p.WorkoutDuration = s.WorkoutDuration
		}
		if s.Intensity != nil {
			p.Intensity = *s.Intensity
		}
		if s.TimeOfDay != "" {
			p.TimeOfDay = s.TimeOfDay
		}
	}
	return p
}

// Legacy maps the traditional single-form body (name, goal, fitness_level,
// days_per_week, equipment) onto a profile. Wizard-only fields are picked
// up when present. Values are taken as given; Check decides whether the
// result is usable.
func Legacy(body map[string]any) models.UserProfile {
	p := models.UserProfile{
		Goal:            DefaultGoal,
		FitnessLevel:    DefaultFitnessLevel,
		DaysPerWeek:     DefaultDaysPerWeek,
		Equipment:       DefaultEquipment(),
		WorkoutLocation: DefaultLocation,
		WorkoutDuration: DefaultWorkoutDuration,
		Intensity:       DefaultIntensity,
		TimeOfDay:       DefaultTimeOfDay,
	}

	p.Name = strings.TrimSpace(str(body, "name"))
	if g := str(body, "goal", "primary_goal"); g != "" {
		p.Goal = models.Goal(g)
	}
	if l := str(body, "fitness_level"); l != "" {
		p.FitnessLevel = models.FitnessLevel(l)
	}
	if n, ok := num(body, "days_per_week"); ok {
		p.DaysPerWeek = n
	}
	if items, ok := validation.Strings(first(body, "equipment", "equipment[]")); ok && len(items) > 0 {
		eq := make([]models.Equipment, len(items))
		for i, s := range items {
			eq[i] = models.Equipment(s)
		}
		p.Equipment = models.UniqueEquipment(eq)
	}

	if n, ok := num(body, "age"); ok && n > 0 {
		p.Age = &n
	}
	p.Gender = models.Gender(str(body, "gender"))
	p.TargetAreas, _ = validation.Strings(first(body, "target_areas", "target_areas[]"))
	p.SecondaryGoals, _ = validation.Strings(first(body, "secondary_goals", "secondary_goals[]"))
	if n, ok := num(body, "years_active"); ok {
		p.YearsActive = &n
	}
	p.PreviousInjuries, _ = validation.Strings(first(body, "previous_injuries", "previous_injuries[]"))
	if s := str(body, "workout_location", "location"); s != "" {
		p.WorkoutLocation = s
	}
	if n, ok := num(body, "workout_duration"); ok && n > 0 {
		p.WorkoutDuration = n
	}
	if n, ok := num(body, "intensity"); ok && n > 0 {
		p.Intensity = n
	}
	if s := str(body, "time_of_day"); s != "" {
		p.TimeOfDay = s
	}
	return p
}

// listFields are form keys that always decode as lists, even when a
// single value was posted.
var listFields = map[string]bool{
	"equipment":         true,
	"target_areas":      true,
	"secondary_goals":   true,
	"previous_injuries": true,
}

// FormBody converts a url-encoded form into the map shape Legacy reads.
// Both "equipment" and "equipment[]" spellings are accepted.
func FormBody(values url.Values) map[string]any {
	body := make(map[string]any, len(values))
	for key, vals := range values {
		name := strings.TrimSuffix(key, "[]")
		if listFields[name] || strings.HasSuffix(key, "[]") {
			list := make([]any, len(vals))
			for i, v := range vals {
				list[i] = v
			}
			body[name] = list
			continue
		}
		if len(vals) > 0 {
			body[name] = vals[0]
		}
	}
	return body
}

// Check reports required profile fields that are missing or unusable,
// keyed by field name. An empty map means the profile can be generated.
func Check(p models.UserProfile) map[string]string {
	errs := map[string]string{}
	if p.Name == "" {
		errs["name"] = "Name is required"
	}
	if p.Goal == "" {
		errs["goal"] = "Goal is required"
	}
	if p.FitnessLevel == "" {
		errs["fitness_level"] = "Fitness level is required"
	}
	if p.DaysPerWeek == 0 {
		errs["days_per_week"] = "Days per week is required"
	} else if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		errs["days_per_week"] = "Days per week must be between 1 and 7"
	}
	if len(p.Equipment) == 0 {
		errs["equipment"] = "Equipment is required"
	}
	return errs
}

func first(body map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := body[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func str(body map[string]any, keys ...string) string {
	s, _ := first(body, keys...).(string)
	return s
}

func num(body map[string]any, key string) (int, bool) {
	f, ok := validation.Number(first(body, key))
	if !ok {
		return 0, false
	}
	return int(f), true
}
