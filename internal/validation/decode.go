package validation

import (
	"strings"

	"github.com/claude/forgeplan/internal/models"
)

// Decode validates raw for step and, when valid, converts it into the
// step's typed payload. The payload is nil whenever the result is invalid.
func Decode(step int, raw map[string]any) (models.StepData, Result) {
	res := Validate(step, raw)
	if !res.Valid {
		return nil, res
	}
	switch models.StepID(step) {
	case models.StepPersonalInfo:
		age, _ := Number(raw["age"])
		name, _ := raw["name"].(string)
		gender, _ := raw["gender"].(string)
		return models.PersonalInfo{
			Name:   strings.TrimSpace(name),
			Age:    int(age),
			Gender: models.Gender(gender),
		}, res
	case models.StepGoals:
		goal, _ := raw["primary_goal"].(string)
		areas, _ := Strings(raw["target_areas"])
		secondary, _ := Strings(raw["secondary_goals"])
		return models.GoalsStep{
			PrimaryGoal:    models.Goal(goal),
			TargetAreas:    areas,
			SecondaryGoals: secondary,
		}, res
	case models.StepExperience:
		level, _ := raw["fitness_level"].(string)
		injuries, _ := Strings(raw["previous_injuries"])
		return models.Experience{
			FitnessLevel:     models.FitnessLevel(level),
			YearsActive:      optionalInt(raw, "years_active"),
			PreviousInjuries: injuries,
		}, res
	case models.StepEquipment:
		items, _ := Strings(raw["equipment"])
		eq := make([]models.Equipment, len(items))
		for i, s := range items {
			eq[i] = models.Equipment(s)
		}
		location, _ := raw["location"].(string)
		return models.EquipmentSelection{Equipment: models.UniqueEquipment(eq), Location: location}, res
	case models.StepPreferences:
		days, _ := Number(raw["days_per_week"])
		duration, _ := Number(raw["workout_duration"])
		tod, _ := raw["time_of_day"].(string)
		return models.Preferences{
			DaysPerWeek:     int(days),
			WorkoutDuration: int(duration),
			Intensity:       optionalInt(raw, "intensity"),
			TimeOfDay:       tod,
		}, res
	}
	return nil, res
}

func optionalInt(raw map[string]any, key string) *int {
	v, set := present(raw, key)
	if !set {
		return nil
	}
	n, ok := Number(v)
	if !ok {
		return nil
	}
	i := int(n)
	return &i
}

// Fields flattens a typed payload back into the raw field map the wizard
// edits. Decode(d.Step(), Fields(d)) yields d again for any valid d.
func Fields(d models.StepData) map[string]any {
	m := map[string]any{}
	switch v := d.(type) {
	case models.PersonalInfo:
		m["name"] = v.Name
		m["age"] = v.Age
		m["gender"] = string(v.Gender)
	case models.GoalsStep:
		m["primary_goal"] = string(v.PrimaryGoal)
		m["target_areas"] = toAny(v.TargetAreas)
		if v.SecondaryGoals != nil {
			m["secondary_goals"] = toAny(v.SecondaryGoals)
		}
	case models.Experience:
		m["fitness_level"] = string(v.FitnessLevel)
		if v.YearsActive != nil {
			m["years_active"] = *v.YearsActive
		}
		if v.PreviousInjuries != nil {
			m["previous_injuries"] = toAny(v.PreviousInjuries)
		}
	case models.EquipmentSelection:
		items := make([]any, len(v.Equipment))
		for i, e := range v.Equipment {
			items[i] = string(e)
		}
		m["equipment"] = items
		if v.Location != "" {
			m["location"] = v.Location
		}
	case models.Preferences:
		m["days_per_week"] = v.DaysPerWeek
		m["workout_duration"] = v.WorkoutDuration
		if v.Intensity != nil {
			m["intensity"] = *v.Intensity
		}
		if v.TimeOfDay != "" {
			m["time_of_day"] = v.TimeOfDay
		}
	}
	return m
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
