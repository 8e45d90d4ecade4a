package models

// Goal is the user's primary training goal.
type Goal string

const (
	GoalMuscleGain     Goal = "muscle_gain"
	GoalWeightLoss     Goal = "weight_loss"
	GoalGeneralFitness Goal = "general_fitness"
	GoalStrength       Goal = "strength"
	GoalEndurance      Goal = "endurance"
)

// Goals lists every accepted goal in display order.
var Goals = []Goal{GoalMuscleGain, GoalWeightLoss, GoalGeneralFitness, GoalStrength, GoalEndurance}

// FitnessLevel is the user's self-reported experience.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

var FitnessLevels = []FitnessLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}

// Equipment is a piece of equipment an exercise may require.
type Equipment string

const (
	EquipBodyweight      Equipment = "bodyweight"
	EquipDumbbells       Equipment = "dumbbells"
	EquipBarbell         Equipment = "barbell"
	EquipResistanceBands Equipment = "resistance_bands"
	EquipKettlebells     Equipment = "kettlebells"
	EquipMachines        Equipment = "machines"
	EquipCables          Equipment = "cables"
)

var EquipmentTypes = []Equipment{
	EquipBodyweight, EquipDumbbells, EquipBarbell, EquipResistanceBands,
	EquipKettlebells, EquipMachines, EquipCables,
}

// Gender values accepted by the personal info step.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

// UserProfile is the flat, engine-ready record built from wizard steps
// or from the legacy single-form body.
type UserProfile struct {
	Name         string       `json:"name"`
	Goal         Goal         `json:"goal"`
	FitnessLevel FitnessLevel `json:"fitness_level"`
	DaysPerWeek  int          `json:"days_per_week"`
	Equipment    []Equipment  `json:"equipment"`

	Age              *int     `json:"age,omitempty"`
	Gender           Gender   `json:"gender,omitempty"`
	TargetAreas      []string `json:"target_areas,omitempty"`
	SecondaryGoals   []string `json:"secondary_goals,omitempty"`
	YearsActive      *int     `json:"years_active,omitempty"`
	PreviousInjuries []string `json:"previous_injuries,omitempty"`
	WorkoutLocation  string   `json:"workout_location,omitempty"`
	WorkoutDuration  int      `json:"workout_duration,omitempty"`
	Intensity        int      `json:"intensity,omitempty"`
	TimeOfDay        string   `json:"time_of_day,omitempty"`
}

// HasEquipment reports whether e is in the profile's equipment set.
func (p UserProfile) HasEquipment(e Equipment) bool {
	for _, have := range p.Equipment {
		if have == e {
			return true
		}
	}
	return false
}

// UniqueEquipment returns list without repeated entries, keeping the
// first occurrence of each.
func UniqueEquipment(list []Equipment) []Equipment {
	if list == nil {
		return nil
	}
	out := make([]Equipment, 0, len(list))
	seen := make(map[Equipment]bool, len(list))
	for _, e := range list {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// ValidGoal reports whether g is a known goal.
func ValidGoal(g string) bool {
	for _, v := range Goals {
		if string(v) == g {
			return true
		}
	}
	return false
}

// ValidFitnessLevel reports whether l is a known fitness level.
func ValidFitnessLevel(l string) bool {
	for _, v := range FitnessLevels {
		if string(v) == l {
			return true
		}
	}
	return false
}

// ValidEquipment reports whether e is a known equipment type.
func ValidEquipment(e string) bool {
	for _, v := range EquipmentTypes {
		if string(v) == e {
			return true
		}
	}
	return false
}

// ValidGender reports whether g is an accepted gender value.
func ValidGender(g string) bool {
	for _, v := range Genders {
		if string(v) == g {
			return true
		}
	}
	return false
}
