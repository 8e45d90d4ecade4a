package engine

import (
	"math"
	"strconv"

	"github.com/claude/forgeplan/internal/models"
)

var baseIntensity = map[models.Goal]models.Intensity{
	models.GoalMuscleGain:     {Sets: 4, Reps: "8-12"},
	models.GoalWeightLoss:     {Sets: 3, Reps: "15-20"},
	models.GoalGeneralFitness: {Sets: 3, Reps: "10-15"},
	models.GoalStrength:       {Sets: 5, Reps: "3-6"},
	models.GoalEndurance:      {Sets: 2, Reps: "20-30"},
}

// IntensityFor returns the sets and rep range for a goal, adjusted for
// fitness level. Unknown goals use the general fitness pair.
func IntensityFor(goal models.Goal, level models.FitnessLevel) models.Intensity {
	in, ok := baseIntensity[goal]
	if !ok {
		in = baseIntensity[models.GoalGeneralFitness]
	}
	switch level {
	case models.LevelBeginner:
		in.Sets = max(1, in.Sets-1)
	case models.LevelAdvanced:
		in.Sets++
	}
	return in
}

// DayTemplate is one day of a split before exercises are chosen.
type DayTemplate struct {
	Label  string
	Groups []string
	Count  int
}

const (
	exercisesPerDay   = 5
	recoveryExercises = 3
)

var fullBodyGroups = [][]string{
	{models.MuscleChest, models.MuscleBack, models.MuscleLegs, models.MuscleCore},
	{models.MuscleShoulders, models.MuscleBiceps, models.MuscleTriceps, models.MuscleLegs},
	{models.MuscleChest, models.MuscleBack, models.MuscleShoulders, models.MuscleCore},
}

var upperLower = []DayTemplate{
	{"Upper Body 1", []string{models.MuscleChest, models.MuscleBack, models.MuscleShoulders, models.MuscleBiceps}, exercisesPerDay},
	{"Lower Body 1", []string{models.MuscleLegs, models.MuscleCore}, exercisesPerDay},
	{"Upper Body 2", []string{models.MuscleChest, models.MuscleBack, models.MuscleShoulders, models.MuscleTriceps}, exercisesPerDay},
	{"Lower Body 2", []string{models.MuscleLegs, models.MuscleCore}, exercisesPerDay},
}

var pushPullLegs = []DayTemplate{
	{"Push Day (Chest, Shoulders, Triceps)", []string{models.MuscleChest, models.MuscleShoulders, models.MuscleTriceps}, exercisesPerDay},
	{"Pull Day (Back, Biceps)", []string{models.MuscleBack, models.MuscleBiceps}, exercisesPerDay},
	{"Leg Day", []string{models.MuscleLegs, models.MuscleCore}, exercisesPerDay},
	{"Push Day 2", []string{models.MuscleChest, models.MuscleShoulders, models.MuscleTriceps}, exercisesPerDay},
	{"Pull Day 2", []string{models.MuscleBack, models.MuscleBiceps}, exercisesPerDay},
	{"Legs & Core", []string{models.MuscleLegs, models.MuscleCore}, exercisesPerDay},
	{"Active Recovery", []string{models.MuscleCore}, recoveryExercises},
}

// Split returns the day templates for a training frequency. Values
// outside 1..7 yield no days.
func Split(daysPerWeek int) []DayTemplate {
	switch {
	case daysPerWeek >= 1 && daysPerWeek <= 3:
		days := make([]DayTemplate, daysPerWeek)
		for i := range days {
			days[i] = DayTemplate{
				Label:  "Full Body Workout " + strconv.Itoa(i+1),
				Groups: fullBodyGroups[i%len(fullBodyGroups)],
				Count:  exercisesPerDay,
			}
		}
		return days
	case daysPerWeek == 4:
		return append([]DayTemplate(nil), upperLower...)
	case daysPerWeek >= 5 && daysPerWeek <= 7:
		return append([]DayTemplate(nil), pushPullLegs[:daysPerWeek]...)
	}
	return nil
}

func award(id, title, desc string, points int, cat models.AchievementCategory) models.Achievement {
	return models.Achievement{ID: id, Title: title, Description: desc, Points: points, Unlocked: true, Category: cat}
}

func locked(id, title, desc string, points int, cat models.AchievementCategory) models.Achievement {
	a := award(id, title, desc, points, cat)
	a.Unlocked = false
	return a
}

// Achievements evaluates the reward rules against a profile. Order is
// stable: milestone, commitment, level, goal, equipment, then the two
// locked future rewards.
func Achievements(p models.UserProfile) []models.Achievement {
	out := []models.Achievement{
		award("first_workout", "First Workout Generated!", "Generated your first personalised workout plan", 10, models.CategoryMilestone),
	}

	switch {
	case p.DaysPerWeek >= 5:
		out = append(out, award("dedicated_athlete", "Dedicated Athlete", "Committed to training five or more days a week", 25, models.CategoryCommitment))
	case p.DaysPerWeek >= 3:
		out = append(out, award("consistent_trainer", "Consistent Trainer", "Committed to training at least three days a week", 15, models.CategoryCommitment))
	}

	switch p.FitnessLevel {
	case models.LevelBeginner:
		out = append(out, award("new_beginnings", "New Beginnings", "Started your fitness journey", 20, models.CategoryExperience))
	case models.LevelIntermediate:
		out = append(out, award("rising_star", "Rising Star", "Building on a solid training base", 20, models.CategoryExperience))
	case models.LevelAdvanced:
		out = append(out, award("elite_performer", "Elite Performer", "Training at an advanced level", 30, models.CategoryExperience))
	}

	switch p.Goal {
	case models.GoalMuscleGain:
		out = append(out, award("muscle_builder", "Muscle Builder", "Set out to build muscle", 15, models.CategoryGoal))
	case models.GoalWeightLoss:
		out = append(out, award("fat_burner", "Fat Burner", "Set out to lose weight", 15, models.CategoryGoal))
	case models.GoalStrength:
		out = append(out, award("strength_seeker", "Strength Seeker", "Set out to get stronger", 15, models.CategoryGoal))
	}

	if len(models.UniqueEquipment(p.Equipment)) >= 4 {
		out = append(out, award("equipment_master", "Equipment Master", "Training with four or more kinds of equipment", 15, models.CategoryEquipment))
	}

	return append(out,
		locked("week_warrior", "Week Warrior", "Complete every workout in a week", 50, models.CategoryFuture),
		locked("consistency_king", "Consistency King", "Keep a training streak going for a month", 100, models.CategoryFuture),
	)
}

// Calories estimates energy use for a plan: per exercise,
// duration in minutes × sets × calories per minute. Names missing from
// lookup are skipped.
func Calories(plan models.WorkoutPlan, in models.Intensity, lookup func(string) (models.Exercise, bool)) models.CalorieEstimate {
	if len(plan) == 0 {
		return models.CalorieEstimate{}
	}
	var total float64
	for _, day := range plan {
		for _, name := range day.Exercises {
			ex, ok := lookup(name)
			if !ok {
				continue
			}
			total += float64(ex.DurationSec) / 60 * float64(in.Sets) * ex.CaloriesPerMinute
		}
	}
	return models.CalorieEstimate{
		TotalPerWeek:      math.Round(total),
		AveragePerWorkout: math.Round(total / float64(len(plan))),
	}
}

// Progress seeds the tracker for a new plan.
func Progress(p models.UserProfile) models.ProgressTracker {
	return models.ProgressTracker{Level: 1, WeeklyGoal: p.DaysPerWeek}
}
