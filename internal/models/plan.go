package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MuscleGroup names used by the catalog and split templates.
const (
	MuscleChest     = "Chest"
	MuscleBack      = "Back"
	MuscleLegs      = "Legs"
	MuscleShoulders = "Shoulders"
	MuscleBiceps    = "Biceps"
	MuscleTriceps   = "Triceps"
	MuscleCore      = "Core"
)

// Exercise is an immutable catalog entry. Name is the unique key.
type Exercise struct {
	Name              string       `json:"name" yaml:"name"`
	MuscleGroup       string       `json:"muscle_group" yaml:"muscle_group"`
	Equipment         Equipment    `json:"equipment" yaml:"equipment"`
	Difficulty        FitnessLevel `json:"difficulty" yaml:"difficulty"`
	DurationSec       int          `json:"duration" yaml:"duration"`
	CaloriesPerMinute float64      `json:"calories_per_minute" yaml:"calories_per_minute"`
}

// Intensity is the sets × rep-range pair applied to every exercise in a plan.
type Intensity struct {
	Sets int    `json:"sets"`
	Reps string `json:"reps"`
}

// Day is one labelled training day.
type Day struct {
	Label     string
	Exercises []string
}

// WorkoutPlan is an ordered day label → exercise names mapping.
// It serializes as a JSON object whose keys keep plan order.
type WorkoutPlan []Day

// Labels returns the day labels in order.
func (p WorkoutPlan) Labels() []string {
	out := make([]string, len(p))
	for i, d := range p {
		out[i] = d.Label
	}
	return out
}

// Day returns the exercises for label and whether the label exists.
func (p WorkoutPlan) Day(label string) ([]string, bool) {
	for _, d := range p {
		if d.Label == label {
			return d.Exercises, true
		}
	}
	return nil, false
}

func (p WorkoutPlan) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(d.Label)
		if err != nil {
			return nil, err
		}
		exercises := d.Exercises
		if exercises == nil {
			exercises = []string{}
		}
		val, err := json.Marshal(exercises)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *WorkoutPlan) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("workout plan: expected object, got %v", tok)
	}
	plan := WorkoutPlan{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("workout plan: expected string key, got %v", tok)
		}
		var exercises []string
		if err := dec.Decode(&exercises); err != nil {
			return fmt.Errorf("workout plan day %q: %w", label, err)
		}
		plan = append(plan, Day{Label: label, Exercises: exercises})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = plan
	return nil
}

// AchievementCategory groups achievements for display.
type AchievementCategory string

const (
	CategoryMilestone  AchievementCategory = "milestone"
	CategoryCommitment AchievementCategory = "commitment"
	CategoryExperience AchievementCategory = "experience"
	CategoryGoal       AchievementCategory = "goal"
	CategoryEquipment  AchievementCategory = "equipment"
	CategoryFuture     AchievementCategory = "future"
)

// Achievement is a gamification reward granted at generation time.
type Achievement struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Points      int                 `json:"points"`
	Unlocked    bool                `json:"unlocked"`
	Category    AchievementCategory `json:"category"`
}

// ProgressTracker is the zeroed counter record seeded for a new plan.
type ProgressTracker struct {
	TotalWorkoutsCompleted int `json:"total_workouts_completed"`
	CurrentStreak          int `json:"current_streak"`
	Level                  int `json:"level"`
	ExperiencePoints       int `json:"experience_points"`
	WeeklyGoal             int `json:"weekly_goal"`
	WeeklyProgress         int `json:"weekly_progress"`
}

// CalorieEstimate is the weekly energy estimate for a plan.
type CalorieEstimate struct {
	TotalPerWeek      float64 `json:"total_per_week"`
	AveragePerWorkout float64 `json:"average_per_workout"`
}

// GenerationResult is everything the engine derives from one profile.
type GenerationResult struct {
	Plan         WorkoutPlan     `json:"plan"`
	Intensity    Intensity       `json:"intensity"`
	Achievements []Achievement   `json:"achievements"`
	Progress     ProgressTracker `json:"progress_tracking"`
	Calories     CalorieEstimate `json:"estimated_calories"`
}
