// Package engine generates workout plans from a normalized profile.
//
// Everything except exercise selection is deterministic. Selection goes
// through a Picker so callers control the randomness source.
package engine

import (
	"fmt"
	"slices"

	"github.com/claude/forgeplan/internal/catalog"
	"github.com/claude/forgeplan/internal/models"
)

// Generator produces plans from a fixed catalog.
type Generator struct {
	catalog *catalog.Catalog
	picker  Picker
}

// New creates a generator. A nil picker means FirstPicker.
func New(cat *catalog.Catalog, picker Picker) *Generator {
	if picker == nil {
		picker = FirstPicker{}
	}
	return &Generator{catalog: cat, picker: picker}
}

// Catalog returns the catalog the generator selects from.
func (g *Generator) Catalog() *catalog.Catalog {
	return g.catalog
}

// Generate builds the plan, intensity, achievements, progress seed and
// calorie estimate for p. The only error source is a misbehaving picker.
func (g *Generator) Generate(p models.UserProfile) (*models.GenerationResult, error) {
	pool := g.catalog.ForEquipment(p.Equipment)
	intensity := IntensityFor(p.Goal, p.FitnessLevel)

	split := Split(p.DaysPerWeek)
	plan := make(models.WorkoutPlan, 0, len(split))
	for _, day := range split {
		names, err := SelectExercises(pool, day.Groups, day.Count, g.picker)
		if err != nil {
			return nil, fmt.Errorf("selecting exercises for %q: %w", day.Label, err)
		}
		plan = append(plan, models.Day{Label: day.Label, Exercises: names})
	}

	return &models.GenerationResult{
		Plan:         plan,
		Intensity:    intensity,
		Achievements: Achievements(p),
		Progress:     Progress(p),
		Calories:     Calories(plan, intensity, g.catalog.Lookup),
	}, nil
}

// SelectExercises picks up to count exercise names from pool whose muscle
// group is in groups, without replacement. When groups omit Core and the
// pick came up short, one Core exercise from pool is added if any exists.
func SelectExercises(pool []models.Exercise, groups []string, count int, picker Picker) ([]string, error) {
	var filtered []models.Exercise
	for _, ex := range pool {
		if slices.Contains(groups, ex.MuscleGroup) {
			filtered = append(filtered, ex)
		}
	}

	n := min(max(count, 0), len(filtered))
	selected := make([]string, 0, n+1)
	if n > 0 {
		idx := picker.Pick(n, len(filtered))
		if err := checkPick(idx, n, len(filtered)); err != nil {
			return nil, err
		}
		for _, i := range idx {
			selected = append(selected, filtered[i].Name)
		}
	}

	if len(selected) < count && !slices.Contains(groups, models.MuscleCore) {
		var core []models.Exercise
		for _, ex := range pool {
			if ex.MuscleGroup == models.MuscleCore {
				core = append(core, ex)
			}
		}
		if len(core) > 0 {
			idx := picker.Pick(1, len(core))
			if err := checkPick(idx, 1, len(core)); err != nil {
				return nil, err
			}
			selected = append(selected, core[idx[0]].Name)
		}
	}
	return selected, nil
}
