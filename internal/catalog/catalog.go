// Package catalog holds the read-only exercise catalog the plan engine
// selects from.
package catalog

import (
	"fmt"
	"os"

	"github.com/claude/forgeplan/internal/models"
	"gopkg.in/yaml.v3"
)

// Catalog is an immutable, name-indexed set of exercises.
type Catalog struct {
	exercises []models.Exercise
	byName    map[string]int
}

// New builds a catalog from exercises. Names must be unique and every
// entry must name a known equipment type.
func New(exercises []models.Exercise) (*Catalog, error) {
	c := &Catalog{
		exercises: make([]models.Exercise, len(exercises)),
		byName:    make(map[string]int, len(exercises)),
	}
	copy(c.exercises, exercises)
	for i, ex := range c.exercises {
		if ex.Name == "" {
			return nil, fmt.Errorf("exercise %d: name is required", i)
		}
		if _, dup := c.byName[ex.Name]; dup {
			return nil, fmt.Errorf("exercise %q: duplicate name", ex.Name)
		}
		if !models.ValidEquipment(string(ex.Equipment)) {
			return nil, fmt.Errorf("exercise %q: unknown equipment %q", ex.Name, ex.Equipment)
		}
		if ex.DurationSec < 0 || ex.CaloriesPerMinute < 0 {
			return nil, fmt.Errorf("exercise %q: negative duration or energy cost", ex.Name)
		}
		c.byName[ex.Name] = i
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultExercises)
	if err != nil {
		panic("catalog: built-in exercises are invalid: " + err.Error())
	}
	return c
}

// Load reads a catalog from a YAML file of the form
//
//	exercises:
//	  - name: Push-ups
//	    muscle_group: Chest
//	    equipment: bodyweight
//	    difficulty: beginner
//	    duration: 30
//	    calories_per_minute: 8
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	var file struct {
		Exercises []models.Exercise `yaml:"exercises"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	if len(file.Exercises) == 0 {
		return nil, fmt.Errorf("catalog file %s has no exercises", path)
	}
	return New(file.Exercises)
}

// All returns a copy of every exercise in catalog order.
func (c *Catalog) All() []models.Exercise {
	out := make([]models.Exercise, len(c.exercises))
	copy(out, c.exercises)
	return out
}

// Len returns the number of exercises.
func (c *Catalog) Len() int {
	return len(c.exercises)
}

// Lookup finds an exercise by name.
func (c *Catalog) Lookup(name string) (models.Exercise, bool) {
	i, ok := c.byName[name]
	if !ok {
		return models.Exercise{}, false
	}
	return c.exercises[i], true
}

// ForEquipment returns the exercises whose equipment requirement is in
// equipment, in catalog order.
func (c *Catalog) ForEquipment(equipment []models.Equipment) []models.Exercise {
	allowed := make(map[models.Equipment]bool, len(equipment))
	for _, e := range equipment {
		allowed[e] = true
	}
	var out []models.Exercise
	for _, ex := range c.exercises {
		if allowed[ex.Equipment] {
			out = append(out, ex)
		}
	}
	return out
}
