package catalog

import "github.com/claude/forgeplan/internal/models"

func ex(name, group string, eq models.Equipment, diff models.FitnessLevel, dur int, kcal float64) models.Exercise {
	return models.Exercise{
		Name:              name,
		MuscleGroup:       group,
		Equipment:         eq,
		Difficulty:        diff,
		DurationSec:       dur,
		CaloriesPerMinute: kcal,
	}
}

var defaultExercises = []models.Exercise{
	// Chest
	ex("Push-ups", models.MuscleChest, models.EquipBodyweight, models.LevelBeginner, 30, 8),
	ex("Dumbbell Bench Press", models.MuscleChest, models.EquipDumbbells, models.LevelIntermediate, 45, 9),
	ex("Barbell Bench Press", models.MuscleChest, models.EquipBarbell, models.LevelAdvanced, 45, 10),
	ex("Incline Push-ups", models.MuscleChest, models.EquipBodyweight, models.LevelBeginner, 30, 7),
	ex("Dumbbell Flyes", models.MuscleChest, models.EquipDumbbells, models.LevelIntermediate, 40, 7),
	ex("Cable Crossover", models.MuscleChest, models.EquipCables, models.LevelIntermediate, 40, 7),
	ex("Machine Chest Press", models.MuscleChest, models.EquipMachines, models.LevelBeginner, 45, 8),

	// Back
	ex("Pull-ups", models.MuscleBack, models.EquipBodyweight, models.LevelAdvanced, 30, 10),
	ex("Dumbbell Rows", models.MuscleBack, models.EquipDumbbells, models.LevelIntermediate, 45, 9),
	ex("Barbell Rows", models.MuscleBack, models.EquipBarbell, models.LevelIntermediate, 45, 10),
	ex("Supermans", models.MuscleBack, models.EquipBodyweight, models.LevelBeginner, 30, 5),
	ex("Resistance Band Pull-Aparts", models.MuscleBack, models.EquipResistanceBands, models.LevelBeginner, 30, 5),
	ex("Lat Pulldown", models.MuscleBack, models.EquipMachines, models.LevelBeginner, 45, 8),
	ex("Seated Cable Row", models.MuscleBack, models.EquipCables, models.LevelIntermediate, 45, 8),

	// Legs
	ex("Bodyweight Squats", models.MuscleLegs, models.EquipBodyweight, models.LevelBeginner, 30, 8),
	ex("Lunges", models.MuscleLegs, models.EquipBodyweight, models.LevelBeginner, 40, 8),
	ex("Dumbbell Goblet Squats", models.MuscleLegs, models.EquipDumbbells, models.LevelIntermediate, 45, 10),
	ex("Barbell Squats", models.MuscleLegs, models.EquipBarbell, models.LevelAdvanced, 60, 12),
	ex("Kettlebell Swings", models.MuscleLegs, models.EquipKettlebells, models.LevelIntermediate, 40, 13),
	ex("Glute Bridges", models.MuscleLegs, models.EquipBodyweight, models.LevelBeginner, 30, 6),
	ex("Leg Press", models.MuscleLegs, models.EquipMachines, models.LevelBeginner, 45, 9),

	// Shoulders
	ex("Pike Push-ups", models.MuscleShoulders, models.EquipBodyweight, models.LevelIntermediate, 30, 8),
	ex("Dumbbell Overhead Press", models.MuscleShoulders, models.EquipDumbbells, models.LevelIntermediate, 45, 8),
	ex("Barbell Overhead Press", models.MuscleShoulders, models.EquipBarbell, models.LevelAdvanced, 45, 9),
	ex("Lateral Raises", models.MuscleShoulders, models.EquipDumbbells, models.LevelIntermediate, 30, 6),
	ex("Cable Face Pulls", models.MuscleShoulders, models.EquipCables, models.LevelBeginner, 30, 5),
	ex("Kettlebell Halo", models.MuscleShoulders, models.EquipKettlebells, models.LevelBeginner, 30, 6),

	// Biceps
	ex("Resistance Band Curls", models.MuscleBiceps, models.EquipResistanceBands, models.LevelBeginner, 30, 5),
	ex("Dumbbell Curls", models.MuscleBiceps, models.EquipDumbbells, models.LevelIntermediate, 30, 6),
	ex("Barbell Curls", models.MuscleBiceps, models.EquipBarbell, models.LevelAdvanced, 30, 6),

	// Triceps
	ex("Dips (using a chair)", models.MuscleTriceps, models.EquipBodyweight, models.LevelIntermediate, 30, 7),
	ex("Dumbbell Tricep Extension", models.MuscleTriceps, models.EquipDumbbells, models.LevelIntermediate, 30, 6),
	ex("Resistance Band Pushdowns", models.MuscleTriceps, models.EquipResistanceBands, models.LevelBeginner, 30, 5),
	ex("Cable Tricep Pushdowns", models.MuscleTriceps, models.EquipCables, models.LevelBeginner, 30, 5),

	// Core
	ex("Plank", models.MuscleCore, models.EquipBodyweight, models.LevelBeginner, 30, 5),
	ex("Crunches", models.MuscleCore, models.EquipBodyweight, models.LevelBeginner, 30, 6),
	ex("Leg Raises", models.MuscleCore, models.EquipBodyweight, models.LevelIntermediate, 30, 6),
	ex("Kettlebell Russian Twists", models.MuscleCore, models.EquipKettlebells, models.LevelIntermediate, 30, 7),
}
