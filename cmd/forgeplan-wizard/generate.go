package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/claude/forgeplan/internal/console"
	"github.com/claude/forgeplan/internal/models"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a plan in one request, without the wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		goal, _ := flags.GetString("goal")
		level, _ := flags.GetString("level")
		days, _ := flags.GetInt("days")
		equipment, _ := flags.GetStringSlice("equipment")

		form := map[string]any{"name": name}
		if goal != "" {
			form["goal"] = goal
		}
		if level != "" {
			form["fitness_level"] = level
		}
		if days > 0 {
			form["days_per_week"] = days
		}
		if len(equipment) > 0 {
			items := make([]any, len(equipment))
			for i, e := range equipment {
				items[i] = e
			}
			form["equipment"] = items
		}

		resp, err := newClient(cmd).GenerateOnce(cmd.Context(), form)
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), console.FailureMessage(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Plan for %s (%s, %s)\n",
			resp.UserPreferences.Name, resp.UserPreferences.Goal, resp.UserPreferences.FitnessLevel)
		console.PrintResult(cmd.OutOrStdout(), resp.Result())
		return nil
	},
}

var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "List catalog exercises for your equipment",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetStringSlice("equipment")
		equipment := make([]models.Equipment, len(raw))
		for i, e := range raw {
			equipment[i] = models.Equipment(e)
		}

		exercises, err := newClient(cmd).Exercises(cmd.Context(), equipment)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tMUSCLE\tEQUIPMENT\tLEVEL\tKCAL/MIN")
		for _, ex := range exercises {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\n", ex.Name, ex.MuscleGroup, ex.Equipment, ex.Difficulty, ex.CaloriesPerMinute)
		}
		return tw.Flush()
	},
}

func init() {
	generateCmd.Flags().String("name", "", "your name (required)")
	generateCmd.Flags().String("goal", "", "muscle_gain, weight_loss, general_fitness, strength or endurance")
	generateCmd.Flags().String("level", "", "beginner, intermediate or advanced")
	generateCmd.Flags().Int("days", 0, "training days per week, 1-7")
	generateCmd.Flags().StringSlice("equipment", nil, "available equipment, comma separated")
	_ = generateCmd.MarkFlagRequired("name")

	exercisesCmd.Flags().StringSlice("equipment", nil, "equipment filter, comma separated")
}
