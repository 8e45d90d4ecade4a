package console

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/claude/forgeplan/internal/apierr"
	"github.com/claude/forgeplan/internal/models"
	"github.com/claude/forgeplan/internal/wizard"
)

// Listener returns a wizard listener that writes machine events to out.
func Listener(out io.Writer) wizard.Listener {
	return func(e wizard.Event) {
		switch ev := e.(type) {
		case wizard.ValidationFailed:
			fmt.Fprintf(out, "Step %d needs attention:\n", ev.Step)
			for _, k := range sortedKeys(ev.Errors) {
				fmt.Fprintf(out, "  - %s: %s\n", k, ev.Errors[k])
			}
		case wizard.SubmissionStarted:
			fmt.Fprintln(out, "Generating your workout plan...")
		case wizard.SubmissionFailed:
			fmt.Fprintln(out, FailureMessage(ev.Err))
		case wizard.WasReset:
			fmt.Fprintln(out, "Form cleared.")
		}
	}
}

// FailureMessage is the line shown when a submission fails.
func FailureMessage(err error) string {
	code, ok := apierr.CodeOf(err)
	if !ok {
		code = apierr.NetworkError
	}
	return "Error: " + apierr.UserMessage(code)
}

// PrintResult writes a generated plan in reading order.
func PrintResult(out io.Writer, r *models.GenerationResult) {
	if r == nil {
		return
	}
	fmt.Fprintf(out, "\nYour plan: %d sets x %s reps per exercise\n", r.Intensity.Sets, r.Intensity.Reps)
	if len(r.Plan) == 0 {
		fmt.Fprintln(out, "  (no training days)")
	}
	for _, day := range r.Plan {
		fmt.Fprintf(out, "\n%s\n", day.Label)
		if len(day.Exercises) == 0 {
			fmt.Fprintln(out, "  (no exercises for your equipment)")
		}
		for i, name := range day.Exercises {
			fmt.Fprintf(out, "  %d. %s\n", i+1, name)
		}
	}

	fmt.Fprintf(out, "\nEstimated calories: %.0f per week, %.0f per workout\n",
		r.Calories.TotalPerWeek, r.Calories.AveragePerWorkout)

	var unlocked []string
	points := 0
	for _, a := range r.Achievements {
		if a.Unlocked {
			unlocked = append(unlocked, a.Title)
			points += a.Points
		}
	}
	if len(unlocked) > 0 {
		fmt.Fprintf(out, "Achievements unlocked (%d points): %s\n", points, strings.Join(unlocked, ", "))
	}
	fmt.Fprintf(out, "Weekly goal: %d workouts\n", r.Progress.WeeklyGoal)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
