// Package console is a line-oriented front end for the wizard. It asks
// for each field of the current step, advances the machine and prints
// what the machine reports.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/claude/forgeplan/internal/models"
	"github.com/claude/forgeplan/internal/validation"
	"github.com/claude/forgeplan/internal/wizard"
)

// ErrQuit is returned by Run when the user types :quit or input ends.
var ErrQuit = errors.New("console: quit")

// Commands accepted at any prompt.
const (
	cmdBack  = ":back"
	cmdReset = ":reset"
	cmdQuit  = ":quit"
)

type fieldKind int

const (
	kindText fieldKind = iota
	kindNumber
	kindList
)

type field struct {
	label   string
	kind    fieldKind
	choices []string
}

var fields = map[string]field{
	"name":              {label: "Name", kind: kindText},
	"age":               {label: "Age", kind: kindNumber},
	"gender":            {label: "Gender", kind: kindText, choices: enum(models.Genders)},
	"primary_goal":      {label: "Primary goal", kind: kindText, choices: enum(models.Goals)},
	"target_areas":      {label: "Target areas (comma separated)", kind: kindList},
	"secondary_goals":   {label: "Secondary goals (optional)", kind: kindList, choices: enum(models.Goals)},
	"fitness_level":     {label: "Fitness level", kind: kindText, choices: enum(models.FitnessLevels)},
	"years_active":      {label: "Years active (optional)", kind: kindNumber},
	"previous_injuries": {label: "Previous injuries (optional)", kind: kindList},
	"equipment":         {label: "Equipment (comma separated)", kind: kindList, choices: enum(models.EquipmentTypes)},
	"location":          {label: "Location (optional)", kind: kindText},
	"days_per_week":     {label: "Days per week", kind: kindNumber},
	"workout_duration":  {label: "Workout duration in minutes", kind: kindNumber},
	"intensity":         {label: "Intensity 1-10 (optional)", kind: kindNumber},
	"time_of_day":       {label: "Preferred time of day (optional)", kind: kindText},
}

func enum[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// Prompter reads answers from in and feeds them to a wizard machine.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
	m   *wizard.Machine
}

func New(in io.Reader, out io.Writer, m *wizard.Machine) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out, m: m}
}

// Run asks for every step until the machine produces a plan. Validation
// failures repeat the step. A failed submission is returned so the caller
// can offer a retry; the entered data stays in the machine.
func (p *Prompter) Run(ctx context.Context) (*models.GenerationResult, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		step := p.m.State().Step
		def, ok := validation.Definition(step)
		if !ok {
			return nil, fmt.Errorf("console: no definition for step %d", step)
		}

		fmt.Fprintf(p.out, "\nStep %d of %d: %s\n", step, models.StepCount, def.Title)
		moved, err := p.askStep(def)
		if err != nil {
			return nil, err
		}
		if moved {
			continue
		}

		// A failed submission leaves the machine on the invalid step.
		result, err := p.m.Next(ctx)
		var verr *wizard.ValidationError
		switch {
		case errors.As(err, &verr):
			continue
		case err != nil:
			return nil, err
		case result != nil:
			return result, nil
		}
	}
}

// askStep prompts for each field of def. It reports true when a command
// moved the machine away from the step.
func (p *Prompter) askStep(def validation.StepDefinition) (bool, error) {
	state := p.m.State()
	for _, name := range def.Fields {
		f := fields[name]
		line, err := p.ask(f, state.Fields[name], state.Errors[name])
		if err != nil {
			return false, err
		}
		switch line {
		case cmdQuit:
			return false, ErrQuit
		case cmdBack:
			p.m.Previous()
			return true, nil
		case cmdReset:
			p.m.Reset()
			return true, nil
		case "":
			continue
		}
		p.m.SetField(name, parse(f.kind, line))
	}
	return false, nil
}

func (p *Prompter) ask(f field, current any, problem string) (string, error) {
	if problem != "" {
		fmt.Fprintf(p.out, "  ! %s\n", problem)
	}
	prompt := "  " + f.label
	if len(f.choices) > 0 {
		prompt += " [" + strings.Join(f.choices, ", ") + "]"
	}
	if current != nil {
		prompt += fmt.Sprintf(" (%s)", format(current))
	}
	fmt.Fprint(p.out, prompt+": ")

	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", ErrQuit
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Confirm asks a yes/no question. Anything but y or yes is no.
func (p *Prompter) Confirm(question string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", question)
	if !p.in.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(p.in.Text())) {
	case "y", "yes":
		return true
	}
	return false
}

// parse converts a typed answer into the value the validators expect.
// Numbers that do not parse are kept as text so validation reports them.
func parse(kind fieldKind, line string) any {
	switch kind {
	case kindNumber:
		if n, err := strconv.ParseFloat(line, 64); err == nil {
			return n
		}
		return line
	case kindList:
		var out []any
		for _, item := range strings.Split(line, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	return line
}

func format(v any) string {
	if items, ok := validation.Strings(v); ok {
		return strings.Join(items, ", ")
	}
	if n, ok := v.(float64); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
