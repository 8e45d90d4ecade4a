package client

import (
	"context"
	"fmt"

	"github.com/claude/forgeplan/internal/models"
	"github.com/claude/forgeplan/internal/validation"
)

// Progress summarizes how far the server session got.
type Progress struct {
	CurrentStep    int
	CompletedSteps []models.StepID
	Generated      bool
}

// Complete reports whether every step has been saved.
func (p Progress) Complete() bool {
	return len(p.CompletedSteps) == models.StepCount
}

// FormProgress reports which steps the server session holds.
func (c *Client) FormProgress(ctx context.Context) (Progress, error) {
	view, err := c.Session(ctx)
	if err != nil {
		return Progress{}, err
	}
	p := Progress{CurrentStep: view.FormData.CurrentStep, Generated: len(view.WorkoutPlan) > 0}
	for _, d := range view.FormData.Steps() {
		p.CompletedSteps = append(p.CompletedSteps, d.Step())
	}
	return p, nil
}

// Resume returns the fields saved in the server session, flattened the
// way the wizard edits them, and the step to continue from.
func (c *Client) Resume(ctx context.Context) (map[string]any, int, error) {
	view, err := c.Session(ctx)
	if err != nil {
		return nil, 0, err
	}
	fields := map[string]any{}
	for _, d := range view.FormData.Steps() {
		for k, v := range validation.Fields(d) {
			fields[k] = v
		}
	}
	step := view.FormData.CurrentStep
	if step < 1 {
		step = 1
	}
	return fields, step, nil
}

// Submit saves every step of form in the server session and generates a
// plan from it.
func (c *Client) Submit(ctx context.Context, form models.FormData) (*models.GenerationResult, error) {
	for _, d := range form.Steps() {
		if err := c.SaveStep(ctx, int(d.Step()), validation.Fields(d)); err != nil {
			return nil, fmt.Errorf("saving step %d: %w", d.Step(), err)
		}
	}
	resp, err := c.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("generating workout: %w", err)
	}
	return resp.Result(), nil
}
