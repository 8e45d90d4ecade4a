package mcp

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/claude/forgeplan/internal/apierr"
	"github.com/claude/forgeplan/internal/models"
	"github.com/claude/forgeplan/internal/validation"
	"github.com/mark3labs/mcp-go/mcp"
)

func enumOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// parseEquipment reads an optional equipment list argument.
func parseEquipment(v any) ([]models.Equipment, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := validation.Strings(v)
	if !ok {
		return nil, errors.New("equipment must be a list of strings")
	}
	out := make([]models.Equipment, 0, len(items))
	for _, s := range items {
		if !models.ValidEquipment(s) {
			return nil, fmt.Errorf("unknown equipment %q", s)
		}
		out = append(out, models.Equipment(s))
	}
	return out, nil
}

// errorText renders an API error with its field messages in a stable order.
func errorText(err error) string {
	var e *apierr.Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString(e.Message)
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n- %s: %s", k, e.Fields[k])
	}
	return b.String()
}

// --- Tool definitions ---

var toolGenerateWorkout = mcp.NewTool("generate_workout",
	mcp.WithDescription("Generate a weekly workout plan. Returns the day-by-day plan, sets and reps, achievements, a progress seed and a weekly calorie estimate. Missing optional fields use the planner defaults."),
	mcp.WithString("name", mcp.Required(), mcp.Description("Name of the person training")),
	mcp.WithString("goal", mcp.Description("Primary goal. Defaults to general_fitness."), mcp.Enum(enumOf(models.Goals)...)),
	mcp.WithString("fitness_level", mcp.Description("Experience level. Defaults to beginner."), mcp.Enum(enumOf(models.FitnessLevels)...)),
	mcp.WithNumber("days_per_week", mcp.Description("Training days per week, 1-7. Defaults to 3."), mcp.Min(1), mcp.Max(7)),
	mcp.WithArray("equipment", mcp.Description("Available equipment. Defaults to bodyweight only."), mcp.Items(map[string]any{
		"type": "string",
		"enum": enumOf(models.EquipmentTypes),
	})),
)

var toolValidateStep = mcp.NewTool("validate_step",
	mcp.WithDescription("Check one wizard step's fields. Returns valid=true, or the message for every invalid field."),
	mcp.WithNumber("step", mcp.Required(), mcp.Description("Step number, 1-5: personal info, goals, experience, equipment, preferences")),
	mcp.WithObject("data", mcp.Required(), mcp.Description("Field values for the step, e.g. {\"name\": \"Ana\", \"age\": 30, \"gender\": \"female\"}")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List catalog exercises usable with the given equipment. Without equipment, lists the whole catalog."),
	mcp.WithArray("equipment", mcp.Description("Equipment filter"), mcp.Items(map[string]any{
		"type": "string",
		"enum": enumOf(models.EquipmentTypes),
	})),
)

// --- Tool handlers ---

func (h *handlers) generateWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := req.RequireString("name"); err != nil {
		return mcp.NewToolResultError("name parameter is required"), nil
	}
	args := req.GetArguments()
	if _, err := parseEquipment(args["equipment"]); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := h.backend.GenerateOnce(ctx, args)
	if err != nil {
		h.log.Error("mcp generate_workout", "error", err)
		return mcp.NewToolResultError(errorText(err)), nil
	}

	result, err := mcp.NewToolResultJSON(resp)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) validateStep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	step, ok := validation.Number(args["step"])
	if !ok || step != float64(int(step)) {
		return mcp.NewToolResultError("step parameter must be a whole number"), nil
	}
	data, ok := args["data"].(map[string]any)
	if !ok {
		return mcp.NewToolResultError("data parameter must be an object"), nil
	}

	result, err := mcp.NewToolResultJSON(validation.Validate(int(step), data))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	equipment, err := parseEquipment(req.GetArguments()["equipment"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	exercises, err := h.backend.Exercises(ctx, equipment)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + errorText(err)), nil
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
