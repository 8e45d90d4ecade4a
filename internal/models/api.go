package models

// StepRequest is the body of the validate and save step calls.
type StepRequest struct {
	Step int            `json:"step"`
	Data map[string]any `json:"data"`
}

// StepSaved acknowledges a saved step.
type StepSaved struct {
	Saved   bool   `json:"saved"`
	Step    int    `json:"step"`
	Message string `json:"message"`
}

// SessionView is the session as returned to clients.
type SessionView struct {
	FormData        FormData     `json:"form_data"`
	UserPreferences *UserProfile `json:"user_preferences"`
	WorkoutPlan     WorkoutPlan  `json:"workout_plan"`
	SessionID       string       `json:"session_id"`
}

// GenerateResponse is returned by the generate and stored workout calls.
type GenerateResponse struct {
	WorkoutPlan     WorkoutPlan     `json:"workout_plan"`
	Intensity       Intensity       `json:"intensity"`
	UserPreferences UserProfile     `json:"user_preferences"`
	Achievements    []Achievement   `json:"achievements"`
	Progress        ProgressTracker `json:"progress_tracking"`
	Calories        CalorieEstimate `json:"estimated_calories"`
	RedirectURL     string          `json:"redirect_url,omitempty"`
}

// NewGenerateResponse pairs a result with the profile it was built from.
func NewGenerateResponse(p UserProfile, r *GenerationResult, redirect string) GenerateResponse {
	return GenerateResponse{
		WorkoutPlan:     r.Plan,
		Intensity:       r.Intensity,
		UserPreferences: p,
		Achievements:    r.Achievements,
		Progress:        r.Progress,
		Calories:        r.Calories,
		RedirectURL:     redirect,
	}
}

// Result returns the generation part of the response.
func (g GenerateResponse) Result() *GenerationResult {
	return &GenerationResult{
		Plan:         g.WorkoutPlan,
		Intensity:    g.Intensity,
		Achievements: g.Achievements,
		Progress:     g.Progress,
		Calories:     g.Calories,
	}
}
