package normalize

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/claude/forgeplan/internal/models"
)

// TestProfileDefaultsForEmptyForm checks every default when no step was saved.
func TestProfileDefaultsForEmptyForm(t *testing.T) {
	p := Profile(models.FormData{})

	if p.Goal != models.GoalGeneralFitness {
		t.Errorf("goal = %q", p.Goal)
	}
	if p.FitnessLevel != models.LevelBeginner {
		t.Errorf("fitness_level = %q", p.FitnessLevel)
	}
	if !reflect.DeepEqual(p.Equipment, []models.Equipment{models.EquipBodyweight}) {
		t.Errorf("equipment = %v", p.Equipment)
	}
	if p.DaysPerWeek != 3 || p.WorkoutDuration != 45 || p.Intensity != 5 {
		t.Errorf("days=%d duration=%d intensity=%d", p.DaysPerWeek, p.WorkoutDuration, p.Intensity)
	}
	if p.WorkoutLocation != "home" || p.TimeOfDay != "morning" {
		t.Errorf("location=%q time=%q", p.WorkoutLocation, p.TimeOfDay)
	}
	if p.Name != "" {
		t.Errorf("name = %q, want empty", p.Name)
	}
}

func TestProfileFromAllSteps(t *testing.T) {
	years := 2
	intensity := 9
	var form models.FormData
	form.Set(models.PersonalInfo{Name: "Ana", Age: 28, Gender: models.GenderFemale})
	form.Set(models.GoalsStep{PrimaryGoal: models.GoalStrength, TargetAreas: []string{"legs"}, SecondaryGoals: []string{"mobility"}})
	form.Set(models.Experience{FitnessLevel: models.LevelAdvanced, YearsActive: &years, PreviousInjuries: []string{"shoulder"}})
	form.Set(models.EquipmentSelection{Equipment: []models.Equipment{models.EquipBarbell, models.EquipDumbbells}, Location: "gym"})
	form.Set(models.Preferences{DaysPerWeek: 5, WorkoutDuration: 90, Intensity: &intensity, TimeOfDay: "evening"})

	p := Profile(form)
	if p.Name != "Ana" || p.Age == nil || *p.Age != 28 || p.Gender != models.GenderFemale {
		t.Errorf("personal fields = %+v", p)
	}
	if p.Goal != models.GoalStrength || p.FitnessLevel != models.LevelAdvanced {
		t.Errorf("goal/level = %q/%q", p.Goal, p.FitnessLevel)
	}
	if p.DaysPerWeek != 5 || p.WorkoutDuration != 90 || p.Intensity != 9 || p.TimeOfDay != "evening" {
		t.Errorf("preferences = %+v", p)
	}
	if p.WorkoutLocation != "gym" || len(p.Equipment) != 2 {
		t.Errorf("equipment = %v @ %q", p.Equipment, p.WorkoutLocation)
	}
	if p.YearsActive == nil || *p.YearsActive != 2 || len(p.PreviousInjuries) != 1 || len(p.SecondaryGoals) != 1 {
		t.Errorf("extras = %+v", p)
	}
	if len(Check(p)) != 0 {
		t.Errorf("Check = %v", Check(p))
	}
}

// TestProfileDoesNotAliasForm checks the profile owns its slices.
func TestProfileDoesNotAliasForm(t *testing.T) {
	var form models.FormData
	form.Set(models.EquipmentSelection{Equipment: []models.Equipment{models.EquipCables}})
	p := Profile(form)
	p.Equipment[0] = models.EquipBarbell
	if form.Equipment.Equipment[0] != models.EquipCables {
		t.Error("profile shares equipment slice with form")
	}
}

func TestCheckReportsMissingName(t *testing.T) {
	errs := Check(Profile(models.FormData{}))
	if len(errs) != 1 || errs["name"] == "" {
		t.Errorf("errs = %v, want only name", errs)
	}

	errs = Check(models.UserProfile{})
	for _, f := range []string{"name", "goal", "fitness_level", "days_per_week", "equipment"} {
		if errs[f] == "" {
			t.Errorf("missing error for %s", f)
		}
	}
}

func TestLegacyJSONBody(t *testing.T) {
	p := Legacy(map[string]any{
		"name":          "Sam",
		"goal":          "weight_loss",
		"fitness_level": "intermediate",
		"days_per_week": "4",
		"equipment":     []any{"dumbbells", "kettlebells"},
		"time_of_day":   "evening",
	})
	if p.Name != "Sam" || p.Goal != models.GoalWeightLoss || p.FitnessLevel != models.LevelIntermediate {
		t.Errorf("profile = %+v", p)
	}
	if p.DaysPerWeek != 4 {
		t.Errorf("days = %d", p.DaysPerWeek)
	}
	want := []models.Equipment{models.EquipDumbbells, models.EquipKettlebells}
	if !reflect.DeepEqual(p.Equipment, want) {
		t.Errorf("equipment = %v", p.Equipment)
	}
	if p.TimeOfDay != "evening" || p.WorkoutDuration != 45 {
		t.Errorf("time=%q duration=%d", p.TimeOfDay, p.WorkoutDuration)
	}
}

// TestLegacyFormBody checks the url-encoded path, including the bracket
// spelling PHP-style forms use for multi-selects.
func TestLegacyFormBody(t *testing.T) {
	values := url.Values{
		"name":          {"Lee"},
		"goal":          {"muscle_gain"},
		"fitness_level": {"advanced"},
		"days_per_week": {"6"},
		"equipment[]":   {"barbell", "machines"},
	}
	p := Legacy(FormBody(values))
	if p.Name != "Lee" || p.Goal != models.GoalMuscleGain || p.DaysPerWeek != 6 {
		t.Errorf("profile = %+v", p)
	}
	if !reflect.DeepEqual(p.Equipment, []models.Equipment{models.EquipBarbell, models.EquipMachines}) {
		t.Errorf("equipment = %v", p.Equipment)
	}

	single := Legacy(FormBody(url.Values{"name": {"Lee"}, "equipment": {"cables"}}))
	if !reflect.DeepEqual(single.Equipment, []models.Equipment{models.EquipCables}) {
		t.Errorf("single equipment = %v", single.Equipment)
	}
}

// TestLegacyDefaultsEquipment checks the bodyweight default when none was posted.
func TestLegacyDefaultsEquipment(t *testing.T) {
	p := Legacy(FormBody(url.Values{"name": {"Kim"}}))
	if !reflect.DeepEqual(p.Equipment, DefaultEquipment()) {
		t.Errorf("equipment = %v", p.Equipment)
	}
	if p.DaysPerWeek != DefaultDaysPerWeek {
		t.Errorf("days = %d", p.DaysPerWeek)
	}
}

// TestRepeatedEquipmentCollapses checks both paths keep one entry per
// equipment type, in first-seen order.
func TestRepeatedEquipmentCollapses(t *testing.T) {
	var form models.FormData
	form.Set(models.EquipmentSelection{Equipment: []models.Equipment{
		models.EquipBodyweight, models.EquipBodyweight, models.EquipBodyweight, models.EquipBodyweight,
	}})
	want := []models.Equipment{models.EquipBodyweight}
	if p := Profile(form); !reflect.DeepEqual(p.Equipment, want) {
		t.Errorf("profile equipment = %v", p.Equipment)
	}

	p := Legacy(map[string]any{
		"name":      "Ana",
		"equipment": []any{"bodyweight", "bodyweight", "bodyweight", "bodyweight"},
	})
	if !reflect.DeepEqual(p.Equipment, want) {
		t.Errorf("legacy equipment = %v", p.Equipment)
	}

	mixed := Legacy(FormBody(url.Values{"equipment[]": {"cables", "barbell", "cables"}}))
	if !reflect.DeepEqual(mixed.Equipment, []models.Equipment{models.EquipCables, models.EquipBarbell}) {
		t.Errorf("mixed equipment = %v", mixed.Equipment)
	}
}

// TestCheckDaysRange checks days outside one to seven are rejected.
func TestCheckDaysRange(t *testing.T) {
	base := models.UserProfile{
		Name:         "Ana",
		Goal:         models.GoalStrength,
		FitnessLevel: models.LevelBeginner,
		Equipment:    DefaultEquipment(),
	}
	for _, days := range []int{-2, 8, 9} {
		p := base
		p.DaysPerWeek = days
		if errs := Check(p); errs["days_per_week"] == "" {
			t.Errorf("days %d: errs = %v", days, errs)
		}
	}
	for _, days := range []int{1, 7} {
		p := base
		p.DaysPerWeek = days
		if errs := Check(p); len(errs) != 0 {
			t.Errorf("days %d: errs = %v", days, errs)
		}
	}
}
