// internal/normalizer/normalizer_test.go
package normalizer

import (
	"encoding/json"
	"testing"

	"program-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

// ==========================
// Totality
// ==========================

func TestNormalize_NeverPanicsOnArbitraryInput(t *testing.T) {
	inputs := map[string]interface{}{
		"nil":                nil,
		"string":             "not a program",
		"number":             42.0,
		"bool":               true,
		"array":              []interface{}{1, "two", nil},
		"empty object":       map[string]interface{}{},
		"nested garbage":     map[string]interface{}{"phases": "nope", "weeks": 3.14},
		"pollution keys":     map[string]interface{}{"__proto__": map[string]interface{}{"x": 1}, "constructor": "evil", "prototype": []interface{}{}},
		"exercises not list": map[string]interface{}{"day1": map[string]interface{}{"exercises": "squat"}},
	}

	n := New()
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			program := n.Normalize(input)
			require.NotNil(t, program)
			assert.NotEmpty(t, program.Title)
			assert.NotNil(t, program.Phases)
		})
	}
}

func TestNormalize_SelfReferentialInput(t *testing.T) {
	m := map[string]interface{}{}
	m["phases"] = []interface{}{m}
	m["weeks"] = []interface{}{m}
	m["sessions"] = []interface{}{m}

	program := New().Normalize(m)
	require.NotNil(t, program)
	assert.Len(t, program.Phases, 1)
}

func TestNormalize_IgnoresUnknownTopLevelKeys(t *testing.T) {
	input := decode(t, `{
		"reasoning": "I picked these exercises because...",
		"commentary": {"tone": "encouraging"},
		"day1": {"exercises": [{"name": "Barbell Back Squat", "sets": 4, "reps": "5"}]}
	}`)

	program := New().Normalize(input)
	sessions := program.Sessions()
	require.Len(t, sessions, 1)
	assert.False(t, sessions[0].IsRestDay)
}

// ==========================
// Rest-day equivalence
// ==========================

func TestNormalize_RestDayEquivalence(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing exercises", `{"day1": {"focus": "Recovery"}}`},
		{"empty exercises", `{"day1": {"exercises": []}}`},
		{"non-array exercises", `{"day1": {"exercises": "squats"}}`},
		{"null exercises", `{"day1": {"exercises": null}}`},
	}

	n := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := n.Normalize(decode(t, tt.raw))
			sessions := program.Sessions()
			require.Len(t, sessions, 1)
			assert.True(t, sessions[0].IsRestDay)
			assert.Equal(t, []models.ExerciseDetail{}, sessions[0].Exercises)
			assert.Equal(t, 0, sessions[0].EstimatedDuration)
		})
	}
}

// ==========================
// Field defaults
// ==========================

func TestNormalize_ExerciseFieldDefaults(t *testing.T) {
	input := decode(t, `{"day1": {"exercises": [
		{"sets": 0, "reps": "", "rest": ""},
		{"name": "Dumbbell Curl", "sets": -2},
		{"name": "Leg Press", "sets": 5, "reps": "10", "rest": "2 minutes"}
	]}}`)

	program := New().Normalize(input)
	sessions := program.Sessions()
	require.Len(t, sessions, 1)
	exercises := sessions[0].Exercises
	require.Len(t, exercises, 3)

	assert.Equal(t, "Exercise 1", exercises[0].Name)
	assert.Equal(t, DefaultSets, exercises[0].Sets)
	assert.Equal(t, DefaultReps, exercises[0].Reps)
	assert.Equal(t, DefaultRest, exercises[0].RestPeriod)

	assert.Equal(t, "Dumbbell Curl", exercises[1].Name)
	assert.Equal(t, DefaultSets, exercises[1].Sets, "negative sets fall back to default")

	assert.Equal(t, 5, exercises[2].Sets)
	assert.Equal(t, "10", exercises[2].Reps)
	assert.Equal(t, "2 minutes", exercises[2].RestPeriod)
}

func TestNormalize_EstimatedDuration(t *testing.T) {
	input := decode(t, `{"day1": {"exercises": [
		{"name": "Squat"}, {"name": "Row"}, {"name": "Curl"}
	]}}`)

	program := New().Normalize(input)
	sessions := program.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, 3*MinutesPerExercise, sessions[0].EstimatedDuration)
}

func TestNormalize_ExplicitDurationWins(t *testing.T) {
	input := decode(t, `{"day1": {"estimatedDuration": 75, "exercises": [{"name": "Squat"}]}}`)
	sessions := New().Normalize(input).Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, 75, sessions[0].EstimatedDuration)
}

// ==========================
// Inference
// ==========================

func TestNormalize_AnchorInferenceScenario(t *testing.T) {
	// One compound exercise normalizes to a fully
	// classified Anchor movement.
	input := decode(t, `{"day1": {"exercises": [{"name": "Barbell Back Squat", "sets": 4, "reps": "5"}]}}`)

	program := New().Normalize(input)
	sessions := program.Sessions()
	require.Len(t, sessions, 1)
	require.Len(t, sessions[0].Exercises, 1)

	ex := sessions[0].Exercises[0]
	assert.Equal(t, models.TierAnchor, ex.Tier)
	assert.Equal(t, models.CategoryCompound, ex.Category)
	assert.Equal(t, []models.Equipment{models.EquipmentBarbell}, ex.Equipment)
	assert.Equal(t, []models.MuscleGroup{models.MuscleQuads, models.MuscleGlutes}, ex.PrimaryMuscles)
	assert.Equal(t, 4, ex.Sets)
	assert.Equal(t, "5", ex.Reps)
}

func TestNormalize_IsolationInference(t *testing.T) {
	tests := []struct {
		exercise string
		muscle   models.MuscleGroup
	}{
		{"Cable Triceps Pushdown", models.MuscleTriceps},
		{"Incline Dumbbell Fly", models.MuscleChest},
		{"Hammer Curl", models.MuscleBiceps},
		{"Leg Extension", models.MuscleQuads},
	}

	n := New()
	for _, tt := range tests {
		t.Run(tt.exercise, func(t *testing.T) {
			input := map[string]interface{}{
				"day1": map[string]interface{}{
					"exercises": []interface{}{map[string]interface{}{"name": tt.exercise}},
				},
			}
			ex := n.Normalize(input).Sessions()[0].Exercises[0]
			assert.Equal(t, models.TierAccessory, ex.Tier)
			assert.Equal(t, models.CategoryIsolation, ex.Category)
			assert.Contains(t, ex.PrimaryMuscles, tt.muscle)
		})
	}
}

func TestNormalize_ExplicitMetadataBeatsInference(t *testing.T) {
	input := decode(t, `{"day1": {"exercises": [{
		"name": "Barbell Back Squat",
		"tier": "Secondary",
		"primaryMuscles": ["hamstrings"],
		"equipment": ["machine"]
	}]}}`)

	ex := New().Normalize(input).Sessions()[0].Exercises[0]
	assert.Equal(t, models.TierSecondary, ex.Tier)
	assert.Equal(t, []models.MuscleGroup{models.MuscleHamstrings}, ex.PrimaryMuscles)
	assert.Equal(t, []models.Equipment{models.EquipmentMachine}, ex.Equipment)
}

// ==========================
// Structure shapes
// ==========================

func TestNormalize_PhaseWeekStructure(t *testing.T) {
	input := decode(t, `{
		"title": "Hypertrophy Block",
		"phases": [{
			"name": "Accumulation",
			"durationWeeks": 2,
			"weeks": [
				{"number": 1, "sessions": [{"focus": "Lower", "exercises": [{"name": "Squat", "sets": 4}]}]},
				{"number": 2, "isDeload": true, "sessions": [{"exercises": []}]}
			]
		}]
	}`)

	program := New().Normalize(input)
	assert.Equal(t, "Hypertrophy Block", program.Title)
	require.Len(t, program.Phases, 1)

	phase := program.Phases[0]
	assert.Equal(t, models.PhaseAccumulation, phase.Type)
	assert.Equal(t, 2, phase.DurationWeeks)
	require.Len(t, phase.Weeks, 2)
	assert.True(t, phase.Weeks[1].IsDeload)
	assert.True(t, phase.Weeks[1].Sessions[0].IsRestDay)
}

func TestNormalize_BareWeeksWrappedInPhase(t *testing.T) {
	input := decode(t, `{"weeks": [
		{"days": [{"exercises": [{"name": "Deadlift"}]}]},
		{"days": [{"exercises": [{"name": "Bench Press"}]}]}
	]}`)

	program := New().Normalize(input)
	require.Len(t, program.Phases, 1)
	assert.Equal(t, DefaultPhaseName, program.Phases[0].Name)
	assert.Equal(t, 2, program.Phases[0].DurationWeeks)
	assert.Equal(t, 1, program.Phases[0].Weeks[0].Number)
	assert.Equal(t, 2, program.Phases[0].Weeks[1].Number)
}

func TestNormalize_DayKeysSortedNumerically(t *testing.T) {
	input := decode(t, `{
		"day10": {"exercises": [{"name": "Curl"}]},
		"day2": {"exercises": [{"name": "Row"}]},
		"day1": {"exercises": [{"name": "Squat"}]}
	}`)

	sessions := New().Normalize(input).Sessions()
	require.Len(t, sessions, 3)
	assert.Equal(t, "Squat", sessions[0].Exercises[0].Name)
	assert.Equal(t, "Row", sessions[1].Exercises[0].Name)
	assert.Equal(t, "Curl", sessions[2].Exercises[0].Name)
}
