// internal/landmarks/landmarks_test.go
package landmarks

import (
	"sort"
	"testing"

	"program-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
)

var allLevels = []models.ExperienceLevel{
	models.ExperienceBeginner,
	models.ExperienceIntermediate,
	models.ExperienceAdvanced,
}

func TestLookup_Monotonicity(t *testing.T) {
	muscles := append(Muscles(), models.MuscleGroup("unknown-muscle"))
	for _, muscle := range muscles {
		for _, level := range allLevels {
			lm := Lookup(muscle, level)
			assert.LessOrEqual(t, lm.MEV, lm.MAV, "%s/%s: MEV <= MAV", muscle, level)
			assert.LessOrEqual(t, lm.MAV, lm.MRV, "%s/%s: MAV <= MRV", muscle, level)
		}
	}
}

func TestLookup_UnknownMuscleFallsBack(t *testing.T) {
	lm := Lookup("forearms", models.ExperienceIntermediate)
	assert.Equal(t, defaultLandmark[models.ExperienceIntermediate], lm)
}

func TestLookup_UnknownLevelTreatedAsIntermediate(t *testing.T) {
	lm := Lookup(models.MuscleChest, "elite")
	assert.Equal(t, Lookup(models.MuscleChest, models.ExperienceIntermediate), lm)
}

func TestLookup_KnownValues(t *testing.T) {
	tests := []struct {
		muscle models.MuscleGroup
		level  models.ExperienceLevel
		want   VolumeLandmark
	}{
		{models.MuscleChest, models.ExperienceBeginner, VolumeLandmark{MEV: 6, MAV: 10, MRV: 16}},
		{models.MuscleBack, models.ExperienceAdvanced, VolumeLandmark{MEV: 10, MAV: 18, MRV: 25}},
		{models.MuscleQuads, models.ExperienceIntermediate, VolumeLandmark{MEV: 8, MAV: 13, MRV: 18}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Lookup(tt.muscle, tt.level), "%s/%s", tt.muscle, tt.level)
	}
}

func TestLookupSpecialized_WidensAndStaysMonotonic(t *testing.T) {
	for _, muscle := range Muscles() {
		for _, level := range allLevels {
			base := Lookup(muscle, level)
			specialized := LookupSpecialized(muscle, level)
			assert.Greater(t, specialized.MRV, base.MRV)
			assert.LessOrEqual(t, specialized.MEV, specialized.MAV)
			assert.LessOrEqual(t, specialized.MAV, specialized.MRV)
		}
	}
}

func TestLookup_Deterministic(t *testing.T) {
	first := Lookup(models.MuscleShoulders, models.ExperienceAdvanced)
	second := Lookup(models.MuscleShoulders, models.ExperienceAdvanced)
	assert.Equal(t, first, second)
}

func TestMuscles_SortedAndStable(t *testing.T) {
	first := Muscles()
	assert.True(t, sort.SliceIsSorted(first, func(i, j int) bool { return first[i] < first[j] }))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Muscles())
	}
}
