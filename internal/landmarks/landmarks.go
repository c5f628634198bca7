// internal/landmarks/landmarks.go

// Package landmarks supplies per-muscle weekly volume landmarks: the minimum
// effective (MEV), maximum adaptive (MAV) and maximum recoverable (MRV) set
// counts the guardian checks generated programs against. Values are a fixed
// table seeded from published hypertrophy research ranges, not computed from
// user history.
package landmarks

import (
	"sort"

	"program-pipeline/internal/models"
)

// VolumeLandmark is a weekly working-set triple with MEV <= MAV <= MRV.
type VolumeLandmark struct {
	MEV int `json:"mev"`
	MAV int `json:"mav"`
	MRV int `json:"mrv"`
}

// defaultLandmark is used for muscle groups missing from the table.
var defaultLandmark = map[models.ExperienceLevel]VolumeLandmark{
	models.ExperienceBeginner:     {MEV: 6, MAV: 10, MRV: 14},
	models.ExperienceIntermediate: {MEV: 8, MAV: 14, MRV: 20},
	models.ExperienceAdvanced:     {MEV: 8, MAV: 16, MRV: 22},
}

var table = map[models.MuscleGroup]map[models.ExperienceLevel]VolumeLandmark{
	models.MuscleChest: {
		models.ExperienceBeginner:     {MEV: 6, MAV: 10, MRV: 16},
		models.ExperienceIntermediate: {MEV: 8, MAV: 14, MRV: 20},
		models.ExperienceAdvanced:     {MEV: 10, MAV: 16, MRV: 22},
	},
	models.MuscleBack: {
		models.ExperienceBeginner:     {MEV: 8, MAV: 12, MRV: 18},
		models.ExperienceIntermediate: {MEV: 10, MAV: 16, MRV: 22},
		models.ExperienceAdvanced:     {MEV: 10, MAV: 18, MRV: 25},
	},
	models.MuscleQuads: {
		models.ExperienceBeginner:     {MEV: 6, MAV: 10, MRV: 16},
		models.ExperienceIntermediate: {MEV: 8, MAV: 13, MRV: 18},
		models.ExperienceAdvanced:     {MEV: 8, MAV: 15, MRV: 20},
	},
	models.MuscleGlutes: {
		models.ExperienceBeginner:     {MEV: 4, MAV: 8, MRV: 14},
		models.ExperienceIntermediate: {MEV: 6, MAV: 12, MRV: 16},
		models.ExperienceAdvanced:     {MEV: 6, MAV: 12, MRV: 18},
	},
	models.MuscleHamstrings: {
		models.ExperienceBeginner:     {MEV: 4, MAV: 8, MRV: 12},
		models.ExperienceIntermediate: {MEV: 6, MAV: 10, MRV: 16},
		models.ExperienceAdvanced:     {MEV: 6, MAV: 12, MRV: 18},
	},
	models.MuscleShoulders: {
		models.ExperienceBeginner:     {MEV: 6, MAV: 10, MRV: 16},
		models.ExperienceIntermediate: {MEV: 8, MAV: 16, MRV: 22},
		models.ExperienceAdvanced:     {MEV: 8, MAV: 18, MRV: 26},
	},
	models.MuscleBiceps: {
		models.ExperienceBeginner:     {MEV: 4, MAV: 10, MRV: 16},
		models.ExperienceIntermediate: {MEV: 8, MAV: 14, MRV: 20},
		models.ExperienceAdvanced:     {MEV: 8, MAV: 16, MRV: 24},
	},
	models.MuscleTriceps: {
		models.ExperienceBeginner:     {MEV: 4, MAV: 8, MRV: 14},
		models.ExperienceIntermediate: {MEV: 6, MAV: 12, MRV: 18},
		models.ExperienceAdvanced:     {MEV: 8, MAV: 14, MRV: 20},
	},
	models.MuscleCalves: {
		models.ExperienceBeginner:     {MEV: 6, MAV: 10, MRV: 16},
		models.ExperienceIntermediate: {MEV: 8, MAV: 14, MRV: 20},
		models.ExperienceAdvanced:     {MEV: 8, MAV: 16, MRV: 22},
	},
	models.MuscleAbs: {
		models.ExperienceBeginner:     {MEV: 0, MAV: 12, MRV: 20},
		models.ExperienceIntermediate: {MEV: 0, MAV: 16, MRV: 25},
		models.ExperienceAdvanced:     {MEV: 0, MAV: 20, MRV: 25},
	},
}

// specializationBump widens the landmarks for a muscle the user is
// prioritizing in a specialization block.
var specializationBump = VolumeLandmark{MEV: 2, MAV: 4, MRV: 4}

// Lookup returns the landmark triple for a muscle group at an experience
// level. Unknown muscle groups fall back to a generic triple; unknown levels
// are treated as intermediate. Pure function, no error conditions.
func Lookup(muscle models.MuscleGroup, level models.ExperienceLevel) VolumeLandmark {
	if !level.IsValid() {
		level = models.ExperienceIntermediate
	}
	if perLevel, ok := table[muscle]; ok {
		return perLevel[level]
	}
	return defaultLandmark[level]
}

// LookupSpecialized returns the landmark triple widened for a muscle that is
// the declared priority of a specialization variant.
func LookupSpecialized(muscle models.MuscleGroup, level models.ExperienceLevel) VolumeLandmark {
	lm := Lookup(muscle, level)
	return VolumeLandmark{
		MEV: lm.MEV + specializationBump.MEV,
		MAV: lm.MAV + specializationBump.MAV,
		MRV: lm.MRV + specializationBump.MRV,
	}
}

// Muscles returns every muscle group present in the table, sorted so callers
// rendering the list get the same order every time.
func Muscles() []models.MuscleGroup {
	out := make([]models.MuscleGroup, 0, len(table))
	for m := range table {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
