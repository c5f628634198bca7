// internal/normalizer/inference.go
package normalizer

import (
	"strings"

	"program-pipeline/internal/models"
)

// Classification is the structured metadata inferred for an exercise when the
// generator omits it.
type Classification struct {
	Category  models.Category
	Tier      models.Tier
	Muscles   []models.MuscleGroup
	Equipment []models.Equipment
}

// ExerciseClassifier infers exercise metadata from a name. The keyword table
// below is a heuristic stand-in for a curated exercise catalog; keeping it
// behind this interface lets a real catalog replace it without touching the
// normalizer's control flow.
type ExerciseClassifier interface {
	Classify(name string) Classification
}

type keywordRule struct {
	keyword string
	class   Classification
}

// KeywordClassifier matches exercise names against a fixed keyword table
// using case-insensitive substring matching. First match wins, so more
// specific keywords ("leg extension") precede generic ones ("extension").
type KeywordClassifier struct {
	rules    []keywordRule
	fallback Classification
}

// NewKeywordClassifier builds the default keyword-table classifier.
func NewKeywordClassifier() *KeywordClassifier {
	compound := func(tier models.Tier, muscles []models.MuscleGroup, eq []models.Equipment) Classification {
		return Classification{Category: models.CategoryCompound, Tier: tier, Muscles: muscles, Equipment: eq}
	}
	isolation := func(muscles []models.MuscleGroup, eq []models.Equipment) Classification {
		return Classification{Category: models.CategoryIsolation, Tier: models.TierAccessory, Muscles: muscles, Equipment: eq}
	}

	return &KeywordClassifier{
		rules: []keywordRule{
			// Specific before generic.
			{"leg extension", isolation(
				[]models.MuscleGroup{models.MuscleQuads},
				[]models.Equipment{models.EquipmentMachine})},
			{"leg curl", isolation(
				[]models.MuscleGroup{models.MuscleHamstrings},
				[]models.Equipment{models.EquipmentMachine})},
			{"calf", isolation(
				[]models.MuscleGroup{models.MuscleCalves},
				[]models.Equipment{models.EquipmentMachine})},
			{"lateral raise", isolation(
				[]models.MuscleGroup{models.MuscleShoulders},
				[]models.Equipment{models.EquipmentDumbbell})},

			{"squat", compound(models.TierAnchor,
				[]models.MuscleGroup{models.MuscleQuads, models.MuscleGlutes},
				[]models.Equipment{models.EquipmentBarbell})},
			{"deadlift", compound(models.TierAnchor,
				[]models.MuscleGroup{models.MuscleBack, models.MuscleHamstrings, models.MuscleGlutes},
				[]models.Equipment{models.EquipmentBarbell})},
			{"bench", compound(models.TierAnchor,
				[]models.MuscleGroup{models.MuscleChest, models.MuscleTriceps},
				[]models.Equipment{models.EquipmentBarbell})},
			{"clean", compound(models.TierAnchor,
				[]models.MuscleGroup{models.MuscleBack, models.MuscleQuads},
				[]models.Equipment{models.EquipmentBarbell})},
			{"snatch", compound(models.TierAnchor,
				[]models.MuscleGroup{models.MuscleBack, models.MuscleShoulders},
				[]models.Equipment{models.EquipmentBarbell})},

			{"overhead press", compound(models.TierPrimary,
				[]models.MuscleGroup{models.MuscleShoulders, models.MuscleTriceps},
				[]models.Equipment{models.EquipmentBarbell})},
			{"hip thrust", compound(models.TierPrimary,
				[]models.MuscleGroup{models.MuscleGlutes, models.MuscleHamstrings},
				[]models.Equipment{models.EquipmentBarbell})},
			{"row", compound(models.TierPrimary,
				[]models.MuscleGroup{models.MuscleBack, models.MuscleBiceps},
				[]models.Equipment{models.EquipmentBarbell})},
			{"pull-up", compound(models.TierPrimary,
				[]models.MuscleGroup{models.MuscleBack, models.MuscleBiceps},
				[]models.Equipment{models.EquipmentBodyweight})},
			{"pullup", compound(models.TierPrimary,
				[]models.MuscleGroup{models.MuscleBack, models.MuscleBiceps},
				[]models.Equipment{models.EquipmentBodyweight})},
			{"chin-up", compound(models.TierPrimary,
				[]models.MuscleGroup{models.MuscleBack, models.MuscleBiceps},
				[]models.Equipment{models.EquipmentBodyweight})},
			{"chinup", compound(models.TierPrimary,
				[]models.MuscleGroup{models.MuscleBack, models.MuscleBiceps},
				[]models.Equipment{models.EquipmentBodyweight})},

			{"lunge", compound(models.TierSecondary,
				[]models.MuscleGroup{models.MuscleQuads, models.MuscleGlutes},
				[]models.Equipment{models.EquipmentDumbbell})},
			{"dip", compound(models.TierSecondary,
				[]models.MuscleGroup{models.MuscleChest, models.MuscleTriceps},
				[]models.Equipment{models.EquipmentBodyweight})},
			{"press", compound(models.TierPrimary,
				[]models.MuscleGroup{models.MuscleShoulders, models.MuscleTriceps},
				[]models.Equipment{models.EquipmentDumbbell})},

			{"curl", isolation(
				[]models.MuscleGroup{models.MuscleBiceps},
				[]models.Equipment{models.EquipmentDumbbell})},
			{"extension", isolation(
				[]models.MuscleGroup{models.MuscleTriceps},
				[]models.Equipment{models.EquipmentCable})},
			{"pushdown", isolation(
				[]models.MuscleGroup{models.MuscleTriceps},
				[]models.Equipment{models.EquipmentCable})},
			{"fly", isolation(
				[]models.MuscleGroup{models.MuscleChest},
				[]models.Equipment{models.EquipmentDumbbell})},
			{"flye", isolation(
				[]models.MuscleGroup{models.MuscleChest},
				[]models.Equipment{models.EquipmentDumbbell})},
			{"pullover", isolation(
				[]models.MuscleGroup{models.MuscleChest},
				[]models.Equipment{models.EquipmentDumbbell})},
			{"raise", isolation(
				[]models.MuscleGroup{models.MuscleShoulders},
				[]models.Equipment{models.EquipmentDumbbell})},
			{"shrug", isolation(
				[]models.MuscleGroup{models.MuscleBack},
				[]models.Equipment{models.EquipmentDumbbell})},
			{"crunch", isolation(
				[]models.MuscleGroup{models.MuscleAbs},
				[]models.Equipment{models.EquipmentBodyweight})},
			{"plank", isolation(
				[]models.MuscleGroup{models.MuscleAbs},
				[]models.Equipment{models.EquipmentBodyweight})},
		},
		fallback: Classification{
			Category:  models.CategoryCompound,
			Tier:      models.TierSecondary,
			Muscles:   []models.MuscleGroup{},
			Equipment: []models.Equipment{},
		},
	}
}

// Classify returns the first keyword match, or the generic fallback.
func (c *KeywordClassifier) Classify(name string) Classification {
	lower := strings.ToLower(name)
	for _, rule := range c.rules {
		if strings.Contains(lower, rule.keyword) {
			return rule.class
		}
	}
	return c.fallback
}
