// internal/guardian/guardian.go

// Package guardian enforces structural and exercise-science invariants on a
// normalized training program before it is trusted. Validation runs four
// ordered stages: schema, scientific, structural, equipment. A schema failure
// halts the remaining stages since a structurally broken program cannot be
// meaningfully checked for scientific content. The validator is deterministic,
// side-effect free and idempotent: the same input always yields the same
// result.
package guardian

import (
	"fmt"

	"program-pipeline/internal/models"
)

type stage func(*models.TrainingProgram, models.OnboardingProfile, *models.ValidationResult)

// Guardian validates candidate programs against a user profile.
type Guardian struct {
	scientificStages []stage
}

// New returns a guardian with the full stage pipeline.
func New() *Guardian {
	return &Guardian{
		scientificStages: []stage{
			checkAnchorLifts,
			checkVolumeProgression,
			checkVolumeCeilings,
		},
	}
}

// Validate runs all stages in order and aggregates findings. CRITICAL and
// HIGH findings land in Errors and flip IsValid; MEDIUM findings land in
// Warnings and never do.
func (g *Guardian) Validate(program *models.TrainingProgram, profile models.OnboardingProfile) models.ValidationResult {
	result := models.ValidationResult{
		IsValid:  true,
		Errors:   []models.ValidationIssue{},
		Warnings: []models.ValidationIssue{},
	}

	checkSchema(program, profile, &result)
	if len(result.Errors) > 0 {
		// A schema-invalid program short-circuits everything else.
		return result
	}

	// Scientific rules are independent; all run even if one fails.
	for _, run := range g.scientificStages {
		run(program, profile, &result)
	}

	checkStructure(program, profile, &result)
	checkEquipment(program, profile, &result)

	return result
}

// ==========================
// Stage 1: schema
// ==========================

func checkSchema(program *models.TrainingProgram, _ models.OnboardingProfile, result *models.ValidationResult) {
	critical := func(msg string, loc *models.IssueLocation) {
		result.Add(models.ValidationIssue{
			Type:     models.IssueSchema,
			Severity: models.SeverityCritical,
			Message:  msg,
			Location: loc,
		})
	}

	if program == nil {
		critical("program is missing", nil)
		return
	}
	if len(program.Phases) == 0 {
		critical("program contains no phases", nil)
		return
	}

	for pi, phase := range program.Phases {
		if len(phase.Weeks) == 0 {
			critical(fmt.Sprintf("phase %q contains no weeks", phase.Name),
				&models.IssueLocation{Phase: pi + 1})
			continue
		}
		for wi, week := range phase.Weeks {
			if week.Number <= 0 {
				critical(fmt.Sprintf("phase %q week %d has a non-positive week number", phase.Name, wi+1),
					&models.IssueLocation{Phase: pi + 1, Week: wi + 1})
			}
			for di, session := range week.Sessions {
				loc := &models.IssueLocation{Phase: pi + 1, Week: week.Number, Day: di + 1}
				if session.Exercises == nil {
					critical("session exercise list is missing", loc)
					continue
				}
				if !session.IsRestDay && len(session.Exercises) == 0 {
					critical("non-rest session has no exercises", loc)
				}
				for _, ex := range session.Exercises {
					if ex.Name == "" {
						critical("exercise has no name", loc)
					}
					if !ex.Tier.IsValid() {
						critical(fmt.Sprintf("exercise %q has unknown tier %q", ex.Name, ex.Tier), loc)
					}
					if ex.Sets <= 0 {
						critical(fmt.Sprintf("exercise %q prescribes %d sets", ex.Name, ex.Sets), loc)
					}
				}
			}
		}
	}
}
