// internal/guardian/structural.go
package guardian

import (
	"fmt"
	"strings"

	"program-pipeline/internal/models"
)

// ==========================
// Stage 3: structural rules
// ==========================

// canonicalPhaseOrderings are the recognized periodization sequences. An
// unrecognized ordering is a warning, not an error: the science here is not
// unambiguous.
var canonicalPhaseOrderings = [][]models.PhaseType{
	{models.PhaseAccumulation},
	{models.PhaseAccumulation, models.PhaseDeload},
	{models.PhaseAccumulation, models.PhaseIntensification},
	{models.PhaseAccumulation, models.PhaseIntensification, models.PhaseRealization},
	{models.PhaseAccumulation, models.PhaseIntensification, models.PhaseDeload},
	{models.PhaseAccumulation, models.PhaseIntensification, models.PhaseRealization, models.PhaseDeload},
}

// checkStructure verifies cross-field consistency: declared phase durations
// match week counts, week numbers are sequential with no gaps, and the phase
// sequence matches a recognized periodization ordering.
func checkStructure(program *models.TrainingProgram, _ models.OnboardingProfile, result *models.ValidationResult) {
	for pi, phase := range program.Phases {
		if phase.DurationWeeks != len(phase.Weeks) {
			result.Add(models.ValidationIssue{
				Type:     models.IssueStructural,
				Severity: models.SeverityHigh,
				Message: fmt.Sprintf("phase %q declares %d weeks but contains %d",
					phase.Name, phase.DurationWeeks, len(phase.Weeks)),
				Location:     &models.IssueLocation{Phase: pi + 1},
				SuggestedFix: "align the declared phase duration with its week entries",
			})
		}

		for wi := 1; wi < len(phase.Weeks); wi++ {
			prev, curr := phase.Weeks[wi-1].Number, phase.Weeks[wi].Number
			if curr != prev+1 {
				result.Add(models.ValidationIssue{
					Type:     models.IssueStructural,
					Severity: models.SeverityHigh,
					Message: fmt.Sprintf("phase %q week numbers jump from %d to %d",
						phase.Name, prev, curr),
					Location:     &models.IssueLocation{Phase: pi + 1, Week: curr},
					SuggestedFix: "number weeks sequentially with no gaps",
				})
			}
		}
	}

	if len(program.Phases) > 1 && !isCanonicalOrdering(program.Phases) {
		result.Add(models.ValidationIssue{
			Type:     models.IssueStructural,
			Severity: models.SeverityMedium,
			Message:  fmt.Sprintf("phase sequence %s is not a recognized periodization ordering", phaseSequence(program.Phases)),
			SuggestedFix: "consider ordering blocks accumulation, intensification, realization or deload",
		})
	}
}

func isCanonicalOrdering(phases []models.Phase) bool {
	for _, ordering := range canonicalPhaseOrderings {
		if len(ordering) != len(phases) {
			continue
		}
		match := true
		for i, phase := range phases {
			if phase.Type != ordering[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func phaseSequence(phases []models.Phase) string {
	parts := make([]string, len(phases))
	for i, phase := range phases {
		parts[i] = string(phase.Type)
	}
	return strings.Join(parts, " -> ")
}
