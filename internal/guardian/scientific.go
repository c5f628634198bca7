// internal/guardian/scientific.go
package guardian

import (
	"fmt"
	"sort"

	"program-pipeline/internal/landmarks"
	"program-pipeline/internal/models"
)

// ==========================
// Stage 2: scientific rules
// ==========================

// checkAnchorLifts enforces the anchor-lift rule: every non-rest day has
// exactly one Anchor-tier exercise and it comes first. Rest days are exempt.
func checkAnchorLifts(program *models.TrainingProgram, _ models.OnboardingProfile, result *models.ValidationResult) {
	forEachSession(program, func(loc models.IssueLocation, session models.Session) {
		if session.IsRestDay {
			return
		}

		anchors := 0
		for _, ex := range session.Exercises {
			if ex.Tier == models.TierAnchor {
				anchors++
			}
		}

		var msg string
		switch {
		case anchors == 0:
			msg = "session has no Anchor-tier exercise"
		case anchors > 1:
			msg = fmt.Sprintf("session has %d Anchor-tier exercises, expected exactly one", anchors)
		case session.Exercises[0].Tier != models.TierAnchor:
			msg = fmt.Sprintf("Anchor exercise is not first; session opens with %q", session.Exercises[0].Name)
		default:
			return
		}

		locCopy := loc
		result.Add(models.ValidationIssue{
			Type:         models.IssueScientific,
			Severity:     models.SeverityHigh,
			Message:      msg,
			Location:     &locCopy,
			SuggestedFix: "designate a compound movement as Anchor in position 1",
		})
	})
}

// checkVolumeProgression verifies that accumulation phases do not shrink
// weekly per-muscle volume outside declared deloads, and that deload weeks
// actually drop below the prior week. Set counting from generated text is
// approximate, so violations are MEDIUM optimization warnings only.
func checkVolumeProgression(program *models.TrainingProgram, _ models.OnboardingProfile, result *models.ValidationResult) {
	for pi, phase := range program.Phases {
		if phase.Type != models.PhaseAccumulation {
			continue
		}
		for wi := 1; wi < len(phase.Weeks); wi++ {
			prev := phase.Weeks[wi-1].WeeklySetVolume()
			curr := phase.Weeks[wi].WeeklySetVolume()
			week := phase.Weeks[wi]

			if week.IsDeload {
				if totalSets(curr) >= totalSets(prev) && totalSets(prev) > 0 {
					result.Add(models.ValidationIssue{
						Type:     models.IssueScientific,
						Severity: models.SeverityMedium,
						Message:  fmt.Sprintf("deload week %d does not drop below the prior week's volume", week.Number),
						Location: &models.IssueLocation{Phase: pi + 1, Week: week.Number},
					})
				}
				continue
			}

			for _, muscle := range sortedMuscles(prev) {
				if curr[muscle] < prev[muscle] {
					result.Add(models.ValidationIssue{
						Type:     models.IssueScientific,
						Severity: models.SeverityMedium,
						Message: fmt.Sprintf("weekly sets for %s fall from %d to %d in accumulation week %d",
							muscle, prev[muscle], curr[muscle], week.Number),
						Location:     &models.IssueLocation{Phase: pi + 1, Week: week.Number},
						SuggestedFix: "hold or increase per-muscle volume week over week until the deload",
					})
				}
			}
		}
	}
}

// checkVolumeCeilings flags weekly per-muscle volume above MRV for the user's
// experience level, and volume below MEV for muscles the user declared as
// training priorities.
func checkVolumeCeilings(program *models.TrainingProgram, profile models.OnboardingProfile, result *models.ValidationResult) {
	priority := make(map[models.MuscleGroup]bool, len(profile.PriorityMuscles))
	for _, muscle := range profile.PriorityMuscles {
		priority[muscle] = true
	}

	for pi, phase := range program.Phases {
		for _, week := range phase.Weeks {
			volume := week.WeeklySetVolume()

			for _, muscle := range sortedMuscles(volume) {
				lm := landmarkFor(muscle, profile, priority[muscle])
				if volume[muscle] > lm.MRV {
					result.Add(models.ValidationIssue{
						Type:     models.IssueScientific,
						Severity: models.SeverityHigh,
						Message: fmt.Sprintf("week %d prescribes %d sets for %s, above the MRV of %d",
							week.Number, volume[muscle], muscle, lm.MRV),
						Location:     &models.IssueLocation{Phase: pi + 1, Week: week.Number},
						SuggestedFix: fmt.Sprintf("reduce weekly %s volume to at most %d sets", muscle, lm.MRV),
					})
				}
			}

			if week.IsDeload {
				continue
			}
			for _, muscle := range sortedPriority(priority) {
				lm := landmarkFor(muscle, profile, true)
				if volume[muscle] < lm.MEV {
					result.Add(models.ValidationIssue{
						Type:     models.IssueScientific,
						Severity: models.SeverityHigh,
						Message: fmt.Sprintf("week %d prescribes %d sets for priority muscle %s, below the MEV of %d",
							week.Number, volume[muscle], muscle, lm.MEV),
						Location:     &models.IssueLocation{Phase: pi + 1, Week: week.Number},
						SuggestedFix: fmt.Sprintf("raise weekly %s volume to at least %d sets", muscle, lm.MEV),
					})
				}
			}
		}
	}
}

func landmarkFor(muscle models.MuscleGroup, profile models.OnboardingProfile, specialized bool) landmarks.VolumeLandmark {
	if specialized {
		return landmarks.LookupSpecialized(muscle, profile.Experience)
	}
	return landmarks.Lookup(muscle, profile.Experience)
}

// --- helpers ---

func forEachSession(program *models.TrainingProgram, fn func(models.IssueLocation, models.Session)) {
	for pi, phase := range program.Phases {
		for _, week := range phase.Weeks {
			for di, session := range week.Sessions {
				fn(models.IssueLocation{Phase: pi + 1, Week: week.Number, Day: di + 1}, session)
			}
		}
	}
}

func totalSets(volume map[models.MuscleGroup]int) int {
	total := 0
	for _, sets := range volume {
		total += sets
	}
	return total
}

// sortedMuscles fixes iteration order so repeated validation of the same
// program yields identical results.
func sortedMuscles(volume map[models.MuscleGroup]int) []models.MuscleGroup {
	out := make([]models.MuscleGroup, 0, len(volume))
	for muscle := range volume {
		out = append(out, muscle)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedPriority(priority map[models.MuscleGroup]bool) []models.MuscleGroup {
	out := make([]models.MuscleGroup, 0, len(priority))
	for muscle := range priority {
		out = append(out, muscle)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
