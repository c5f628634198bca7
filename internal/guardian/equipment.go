// internal/guardian/equipment.go
package guardian

import (
	"fmt"

	"program-pipeline/internal/models"
)

// ==========================
// Stage 4: equipment rules
// ==========================

// checkEquipment flags exercises whose equipment requirements are
// inconsistent with the profile's stated equipment access tier, e.g. barbell
// movements prescribed for a bodyweight-only profile.
func checkEquipment(program *models.TrainingProgram, profile models.OnboardingProfile, result *models.ValidationResult) {
	if profile.EquipmentAccess == "" || profile.EquipmentAccess == models.AccessFullGym {
		return
	}

	forEachSession(program, func(loc models.IssueLocation, session models.Session) {
		for _, ex := range session.Exercises {
			for _, eq := range ex.Equipment {
				if profile.EquipmentAccess.Allows(eq) {
					continue
				}
				locCopy := loc
				result.Add(models.ValidationIssue{
					Type:     models.IssueStructural,
					Severity: models.SeverityMedium,
					Message: fmt.Sprintf("%q requires %s but the profile's equipment access is %s",
						ex.Name, eq, profile.EquipmentAccess),
					Location:     &locCopy,
					SuggestedFix: fmt.Sprintf("substitute a movement available with %s equipment", profile.EquipmentAccess),
				})
				break
			}
		}
	})
}
