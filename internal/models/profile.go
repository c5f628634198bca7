// internal/models/profile.go
package models

// ExperienceLevel grades a lifter's training history. It selects both the
// guideline block sent to the model and the volume landmarks used to judge
// the generated program.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// IsValid reports whether the level is one of the known values.
func (e ExperienceLevel) IsValid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}

// EquipmentAccess describes what implements the user can reach.
type EquipmentAccess string

const (
	AccessFullGym        EquipmentAccess = "full_gym"
	AccessHomeBasic      EquipmentAccess = "home_basic"
	AccessBodyweightOnly EquipmentAccess = "bodyweight_only"
)

// Allows reports whether the access tier covers the given equipment class.
func (a EquipmentAccess) Allows(eq Equipment) bool {
	switch a {
	case AccessFullGym:
		return true
	case AccessHomeBasic:
		return eq == EquipmentDumbbell || eq == EquipmentKettlebell ||
			eq == EquipmentBands || eq == EquipmentBodyweight
	case AccessBodyweightOnly:
		return eq == EquipmentBodyweight
	}
	return false
}

// OnboardingProfile is the caller-owned input to a generation request.
// It is immutable from the pipeline's point of view.
type OnboardingProfile struct {
	Experience      ExperienceLevel    `json:"experience"`
	PrimaryFocus    string             `json:"primaryFocus"`
	SessionMinutes  int                `json:"sessionMinutes"`
	DaysPerWeek     int                `json:"daysPerWeek,omitempty"`
	EquipmentAccess EquipmentAccess    `json:"equipmentAccess"`
	PriorityMuscles []MuscleGroup      `json:"priorityMuscles,omitempty"`
	PersonalRecords map[string]float64 `json:"personalRecords,omitempty"`
}
