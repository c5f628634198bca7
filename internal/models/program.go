// internal/models/program.go
package models

// Tier classifies the role of an exercise within a session. The Anchor tier
// marks the single primary compound movement of a training day; at most one
// Anchor is allowed per non-rest session and it must come first.
type Tier string

const (
	TierAnchor    Tier = "Anchor"
	TierPrimary   Tier = "Primary"
	TierSecondary Tier = "Secondary"
	TierAccessory Tier = "Accessory"
)

// ValidTiers lists every accepted tier value.
var ValidTiers = []Tier{TierAnchor, TierPrimary, TierSecondary, TierAccessory}

// IsValid reports whether the tier is one of the known values.
func (t Tier) IsValid() bool {
	for _, v := range ValidTiers {
		if t == v {
			return true
		}
	}
	return false
}

// Category distinguishes multi-joint from single-joint movements.
type Category string

const (
	CategoryCompound  Category = "compound"
	CategoryIsolation Category = "isolation"
)

// MuscleGroup identifies a trainable muscle group for volume accounting.
type MuscleGroup string

const (
	MuscleChest      MuscleGroup = "chest"
	MuscleBack       MuscleGroup = "back"
	MuscleQuads      MuscleGroup = "quads"
	MuscleGlutes     MuscleGroup = "glutes"
	MuscleHamstrings MuscleGroup = "hamstrings"
	MuscleShoulders  MuscleGroup = "shoulders"
	MuscleBiceps     MuscleGroup = "biceps"
	MuscleTriceps    MuscleGroup = "triceps"
	MuscleCalves     MuscleGroup = "calves"
	MuscleAbs        MuscleGroup = "abs"
)

// Equipment identifies the implement class an exercise requires.
type Equipment string

const (
	EquipmentBarbell    Equipment = "barbell"
	EquipmentDumbbell   Equipment = "dumbbell"
	EquipmentMachine    Equipment = "machine"
	EquipmentCable      Equipment = "cable"
	EquipmentKettlebell Equipment = "kettlebell"
	EquipmentBands      Equipment = "bands"
	EquipmentBodyweight Equipment = "bodyweight"
)

// PhaseType labels the periodization role of a training block.
type PhaseType string

const (
	PhaseAccumulation    PhaseType = "accumulation"
	PhaseIntensification PhaseType = "intensification"
	PhaseRealization     PhaseType = "realization"
	PhaseDeload          PhaseType = "deload"
)

// ExerciseDetail is a single prescribed exercise within a session.
type ExerciseDetail struct {
	Name           string        `json:"name"`
	Tier           Tier          `json:"tier"`
	Category       Category      `json:"category"`
	Sets           int           `json:"sets"`
	Reps           string        `json:"reps"`
	Load           string        `json:"load,omitempty"`
	RPE            float64       `json:"rpe,omitempty"`
	RestPeriod     string        `json:"restPeriod"`
	PrimaryMuscles []MuscleGroup `json:"primaryMuscles"`
	Equipment      []Equipment   `json:"equipment"`
	Notes          string        `json:"notes,omitempty"`
}

// Session is one training day. A session with no exercises is a rest day.
type Session struct {
	Focus             string           `json:"focus"`
	Week              int              `json:"week,omitempty"`
	Day               int              `json:"day,omitempty"`
	IsRestDay         bool             `json:"isRestDay"`
	Exercises         []ExerciseDetail `json:"exercises"`
	EstimatedDuration int              `json:"estimatedDuration"` // minutes
}

// Week groups the sessions of a single training week within a phase.
type Week struct {
	Number   int       `json:"number"`
	IsDeload bool      `json:"isDeload,omitempty"`
	Sessions []Session `json:"sessions"`
}

// Phase is a block of consecutive weeks sharing a periodization role.
type Phase struct {
	Name          string    `json:"name"`
	Type          PhaseType `json:"type"`
	DurationWeeks int       `json:"durationWeeks"`
	Weeks         []Week    `json:"weeks"`
}

// TrainingProgram is the fully-typed representation of a generated program.
// Almost every field tolerates being absent in the raw generated output; the
// normalizer fills defaults so downstream consumers never see missing data.
type TrainingProgram struct {
	Title  string  `json:"title"`
	Phases []Phase `json:"phases"`
}

// Sessions returns every session in program order (phase, week, day).
func (p *TrainingProgram) Sessions() []Session {
	var out []Session
	for _, phase := range p.Phases {
		for _, week := range phase.Weeks {
			out = append(out, week.Sessions...)
		}
	}
	return out
}

// WeeklySetVolume sums prescribed working sets per muscle group for one week.
func (w *Week) WeeklySetVolume() map[MuscleGroup]int {
	volume := make(map[MuscleGroup]int)
	for _, session := range w.Sessions {
		if session.IsRestDay {
			continue
		}
		for _, ex := range session.Exercises {
			for _, muscle := range ex.PrimaryMuscles {
				volume[muscle] += ex.Sets
			}
		}
	}
	return volume
}
