// internal/normalizer/normalizer.go

// Package normalizer coerces raw generated program output into the typed
// program model. It is the boundary between untrusted generative output and
// every downstream consumer: for any input whatsoever it returns a valid
// TrainingProgram and never panics. Every field read goes through an explicit
// default or inference path, and unrecognized keys are ignored rather than
// merged into anything.
package normalizer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"program-pipeline/internal/models"
)

// Field defaults applied when the generator omits or malforms a value.
const (
	DefaultSets         = 3
	DefaultReps         = "8-12"
	DefaultRest         = "60-90 seconds"
	DefaultSessionFocus = "Training Day"
	MinutesPerExercise  = 15
	DefaultPhaseName    = "Block 1"
	defaultProgramTitle = "Training Program"
	maxNestingDepth     = 32
)

var dayKeyPattern = regexp.MustCompile(`^day[_ ]?(\d+)$`)

// Normalizer turns arbitrary decoded JSON into a TrainingProgram.
type Normalizer struct {
	classifier ExerciseClassifier
}

// New returns a normalizer using the default keyword classifier.
func New() *Normalizer {
	return NewWithClassifier(NewKeywordClassifier())
}

// NewWithClassifier returns a normalizer with a custom inference strategy.
func NewWithClassifier(c ExerciseClassifier) *Normalizer {
	return &Normalizer{classifier: c}
}

// Normalize converts any raw value into a well-typed program. Total: nil,
// primitives, arrays and arbitrarily nested objects all produce a valid
// result. Only expected named fields are read.
func (n *Normalizer) Normalize(raw interface{}) *models.TrainingProgram {
	program := &models.TrainingProgram{
		Title:  defaultProgramTitle,
		Phases: []models.Phase{},
	}

	root, ok := asMap(raw)
	if !ok {
		return program
	}

	if title := stringField(root, "title", "programName", "name"); title != "" {
		program.Title = title
	}

	switch {
	case hasSlice(root, "phases"):
		for i, rawPhase := range sliceField(root, "phases") {
			program.Phases = append(program.Phases, n.normalizePhase(rawPhase, i, maxNestingDepth))
		}
	case hasSlice(root, "weeks"):
		program.Phases = append(program.Phases, n.wrapWeeks(sliceField(root, "weeks")))
	default:
		sessions := n.collectDaySessions(root)
		if len(sessions) > 0 {
			week := models.Week{Number: 1, Sessions: sessions}
			program.Phases = append(program.Phases, models.Phase{
				Name:          DefaultPhaseName,
				Type:          models.PhaseAccumulation,
				DurationWeeks: 1,
				Weeks:         []models.Week{week},
			})
		}
	}

	return program
}

func (n *Normalizer) normalizePhase(raw interface{}, index, depth int) models.Phase {
	phase := models.Phase{
		Name:  fmt.Sprintf("Block %d", index+1),
		Type:  models.PhaseAccumulation,
		Weeks: []models.Week{},
	}
	if depth <= 0 {
		return phase
	}

	m, ok := asMap(raw)
	if !ok {
		return phase
	}

	if name := stringField(m, "name", "label"); name != "" {
		phase.Name = name
	}
	phase.Type = parsePhaseType(stringField(m, "type", "phaseType", "focus"), phase.Name)

	for i, rawWeek := range sliceField(m, "weeks") {
		phase.Weeks = append(phase.Weeks, n.normalizeWeek(rawWeek, i, depth-1))
	}

	// Declared duration is kept even when it disagrees with the week count;
	// the mismatch is the guardian's finding, not ours to repair.
	if d, ok := positiveInt(m["durationWeeks"]); ok {
		phase.DurationWeeks = d
	} else if d, ok := positiveInt(m["duration"]); ok {
		phase.DurationWeeks = d
	} else {
		phase.DurationWeeks = len(phase.Weeks)
	}

	return phase
}

func (n *Normalizer) wrapWeeks(rawWeeks []interface{}) models.Phase {
	phase := models.Phase{
		Name:  DefaultPhaseName,
		Type:  models.PhaseAccumulation,
		Weeks: []models.Week{},
	}
	for i, rawWeek := range rawWeeks {
		phase.Weeks = append(phase.Weeks, n.normalizeWeek(rawWeek, i, maxNestingDepth))
	}
	phase.DurationWeeks = len(phase.Weeks)
	return phase
}

func (n *Normalizer) normalizeWeek(raw interface{}, index, depth int) models.Week {
	week := models.Week{Number: index + 1, Sessions: []models.Session{}}
	if depth <= 0 {
		return week
	}

	m, ok := asMap(raw)
	if !ok {
		return week
	}

	if num, ok := positiveInt(m["number"]); ok {
		week.Number = num
	} else if num, ok := positiveInt(m["week"]); ok {
		week.Number = num
	}
	if deload, ok := m["isDeload"].(bool); ok {
		week.IsDeload = deload
	} else if deload, ok := m["deload"].(bool); ok {
		week.IsDeload = deload
	}

	if hasSlice(m, "sessions") {
		for _, rawSession := range sliceField(m, "sessions") {
			week.Sessions = append(week.Sessions, n.normalizeSession(rawSession))
		}
	} else if hasSlice(m, "days") {
		for _, rawSession := range sliceField(m, "days") {
			week.Sessions = append(week.Sessions, n.normalizeSession(rawSession))
		}
	} else {
		week.Sessions = n.collectDaySessions(m)
	}

	return week
}

// collectDaySessions gathers dayN-style keys in numeric order. Keys that do
// not look like day entries (reasoning, commentary, anything else the model
// appends) are ignored, not stored.
func (n *Normalizer) collectDaySessions(m map[string]interface{}) []models.Session {
	type dayEntry struct {
		order int
		raw   interface{}
	}
	var entries []dayEntry
	for key, value := range m {
		match := dayKeyPattern.FindStringSubmatch(strings.ToLower(key))
		if match == nil {
			continue
		}
		order := 0
		fmt.Sscanf(match[1], "%d", &order)
		entries = append(entries, dayEntry{order: order, raw: value})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].order < entries[j].order })

	sessions := make([]models.Session, 0, len(entries))
	for i, entry := range entries {
		session := n.normalizeSession(entry.raw)
		if session.Day == 0 {
			session.Day = entries[i].order
		}
		sessions = append(sessions, session)
	}
	return sessions
}

func (n *Normalizer) normalizeSession(raw interface{}) models.Session {
	session := models.Session{
		Focus:     DefaultSessionFocus,
		Exercises: []models.ExerciseDetail{},
	}

	m, ok := asMap(raw)
	if !ok {
		return restDay(session)
	}

	if focus := stringField(m, "focus", "name", "label"); focus != "" {
		session.Focus = focus
	}
	if day, ok := positiveInt(m["day"]); ok {
		session.Day = day
	}
	if week, ok := positiveInt(m["week"]); ok {
		session.Week = week
	}

	rawExercises, ok := m["exercises"].([]interface{})
	if !ok || len(rawExercises) == 0 {
		// Missing, empty or non-array exercise list means a rest day,
		// never an error.
		return restDay(session)
	}

	for i, rawEx := range rawExercises {
		session.Exercises = append(session.Exercises, n.normalizeExercise(rawEx, i))
	}

	if d, ok := positiveInt(m["estimatedDuration"]); ok {
		session.EstimatedDuration = d
	} else {
		session.EstimatedDuration = len(session.Exercises) * MinutesPerExercise
	}

	return session
}

func (n *Normalizer) normalizeExercise(raw interface{}, index int) models.ExerciseDetail {
	ex := models.ExerciseDetail{
		Name:       fmt.Sprintf("Exercise %d", index+1),
		Sets:       DefaultSets,
		Reps:       DefaultReps,
		RestPeriod: DefaultRest,
	}

	m, ok := asMap(raw)
	if ok {
		if name := stringField(m, "name", "exerciseName", "exercise"); name != "" {
			ex.Name = name
		}
		if sets, ok := positiveInt(m["sets"]); ok {
			ex.Sets = sets
		}
		if reps := stringField(m, "reps", "repRange"); reps != "" {
			ex.Reps = reps
		}
		if rest := stringField(m, "rest", "restPeriod"); rest != "" {
			ex.RestPeriod = rest
		}
		if load := stringField(m, "load", "weight", "intensity"); load != "" {
			ex.Load = load
		}
		if rpe, ok := asNumber(m["rpe"]); ok && rpe > 0 && rpe <= 10 {
			ex.RPE = rpe
		}
		if notes := stringField(m, "notes", "rationale"); notes != "" {
			ex.Notes = notes
		}
	}

	inferred := n.classifier.Classify(ex.Name)

	ex.Category = inferred.Category
	if ok {
		if cat := strings.ToLower(stringField(m, "category")); cat == string(models.CategoryCompound) || cat == string(models.CategoryIsolation) {
			ex.Category = models.Category(cat)
		}
	}

	ex.Tier = inferred.Tier
	if ok {
		if tier := models.Tier(stringField(m, "tier")); tier.IsValid() {
			ex.Tier = tier
		}
	}

	ex.PrimaryMuscles = parseMuscles(m)
	if len(ex.PrimaryMuscles) == 0 {
		ex.PrimaryMuscles = inferred.Muscles
	}

	ex.Equipment = parseEquipment(m)
	if len(ex.Equipment) == 0 {
		ex.Equipment = inferred.Equipment
	}

	return ex
}

func restDay(session models.Session) models.Session {
	session.IsRestDay = true
	session.Exercises = []models.ExerciseDetail{}
	session.EstimatedDuration = 0
	return session
}

// --- loose-typed field readers ---

func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

func hasSlice(m map[string]interface{}, key string) bool {
	s, ok := m[key].([]interface{})
	return ok && len(s) > 0
}

func sliceField(m map[string]interface{}, key string) []interface{} {
	s, _ := m[key].([]interface{})
	return s
}

// stringField returns the first non-empty string among the named keys.
func stringField(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func asNumber(v interface{}) (float64, bool) {
	switch num := v.(type) {
	case float64:
		return num, true
	case float32:
		return float64(num), true
	case int:
		return float64(num), true
	case int32:
		return float64(num), true
	case int64:
		return float64(num), true
	}
	return 0, false
}

// positiveInt accepts only positive non-zero numbers.
func positiveInt(v interface{}) (int, bool) {
	num, ok := asNumber(v)
	if !ok || num <= 0 {
		return 0, false
	}
	return int(num), true
}

func parseMuscles(m map[string]interface{}) []models.MuscleGroup {
	if m == nil {
		return nil
	}
	var out []models.MuscleGroup
	for _, key := range []string{"primaryMuscles", "muscles", "muscleGroups"} {
		for _, item := range sliceField(m, key) {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, models.MuscleGroup(strings.ToLower(strings.TrimSpace(s))))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func parseEquipment(m map[string]interface{}) []models.Equipment {
	if m == nil {
		return nil
	}
	var out []models.Equipment
	for _, key := range []string{"equipment", "equipmentNeeded"} {
		switch v := m[key].(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return []models.Equipment{models.Equipment(strings.ToLower(strings.TrimSpace(v)))}
			}
		case []interface{}:
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, models.Equipment(strings.ToLower(strings.TrimSpace(s))))
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func parsePhaseType(raw, name string) models.PhaseType {
	candidates := []models.PhaseType{
		models.PhaseAccumulation,
		models.PhaseIntensification,
		models.PhaseRealization,
		models.PhaseDeload,
	}
	for _, source := range []string{raw, name} {
		lower := strings.ToLower(source)
		for _, candidate := range candidates {
			if strings.Contains(lower, string(candidate)) {
				return candidate
			}
		}
	}
	return models.PhaseAccumulation
}
