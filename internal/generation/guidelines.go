// internal/generation/guidelines.go
package generation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"program-pipeline/internal/landmarks"
	"program-pipeline/internal/models"
)

// guidelineKey identifies one guideline block by training goal and
// experience level.
type guidelineKey struct {
	Goal  string
	Level models.ExperienceLevel
}

// guidelineBlocks are the coaching instructions injected into the prompt.
// Keys use the current goal taxonomy; older free-text goal labels are
// resolved by substring fallback in SelectGuideline.
var guidelineBlocks = map[guidelineKey]string{
	{Goal: "hypertrophy", Level: models.ExperienceBeginner}: strings.TrimSpace(`
Program for muscle growth with a novice trainee.
- 3 full-body sessions per week, one Anchor compound lift opening each session.
- Keep weekly sets per muscle near the low end of the effective range; novices grow on minimal volume.
- Reps mostly 8-12, leave 2-3 reps in reserve, rest 60-90 seconds on accessories.`),

	{Goal: "hypertrophy", Level: models.ExperienceIntermediate}: strings.TrimSpace(`
Program for muscle growth with an intermediate trainee.
- 4-5 sessions per week on an upper/lower or push/pull/legs split, one Anchor compound lift opening each session.
- Progress weekly sets per muscle across each accumulation phase, then cut volume sharply in the deload.
- Reps 6-12 on compounds, 8-15 on isolation work.`),

	{Goal: "hypertrophy", Level: models.ExperienceAdvanced}: strings.TrimSpace(`
Program for muscle growth with an advanced trainee.
- 5-6 sessions per week with specialization volume for the trainee's priority muscles.
- Run accumulation into intensification before any realization work, and always finish a block with a deload.
- Priority muscles train at or above their minimum effective volume every non-deload week.`),

	{Goal: "strength", Level: models.ExperienceBeginner}: strings.TrimSpace(`
Program for strength with a novice trainee.
- 3 sessions per week built around the squat, bench press, and deadlift as Anchor lifts.
- Linear load progression session to session; accessory volume stays minimal.
- Reps 3-5 on Anchor lifts, 8-12 on accessories.`),

	{Goal: "strength", Level: models.ExperienceIntermediate}: strings.TrimSpace(`
Program for strength with an intermediate trainee.
- 3-4 sessions per week; each session opens with one Anchor lift at the day's top intensity.
- Periodize across phases: accumulate volume, intensify load, then realize with low-rep heavy singles or doubles.
- Accessory work supports the Anchor lifts without pushing any muscle past its recoverable volume.`),

	{Goal: "strength", Level: models.ExperienceAdvanced}: strings.TrimSpace(`
Program for strength with an advanced trainee.
- 4-5 sessions per week with the full accumulation, intensification, realization, deload sequence.
- Use the trainee's personal records to anchor intensity prescriptions.
- Keep weekly volume inside the per-muscle effective range; advanced lifters recover slowly from maximal work.`),

	{Goal: "general_fitness", Level: models.ExperienceBeginner}: strings.TrimSpace(`
Program for general fitness with a novice trainee.
- 2-3 full-body sessions per week mixing one compound Anchor lift with simple accessory movements.
- Keep sessions under an hour and volume conservative.`),

	{Goal: "general_fitness", Level: models.ExperienceIntermediate}: strings.TrimSpace(`
Program for general fitness with an intermediate trainee.
- 3-4 sessions per week balancing pushing, pulling, squatting, and hinging patterns.
- One Anchor compound lift per session, moderate accessory volume, reps 6-15.`),

	{Goal: "general_fitness", Level: models.ExperienceAdvanced}: strings.TrimSpace(`
Program for general fitness with an advanced trainee.
- 4-5 varied sessions per week; rotate Anchor lifts across the block to spread joint stress.
- Hold weekly per-muscle volume in the middle of the effective range.`),
}

// SelectGuideline picks the guideline block for a goal and level. Exact
// (goal, level) match wins; otherwise the goal label is matched
// case-insensitively as a substring against the known goals, which keeps
// older free-text labels like "Build Muscle & Strength" working. Unknown
// goals fall back to general fitness.
func SelectGuideline(goal string, level models.ExperienceLevel) string {
	if !level.IsValid() {
		level = models.ExperienceIntermediate
	}

	if block, ok := guidelineBlocks[guidelineKey{Goal: goal, Level: level}]; ok {
		return block
	}

	lowered := strings.ToLower(goal)
	for _, known := range knownGoals() {
		if strings.Contains(lowered, strings.ReplaceAll(known, "_", " ")) || strings.Contains(lowered, known) {
			return guidelineBlocks[guidelineKey{Goal: known, Level: level}]
		}
	}
	// "muscle" and "mass" labels predate the hypertrophy taxonomy.
	if strings.Contains(lowered, "muscle") || strings.Contains(lowered, "mass") {
		return guidelineBlocks[guidelineKey{Goal: "hypertrophy", Level: level}]
	}

	return guidelineBlocks[guidelineKey{Goal: "general_fitness", Level: level}]
}

func knownGoals() []string {
	seen := map[string]struct{}{}
	for key := range guidelineBlocks {
		seen[key.Goal] = struct{}{}
	}
	goals := make([]string, 0, len(seen))
	for goal := range seen {
		goals = append(goals, goal)
	}
	sort.Strings(goals)
	return goals
}

// BuildPrompt composes the generation prompt from the trainee's profile, the
// selected guideline block, and the volume landmarks the validator will hold
// the output to.
func BuildPrompt(profile models.OnboardingProfile) string {
	var parts []string

	parts = append(parts, "You are an expert strength coach. Design a periodized training program as a single JSON object.")
	parts = append(parts, fmt.Sprintf("\nTrainee Profile:\n- Experience: %s\n- Goal: %s\n- Sessions per week: %d\n- Minutes per session: %d\n- Equipment access: %s",
		profile.Experience, profile.PrimaryFocus, profile.DaysPerWeek, profile.SessionMinutes, profile.EquipmentAccess))

	if len(profile.PriorityMuscles) > 0 {
		muscles := make([]string, len(profile.PriorityMuscles))
		for i, m := range profile.PriorityMuscles {
			muscles[i] = string(m)
		}
		parts = append(parts, fmt.Sprintf("- Priority muscles: %s", strings.Join(muscles, ", ")))
	}
	if len(profile.PersonalRecords) > 0 {
		recordsJSON, _ := json.Marshal(profile.PersonalRecords)
		parts = append(parts, fmt.Sprintf("- Personal records (kg): %s", recordsJSON))
	}

	parts = append(parts, "\nCoaching Guidelines:")
	parts = append(parts, SelectGuideline(profile.PrimaryFocus, profile.Experience))

	parts = append(parts, "\nWeekly set volume ranges per muscle (min effective / adaptive / max recoverable):")
	for _, muscle := range landmarks.Muscles() {
		lm := landmarks.Lookup(muscle, profile.Experience)
		parts = append(parts, fmt.Sprintf("- %s: %d / %d / %d", muscle, lm.MEV, lm.MAV, lm.MRV))
	}

	parts = append(parts, "\nOutput Requirements:")
	parts = append(parts, "- Return ONLY a JSON object, no prose.")
	parts = append(parts, "- Structure: phases -> weeks -> sessions -> exercises.")
	parts = append(parts, "- The first exercise of every training session must be the Anchor lift.")
	parts = append(parts, "- Tag each exercise with tier, category, primary muscles, and equipment.")

	return strings.Join(parts, "\n")
}
