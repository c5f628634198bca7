// internal/generation/orchestrator_test.go
package generation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "program-pipeline/internal/common/errors"
	"program-pipeline/internal/common/logger"
	"program-pipeline/internal/models"
)

// memoryRepo is an in-memory Repository with the same conditional-claim
// semantics the Postgres implementation has.
type memoryRepo struct {
	mu      sync.Mutex
	records map[string]*models.GenerationRecord
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{records: map[string]*models.GenerationRecord{}}
}

func (r *memoryRepo) Insert(_ context.Context, record *models.GenerationRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *record
	stored.Version = 1
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.records[record.ID] = &stored
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*models.GenerationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, stderrors.NewRecordNotFoundError(id)
	}
	copied := *record
	return &copied, nil
}

func (r *memoryRepo) ClaimPending(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok || record.Status != models.StatusPending {
		return false, nil
	}
	record.Status = models.StatusProcessing
	record.Version++
	record.UpdatedAt = time.Now()
	return true, nil
}

func (r *memoryRepo) MarkCompleted(_ context.Context, id string, program *models.TrainingProgram, warnings []models.ValidationIssue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record := r.records[id]
	record.Status = models.StatusCompleted
	record.Program = program
	record.Warnings = warnings
	record.Version++
	record.UpdatedAt = time.Now()
	return nil
}

func (r *memoryRepo) MarkFailed(_ context.Context, id string, recordErr *models.RecordError) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	record := r.records[id]
	record.Status = models.StatusFailed
	record.Error = recordErr
	record.Version++
	record.UpdatedAt = time.Now()
	return nil
}

// scriptedGenerator returns its scripted results in order, repeating the last
// one when the script runs out.
type scriptedGenerator struct {
	mu      sync.Mutex
	calls   int
	results []scriptedResult
}

type scriptedResult struct {
	document map[string]interface{}
	err      error
}

func (g *scriptedGenerator) Generate(_ context.Context, _ string) (map[string]interface{}, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	idx := g.calls - 1
	if idx >= len(g.results) {
		idx = len(g.results) - 1
	}
	res := g.results[idx]
	return res.document, res.err
}

func (g *scriptedGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func validDocument() map[string]interface{} {
	return map[string]interface{}{
		"title": "Strength Block",
		"phases": []interface{}{
			map[string]interface{}{
				"name": "Accumulation",
				"type": "accumulation",
				"weeks": []interface{}{
					map[string]interface{}{
						"weekNumber": float64(1),
						"sessions": []interface{}{
							map[string]interface{}{
								"focus": "Lower Body",
								"exercises": []interface{}{
									map[string]interface{}{"name": "Barbell Back Squat", "sets": float64(4), "reps": "5"},
									map[string]interface{}{"name": "Leg Curl", "sets": float64(3), "reps": "10"},
								},
							},
						},
					},
				},
			},
		},
	}
}

func testProfile() models.OnboardingProfile {
	return models.OnboardingProfile{
		Experience:     models.ExperienceIntermediate,
		PrimaryFocus:   "strength",
		DaysPerWeek:    3,
		SessionMinutes: 60,
	}
}

func waitForTask(t *testing.T, o *Orchestrator, programID string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case id := <-o.TaskDone():
			if id == programID {
				return
			}
		case <-deadline:
			t.Fatal("generation task did not finish")
		}
	}
}

func TestCreateProgram_ReturnsPendingImmediately(t *testing.T) {
	repo := newMemoryRepo()
	gen := &scriptedGenerator{results: []scriptedResult{{document: validDocument()}}}
	o := NewOrchestrator(repo, gen, logger.NewNoOpLogger())

	ack, err := o.CreateProgram(context.Background(), "user-1", testProfile())
	require.NoError(t, err)
	assert.NotEmpty(t, ack.ProgramID)
	assert.Equal(t, models.StatusPending, ack.Status)

	waitForTask(t, o, ack.ProgramID)
}

func TestCreateProgram_HappyPathCompletes(t *testing.T) {
	repo := newMemoryRepo()
	gen := &scriptedGenerator{results: []scriptedResult{{document: validDocument()}}}
	o := NewOrchestrator(repo, gen, logger.NewTestLogger(t))

	ack, err := o.CreateProgram(context.Background(), "user-1", testProfile())
	require.NoError(t, err)
	waitForTask(t, o, ack.ProgramID)

	record, err := repo.GetByID(context.Background(), ack.ProgramID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, record.Status)
	assert.Nil(t, record.Error)
	require.NotNil(t, record.Program)
	require.Len(t, record.Program.Phases, 1)

	session := record.Program.Phases[0].Weeks[0].Sessions[0]
	require.Len(t, session.Exercises, 2)
	assert.Equal(t, models.TierAnchor, session.Exercises[0].Tier)
}

func TestCreateProgram_RetriesTransientFailureThenSucceeds(t *testing.T) {
	repo := newMemoryRepo()
	gen := &scriptedGenerator{results: []scriptedResult{
		{err: stderrors.NewGenerationCallFailedError(assert.AnError)},
		{err: stderrors.NewResponseParseFailedError(assert.AnError)},
		{document: validDocument()},
	}}
	o := NewOrchestrator(repo, gen, logger.NewNoOpLogger())

	ack, err := o.CreateProgram(context.Background(), "user-1", testProfile())
	require.NoError(t, err)
	waitForTask(t, o, ack.ProgramID)

	record, err := repo.GetByID(context.Background(), ack.ProgramID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, record.Status)
	assert.Equal(t, 3, gen.callCount())
}

func TestCreateProgram_ExhaustedRetriesFailSanitized(t *testing.T) {
	repo := newMemoryRepo()
	providerErr := stderrors.NewGenerationCallFailedError(assert.AnError)
	gen := &scriptedGenerator{results: []scriptedResult{{err: providerErr}}}
	o := NewOrchestrator(repo, gen, logger.NewNoOpLogger())

	ack, err := o.CreateProgram(context.Background(), "user-1", testProfile())
	require.NoError(t, err)
	waitForTask(t, o, ack.ProgramID)

	record, err := repo.GetByID(context.Background(), ack.ProgramID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, record.Status)
	require.NotNil(t, record.Error)
	assert.Equal(t, string(stderrors.ErrCodeGenerationCallFailed), record.Error.Code)
	// Sanitized: no provider detail leaks into the record error.
	assert.NotContains(t, record.Error.Message, assert.AnError.Error())
	assert.Empty(t, record.Error.Detail)

	// First attempt plus the per-code retry budget.
	assert.Equal(t, 1+stderrors.GetRetryCount(stderrors.ErrCodeGenerationCallFailed), gen.callCount())
}

func TestCreateProgram_RetryCapBoundsBudget(t *testing.T) {
	repo := newMemoryRepo()
	gen := &scriptedGenerator{results: []scriptedResult{{err: stderrors.NewGenerationCallFailedError(assert.AnError)}}}
	o := NewOrchestrator(repo, gen, logger.NewNoOpLogger()).WithRetryCap(1)

	ack, err := o.CreateProgram(context.Background(), "user-1", testProfile())
	require.NoError(t, err)
	waitForTask(t, o, ack.ProgramID)

	record, _ := repo.GetByID(context.Background(), ack.ProgramID)
	assert.Equal(t, models.StatusFailed, record.Status)
	// One initial attempt plus the capped single retry.
	assert.Equal(t, 2, gen.callCount())
}

func TestCreateProgram_TimeoutUsesSmallerBudget(t *testing.T) {
	repo := newMemoryRepo()
	gen := &scriptedGenerator{results: []scriptedResult{{err: stderrors.NewGenerationTimeoutError()}}}
	o := NewOrchestrator(repo, gen, logger.NewNoOpLogger())

	ack, err := o.CreateProgram(context.Background(), "user-1", testProfile())
	require.NoError(t, err)
	waitForTask(t, o, ack.ProgramID)

	record, _ := repo.GetByID(context.Background(), ack.ProgramID)
	assert.Equal(t, models.StatusFailed, record.Status)
	assert.Equal(t, 1+stderrors.GetRetryCount(stderrors.ErrCodeGenerationTimeout), gen.callCount())
}

func TestCreateProgram_CriticalValidationFails(t *testing.T) {
	repo := newMemoryRepo()
	// An unusable document: normalizes to a program with no phases.
	gen := &scriptedGenerator{results: []scriptedResult{{document: map[string]interface{}{"unrelated": true}}}}
	o := NewOrchestrator(repo, gen, logger.NewNoOpLogger())

	ack, err := o.CreateProgram(context.Background(), "user-1", testProfile())
	require.NoError(t, err)
	waitForTask(t, o, ack.ProgramID)

	record, _ := repo.GetByID(context.Background(), ack.ProgramID)
	assert.Equal(t, models.StatusFailed, record.Status)
	require.NotNil(t, record.Error)
	assert.Equal(t, string(stderrors.ErrCodeProgramSchemaInvalid), record.Error.Code)
	// The guardian's findings travel with the failed record.
	assert.Contains(t, record.Error.Detail, "no phases")
}

func TestCreateProgram_ScientificIssuesBecomeWarningsNotFailure(t *testing.T) {
	repo := newMemoryRepo()
	doc := validDocument()
	// Reorder so the anchor lift is not first: HIGH scientific issue, but the
	// record still completes with the issue attached.
	phases := doc["phases"].([]interface{})
	week := phases[0].(map[string]interface{})["weeks"].([]interface{})[0].(map[string]interface{})
	session := week["sessions"].([]interface{})[0].(map[string]interface{})
	exercises := session["exercises"].([]interface{})
	session["exercises"] = []interface{}{exercises[1], exercises[0]}

	gen := &scriptedGenerator{results: []scriptedResult{{document: doc}}}
	o := NewOrchestrator(repo, gen, logger.NewNoOpLogger())

	ack, err := o.CreateProgram(context.Background(), "user-1", testProfile())
	require.NoError(t, err)
	waitForTask(t, o, ack.ProgramID)

	record, _ := repo.GetByID(context.Background(), ack.ProgramID)
	assert.Equal(t, models.StatusCompleted, record.Status)
	assert.NotNil(t, record.Program)
}

func TestRun_SecondClaimIsNoOp(t *testing.T) {
	repo := newMemoryRepo()
	gen := &scriptedGenerator{results: []scriptedResult{{document: validDocument()}}}
	o := NewOrchestrator(repo, gen, logger.NewNoOpLogger())

	record := &models.GenerationRecord{ID: "rec-1", UserID: "user-1", Status: models.StatusPending}
	require.NoError(t, repo.Insert(context.Background(), record))

	claimed, err := repo.ClaimPending(context.Background(), "rec-1")
	require.NoError(t, err)
	require.True(t, claimed)

	// The record is already processing, so a second run must not call the
	// model at all.
	o.run(context.Background(), "rec-1", testProfile())
	assert.Equal(t, 0, gen.callCount())

	stored, _ := repo.GetByID(context.Background(), "rec-1")
	assert.Equal(t, models.StatusProcessing, stored.Status)
}

// claimErrorRepo fails every claim while behaving normally otherwise.
type claimErrorRepo struct {
	*memoryRepo
}

func (r *claimErrorRepo) ClaimPending(context.Context, string) (bool, error) {
	return false, stderrors.NewDatabaseWriteFailedError(assert.AnError)
}

func TestRun_ClaimErrorLeavesRecordPending(t *testing.T) {
	repo := &claimErrorRepo{memoryRepo: newMemoryRepo()}
	gen := &scriptedGenerator{results: []scriptedResult{{document: validDocument()}}}
	o := NewOrchestrator(repo, gen, logger.NewNoOpLogger())

	ack, err := o.CreateProgram(context.Background(), "user-1", testProfile())
	require.NoError(t, err)
	waitForTask(t, o, ack.ProgramID)

	record, err := repo.GetByID(context.Background(), ack.ProgramID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, record.Status)
	assert.Nil(t, record.Error)
	assert.Equal(t, 0, gen.callCount())
}

func TestStatusMonotonicity(t *testing.T) {
	repo := newMemoryRepo()
	gen := &scriptedGenerator{results: []scriptedResult{{document: validDocument()}}}
	o := NewOrchestrator(repo, gen, logger.NewNoOpLogger())

	ack, err := o.CreateProgram(context.Background(), "user-1", testProfile())
	require.NoError(t, err)

	seen := []models.GenerationStatus{}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		record, err := repo.GetByID(context.Background(), ack.ProgramID)
		require.NoError(t, err)
		if len(seen) == 0 || seen[len(seen)-1] != record.Status {
			seen = append(seen, record.Status)
		}
		if record.Status.IsTerminal() {
			break
		}
		time.Sleep(time.Millisecond)
	}

	order := map[models.GenerationStatus]int{
		models.StatusPending:    0,
		models.StatusProcessing: 1,
		models.StatusCompleted:  2,
		models.StatusFailed:     2,
	}
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, order[seen[i]], order[seen[i-1]], "status reverted: %v", seen)
	}
	assert.True(t, seen[len(seen)-1].IsTerminal())
}
