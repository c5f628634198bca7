// internal/generation/orchestrator.go
package generation

import (
	"context"
	"time"

	"github.com/google/uuid"

	"program-pipeline/internal/common/errors"
	"program-pipeline/internal/common/logger"
	"program-pipeline/internal/common/metrics"
	"program-pipeline/internal/common/observability"
	"program-pipeline/internal/guardian"
	"program-pipeline/internal/models"
	"program-pipeline/internal/normalizer"
)

// Repository is the persistence surface the orchestrator drives. ClaimPending
// must be conditional on the current status so two triggers for the same
// record never both reach the model.
type Repository interface {
	Insert(ctx context.Context, record *models.GenerationRecord) error
	GetByID(ctx context.Context, id string) (*models.GenerationRecord, error)
	ClaimPending(ctx context.Context, id string) (bool, error)
	MarkCompleted(ctx context.Context, id string, program *models.TrainingProgram, warnings []models.ValidationIssue) error
	MarkFailed(ctx context.Context, id string, recordErr *models.RecordError) error
}

// Ack is the synchronous response to a trigger. The caller polls the record
// for everything else.
type Ack struct {
	ProgramID string                  `json:"programId"`
	Status    models.GenerationStatus `json:"status"`
}

// Orchestrator runs the generation lifecycle for one record at a time:
// pending record, detached worker, model call with bounded retries,
// normalize, validate, terminal status.
type Orchestrator struct {
	repo       Repository
	generator  Generator
	normalizer *normalizer.Normalizer
	guardian   *guardian.Guardian
	logger     logger.Logger
	obs        *observability.Observability

	// retryCap bounds the per-code retry budget when positive.
	retryCap int

	// taskDone is signalled once per detached generation task. Tests wait on
	// it instead of sleeping.
	taskDone chan string
}

func NewOrchestrator(repo Repository, generator Generator, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		repo:       repo,
		generator:  generator,
		normalizer: normalizer.New(),
		guardian:   guardian.New(),
		logger:     log.WithFields(map[string]interface{}{"component": "orchestrator"}),
		taskDone:   make(chan string, 16),
	}
}

// WithObservability attaches the OpenTelemetry recorder.
func (o *Orchestrator) WithObservability(obs *observability.Observability) *Orchestrator {
	o.obs = obs
	return o
}

// WithRetryCap caps the retry budget of every error code at n. Zero or
// negative leaves the per-code budgets untouched.
func (o *Orchestrator) WithRetryCap(n int) *Orchestrator {
	o.retryCap = n
	return o
}

// CreateProgram inserts a pending record and returns its id immediately. The
// model call runs on a detached goroutine; the caller never blocks on it.
func (o *Orchestrator) CreateProgram(ctx context.Context, userID string, profile models.OnboardingProfile) (*Ack, error) {
	record := &models.GenerationRecord{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: models.StatusPending,
	}
	if err := o.repo.Insert(ctx, record); err != nil {
		return nil, err
	}

	metrics.GenerationsStarted.Inc()
	o.logger.Info("generation requested", map[string]interface{}{
		"programId": record.ID,
		"userId":    userID,
	})

	// Detached from the request context on purpose: the trigger request
	// finishing must not cancel the generation task.
	go o.run(context.Background(), record.ID, profile)

	return &Ack{ProgramID: record.ID, Status: models.StatusPending}, nil
}

// TaskDone exposes task completion for tests.
func (o *Orchestrator) TaskDone() <-chan string {
	return o.taskDone
}

func (o *Orchestrator) run(ctx context.Context, recordID string, profile models.OnboardingProfile) {
	defer func() {
		select {
		case o.taskDone <- recordID:
		default:
		}
	}()

	started := time.Now()
	log := o.logger.WithFields(map[string]interface{}{"programId": recordID})

	claimed, err := o.repo.ClaimPending(ctx, recordID)
	if err != nil {
		// The record is still pending; leave it for a re-trigger rather than
		// forcing a terminal status it cannot transition to.
		log.WithError(err).Error("claim failed", nil)
		return
	}
	if !claimed {
		// Another owner holds the lease. Nothing to do.
		log.Warn("record already claimed", nil)
		return
	}

	document, stdErr := o.generateWithRetry(ctx, profile, log)
	if stdErr != nil {
		o.finishFailed(ctx, recordID, stdErr, started)
		return
	}

	program := o.normalizer.Normalize(document)
	result := o.guardian.Validate(program, profile)

	for _, issue := range append(result.Errors, result.Warnings...) {
		metrics.GuardianIssues.WithLabelValues(string(issue.Type), string(issue.Severity)).Inc()
	}

	if result.HasCritical() {
		details := ""
		for i, issue := range result.Errors {
			if i > 0 {
				details += "; "
			}
			details += issue.Message
		}
		o.finishFailed(ctx, recordID, errors.NewProgramSchemaInvalidError(details), started)
		return
	}

	if err := o.repo.MarkCompleted(ctx, recordID, program, result.Warnings); err != nil {
		log.WithError(err).Error("persist completed record failed", nil)
		o.finishFailed(ctx, recordID, errors.Normalize(err), started)
		return
	}

	metrics.GenerationsCompleted.WithLabelValues(string(models.StatusCompleted), "").Inc()
	metrics.GenerationDuration.Observe(time.Since(started).Seconds())
	if o.obs != nil {
		o.obs.RecordGeneration(ctx, string(models.StatusCompleted))
		o.obs.RecordGenerationDuration(ctx, time.Since(started), string(models.StatusCompleted))
	}
	log.Info("generation completed", map[string]interface{}{
		"warnings":  len(result.Warnings),
		"elapsedMs": time.Since(started).Milliseconds(),
	})
}

// generateWithRetry calls the model until it produces a parseable document or
// the per-code retry budget runs out. Each attempt carries its own timeout
// inside the client; backoff doubles between attempts starting at 100ms.
func (o *Orchestrator) generateWithRetry(ctx context.Context, profile models.OnboardingProfile, log logger.Logger) (map[string]interface{}, *errors.StandardError) {
	prompt := BuildPrompt(profile)

	var lastErr *errors.StandardError
	for attempt := 1; ; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(100*(1<<(attempt-2))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, errors.NewGenerationTimeoutError()
			}
		}

		document, err := o.generator.Generate(ctx, prompt)
		if err == nil {
			return document, nil
		}

		lastErr = errors.Normalize(err)
		log.Warn("generation attempt failed", map[string]interface{}{
			"attempt": attempt,
			"code":    string(lastErr.Code),
			"error":   lastErr.Message,
		})

		if attempt > o.retryBudget(lastErr.Code) {
			return nil, lastErr
		}
	}
}

func (o *Orchestrator) retryBudget(code errors.ErrorCode) int {
	budget := errors.GetRetryCount(code)
	if o.retryCap > 0 && budget > o.retryCap {
		budget = o.retryCap
	}
	return budget
}

func (o *Orchestrator) finishFailed(ctx context.Context, recordID string, stdErr *errors.StandardError, started time.Time) {
	recordErr := errors.ToRecordError(stdErr)
	if err := o.repo.MarkFailed(ctx, recordID, recordErr); err != nil {
		o.logger.WithError(err).Error("persist failed record failed", map[string]interface{}{
			"programId": recordID,
		})
	}

	metrics.GenerationsCompleted.WithLabelValues(string(models.StatusFailed), string(stdErr.Code)).Inc()
	metrics.GenerationDuration.Observe(time.Since(started).Seconds())
	if o.obs != nil {
		o.obs.RecordGeneration(ctx, string(models.StatusFailed))
		o.obs.RecordGenerationDuration(ctx, time.Since(started), string(models.StatusFailed))
	}
	o.logger.Error("generation failed", map[string]interface{}{
		"programId": recordID,
		"code":      string(stdErr.Code),
	})
}
