// internal/repository/generation_repo.go

// Package repository persists generation records in Postgres and caches
// terminal statuses in Redis.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrs "errors"
	"time"

	"program-pipeline/internal/common/errors"
	"program-pipeline/internal/common/logger"
	"program-pipeline/internal/models"
)

// Schema for the generation_records table. Applied at startup; idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS generation_records (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	status     TEXT NOT NULL,
	error      JSONB,
	program    JSONB,
	warnings   JSONB,
	version    INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_generation_records_user_id ON generation_records (user_id);
CREATE INDEX IF NOT EXISTS idx_generation_records_status ON generation_records (status);
`

// GenerationRepo is the Postgres-backed store for generation records. All
// status transitions are conditional updates so a record's status sequence
// can only move forward.
type GenerationRepo struct {
	db     *sql.DB
	logger logger.Logger
}

func NewGenerationRepo(db *sql.DB, log logger.Logger) *GenerationRepo {
	return &GenerationRepo{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "generation-repo"}),
	}
}

// EnsureSchema creates the backing table if it does not exist.
func (r *GenerationRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return errors.NewDatabaseQueryFailedError(err)
	}
	return nil
}

func (r *GenerationRepo) Insert(ctx context.Context, record *models.GenerationRecord) error {
	now := time.Now().UTC()
	record.Status = models.StatusPending
	record.Version = 1
	record.CreatedAt = now
	record.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO generation_records (id, user_id, status, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.UserID, record.Status, record.Version, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return errors.NewDatabaseWriteFailedError(err)
	}
	return nil
}

func (r *GenerationRepo) GetByID(ctx context.Context, id string) (*models.GenerationRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, status, error, program, warnings, version, created_at, updated_at
		 FROM generation_records WHERE id = $1`,
		id,
	)

	var record models.GenerationRecord
	var errJSON, programJSON, warningsJSON []byte
	err := row.Scan(
		&record.ID, &record.UserID, &record.Status,
		&errJSON, &programJSON, &warningsJSON,
		&record.Version, &record.CreatedAt, &record.UpdatedAt,
	)
	if stderrs.Is(err, sql.ErrNoRows) {
		return nil, errors.NewRecordNotFoundError(id)
	}
	if err != nil {
		return nil, errors.NewDatabaseQueryFailedError(err)
	}

	if len(errJSON) > 0 {
		record.Error = &models.RecordError{}
		if err := json.Unmarshal(errJSON, record.Error); err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
	}
	if len(programJSON) > 0 {
		record.Program = &models.TrainingProgram{}
		if err := json.Unmarshal(programJSON, record.Program); err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
	}
	if len(warningsJSON) > 0 {
		if err := json.Unmarshal(warningsJSON, &record.Warnings); err != nil {
			return nil, errors.NewDatabaseQueryFailedError(err)
		}
	}

	return &record, nil
}

// ClaimPending moves a record from pending to processing. It reports false
// without error when the record is absent or already claimed; the status
// column is the lease.
func (r *GenerationRepo) ClaimPending(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE generation_records
		 SET status = $2, version = version + 1, updated_at = $3
		 WHERE id = $1 AND status = $4`,
		id, models.StatusProcessing, time.Now().UTC(), models.StatusPending,
	)
	if err != nil {
		return false, errors.NewDatabaseWriteFailedError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewDatabaseWriteFailedError(err)
	}
	return affected == 1, nil
}

func (r *GenerationRepo) MarkCompleted(ctx context.Context, id string, program *models.TrainingProgram, warnings []models.ValidationIssue) error {
	programJSON, err := json.Marshal(program)
	if err != nil {
		return errors.NewDatabaseWriteFailedError(err)
	}
	var warningsJSON []byte
	if len(warnings) > 0 {
		if warningsJSON, err = json.Marshal(warnings); err != nil {
			return errors.NewDatabaseWriteFailedError(err)
		}
	}

	return r.transition(ctx, id, models.StatusCompleted,
		`UPDATE generation_records
		 SET status = $2, program = $3, warnings = $4, version = version + 1, updated_at = $5
		 WHERE id = $1 AND status = $6`,
		id, models.StatusCompleted, programJSON, nullableJSON(warningsJSON), time.Now().UTC(), models.StatusProcessing,
	)
}

func (r *GenerationRepo) MarkFailed(ctx context.Context, id string, recordErr *models.RecordError) error {
	errJSON, err := json.Marshal(recordErr)
	if err != nil {
		return errors.NewDatabaseWriteFailedError(err)
	}

	return r.transition(ctx, id, models.StatusFailed,
		`UPDATE generation_records
		 SET status = $2, error = $3, version = version + 1, updated_at = $4
		 WHERE id = $1 AND status = $5`,
		id, models.StatusFailed, errJSON, time.Now().UTC(), models.StatusProcessing,
	)
}

// transition runs a conditional status update and converts a zero-row result
// into a conflict. A terminal write only succeeds against a processing record.
func (r *GenerationRepo) transition(ctx context.Context, id string, target models.GenerationStatus, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.NewDatabaseWriteFailedError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseWriteFailedError(err)
	}
	if affected == 0 {
		r.logger.Warn("status transition rejected", map[string]interface{}{
			"programId": id,
			"target":    string(target),
		})
		return errors.NewRecordConflictError(id, target)
	}
	return nil
}

// nullableJSON maps an empty payload to SQL NULL.
func nullableJSON(b []byte) interface{} {
	if len(b) == 0 {
		return nil
	}
	return b
}
