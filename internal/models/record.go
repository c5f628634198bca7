// internal/models/record.go
package models

import (
	"encoding/json"
	"time"
)

// GenerationStatus is the lifecycle state of a generation request. A record's
// status sequence is always a prefix of pending -> processing -> completed|failed
// and never regresses.
type GenerationStatus string

const (
	StatusPending    GenerationStatus = "pending"
	StatusProcessing GenerationStatus = "processing"
	StatusCompleted  GenerationStatus = "completed"
	StatusFailed     GenerationStatus = "failed"
)

// IsTerminal reports whether the status admits no further transitions.
func (s GenerationStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether moving to next preserves monotonicity.
func (s GenerationStatus) CanTransitionTo(next GenerationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	}
	return false
}

// RecordError is the sanitized error payload persisted on a failed record.
// Message is safe to show a caller; Code preserves the internal diagnostic
// classification. Raw provider errors never appear here.
type RecordError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// GenerationRecord is the single source of truth for one generation request.
// The orchestrator owns every write; Version backs the conditional updates
// that enforce a single writer per record.
type GenerationRecord struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Status    GenerationStatus  `json:"status"`
	Error     *RecordError      `json:"error,omitempty"`
	Program   *TrainingProgram  `json:"program,omitempty"`
	Warnings  []ValidationIssue `json:"warnings,omitempty"`
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ProgramJSON marshals the program content for persistence. Returns nil when
// no program is attached.
func (r *GenerationRecord) ProgramJSON() ([]byte, error) {
	if r.Program == nil {
		return nil, nil
	}
	return json.Marshal(r.Program)
}
