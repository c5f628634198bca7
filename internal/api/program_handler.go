// internal/api/program_handler.go

// Package api exposes the pipeline over HTTP: a trigger endpoint that starts
// generation and a poll endpoint that reports record state.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"program-pipeline/internal/common/errors"
	"program-pipeline/internal/common/logger"
	"program-pipeline/internal/common/validation"
	"program-pipeline/internal/generation"
	"program-pipeline/internal/models"
)

// ProgramCreator starts a generation and acknowledges synchronously.
type ProgramCreator interface {
	CreateProgram(ctx context.Context, userID string, profile models.OnboardingProfile) (*generation.Ack, error)
}

// RecordReader fetches a generation record by id.
type RecordReader interface {
	GetByID(ctx context.Context, id string) (*models.GenerationRecord, error)
}

// RecordCache is the optional read-through cache for terminal records.
type RecordCache interface {
	Get(ctx context.Context, id string) *models.GenerationRecord
	Put(ctx context.Context, record *models.GenerationRecord)
}

// ProgramHandler wires the trigger and poll endpoints.
type ProgramHandler struct {
	creator  ProgramCreator
	records  RecordReader
	cache    RecordCache
	staleAge time.Duration
	logger   logger.Logger
}

// noopCache stands in when no cache is configured.
type noopCache struct{}

func (noopCache) Get(context.Context, string) *models.GenerationRecord { return nil }
func (noopCache) Put(context.Context, *models.GenerationRecord)        {}

func NewProgramHandler(creator ProgramCreator, records RecordReader, cache RecordCache, staleAge time.Duration, log logger.Logger) *ProgramHandler {
	if cache == nil {
		cache = noopCache{}
	}
	return &ProgramHandler{
		creator:  creator,
		records:  records,
		cache:    cache,
		staleAge: staleAge,
		logger:   log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// TriggerRequest carries the user id and the raw onboarding profile. The
// profile stays raw until it passes shape validation.
type TriggerRequest struct {
	UserID         string          `json:"userId" binding:"required"`
	OnboardingData json.RawMessage `json:"onboardingData" binding:"required"`
}

// ProgramResponse is the poll payload. Stale reports a processing record
// whose last update is older than the configured age; the caller decides
// whether to treat it as abandoned.
type ProgramResponse struct {
	ProgramID string                   `json:"programId"`
	Status    models.GenerationStatus  `json:"status"`
	Error     *models.RecordError      `json:"error,omitempty"`
	Program   *models.TrainingProgram  `json:"program,omitempty"`
	Warnings  []models.ValidationIssue `json:"warnings,omitempty"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
	Stale     bool                     `json:"stale,omitempty"`
}

// Trigger handles POST /api/v1/programs. It validates the profile shape,
// inserts a pending record, and returns its id without waiting on the model.
func (h *ProgramHandler) Trigger(c *gin.Context) {
	var req TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "userId and onboardingData are required")
		return
	}

	fieldErrors, err := validation.ValidateProfile(req.OnboardingData)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "onboardingData is not a valid profile document")
		return
	}
	if len(fieldErrors) > 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":            "onboarding profile failed validation",
			"validationErrors": fieldErrors,
		})
		return
	}

	var profile models.OnboardingProfile
	if err := json.Unmarshal(req.OnboardingData, &profile); err != nil {
		abortWithError(c, http.StatusBadRequest, "onboardingData is not a valid profile document")
		return
	}

	ack, err := h.creator.CreateProgram(c.Request.Context(), req.UserID, profile)
	if err != nil {
		stdErr := errors.Normalize(err)
		h.logger.WithError(err).Error("trigger failed", map[string]interface{}{
			"userId": req.UserID,
			"code":   string(stdErr.Code),
		})
		abortWithError(c, http.StatusInternalServerError, "could not start program generation")
		return
	}

	c.JSON(http.StatusAccepted, ack)
}

// GetProgram handles GET /api/v1/programs/:id.
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	id := c.Param("id")

	record := h.cache.Get(c.Request.Context(), id)
	if record == nil {
		var err error
		record, err = h.records.GetByID(c.Request.Context(), id)
		if err != nil {
			stdErr := errors.Normalize(err)
			if stdErr.Code == errors.ErrCodeRecordNotFound {
				abortWithError(c, http.StatusNotFound, "program not found")
				return
			}
			h.logger.WithError(err).Error("record fetch failed", map[string]interface{}{
				"programId": id,
			})
			abortWithError(c, http.StatusInternalServerError, "could not load program")
			return
		}
		h.cache.Put(c.Request.Context(), record)
	}

	c.JSON(http.StatusOK, h.toResponse(record))
}

func (h *ProgramHandler) toResponse(record *models.GenerationRecord) ProgramResponse {
	resp := ProgramResponse{
		ProgramID: record.ID,
		Status:    record.Status,
		Error:     record.Error,
		Program:   record.Program,
		Warnings:  record.Warnings,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	if record.Status == models.StatusProcessing && h.staleAge > 0 && time.Since(record.UpdatedAt) > h.staleAge {
		resp.Stale = true
	}
	return resp
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
