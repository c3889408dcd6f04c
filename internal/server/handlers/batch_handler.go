package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/service/batches"
)

// BatchHandler exposes the batch lifecycle over HTTP.
type BatchHandler struct {
	svc    *batches.Service
	logger *zap.Logger
}

// NewBatchHandler constructs the batch HTTP adapter.
func NewBatchHandler(svc *batches.Service, logger *zap.Logger) *BatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchHandler{svc: svc, logger: logger}
}

// List returns all batches ordered by start date.
func (h *BatchHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create validates and stores a new batch together with its schedule.
func (h *BatchHandler) Create(c *gin.Context) {
	var in batches.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	batch, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, batch)
}

// Get returns one batch.
func (h *BatchHandler) Get(c *gin.Context) {
	batch, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

// Update replaces the editable fields of a batch.
func (h *BatchHandler) Update(c *gin.Context) {
	var in batches.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	batch, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, batch)
}

// Delete removes a batch with its tasks and candling results.
func (h *BatchHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Status returns the batch annotated with its phase, progress and statistics.
func (h *BatchHandler) Status(c *gin.Context) {
	view, err := h.svc.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type taskPatchRequest struct {
	Completed *bool   `json:"completed"`
	Notes     *string `json:"notes"`
}

// PatchTask toggles completion and/or edits the notes of one task.
func (h *BatchHandler) PatchTask(c *gin.Context) {
	var req taskPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Completed == nil && req.Notes == nil {
		badRequest(c, "completed or notes must be provided")
		return
	}

	ctx := c.Request.Context()
	batchID, taskID := c.Param("id"), c.Param("taskId")

	var (
		task models.Task
		err  error
	)
	if req.Completed != nil {
		task, err = h.svc.SetTaskCompleted(ctx, batchID, taskID, *req.Completed)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	if req.Notes != nil {
		task, err = h.svc.UpdateTaskNotes(ctx, batchID, taskID, *req.Notes)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	c.JSON(http.StatusOK, task)
}

type candlingRequest struct {
	Day     int    `json:"day" binding:"required"`
	Fertile *int   `json:"fertile" binding:"required"`
	Notes   string `json:"notes"`
}

// AddCandling records a candling result.
func (h *BatchHandler) AddCandling(c *gin.Context) {
	var req candlingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "day and fertile are required")
		return
	}

	result, err := h.svc.AddCandlingResult(c.Request.Context(), c.Param("id"), req.Day, *req.Fertile, req.Notes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// DeleteCandling removes a candling result.
func (h *BatchHandler) DeleteCandling(c *gin.Context) {
	if err := h.svc.DeleteCandlingResult(c.Request.Context(), c.Param("id"), c.Param("resultId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type hatchedRequest struct {
	Count *int `json:"count" binding:"required"`
}

// SetHatched records the number of hatched eggs.
func (h *BatchHandler) SetHatched(c *gin.Context) {
	var req hatchedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "count is required")
		return
	}

	if err := h.svc.SetHatchedEggs(c.Request.Context(), c.Param("id"), *req.Count); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hatchedEggs": *req.Count})
}
