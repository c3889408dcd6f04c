package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
	"github.com/mamadbah2/hatchery/internal/service/batches"
)

// SpeciesLister lists the supported species.
type SpeciesLister interface {
	List() []models.Species
}

// OverviewHandler serves the read-only cross-batch views.
type OverviewHandler struct {
	svc     *batches.Service
	species SpeciesLister
	logger  *zap.Logger
}

// NewOverviewHandler constructs the overview HTTP adapter.
func NewOverviewHandler(svc *batches.Service, species SpeciesLister, logger *zap.Logger) *OverviewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverviewHandler{svc: svc, species: species, logger: logger}
}

// Species lists the species table.
func (h *OverviewHandler) Species(c *gin.Context) {
	c.JSON(http.StatusOK, h.species.List())
}

// Tasks lists the tasks of one day, today when no date is given.
func (h *OverviewHandler) Tasks(c *gin.Context) {
	date := c.DefaultQuery("date", h.svc.Today())

	tasks, err := h.svc.TasksForDate(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	pending := 0
	for _, t := range tasks {
		if !t.Completed {
			pending++
		}
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "pending": pending, "tasks": tasks})
}

// Dashboard returns the active batches and today's tasks.
func (h *OverviewHandler) Dashboard(c *gin.Context) {
	dash, err := h.svc.Dashboard(c.Request.Context(), h.svc.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// History returns the batches whose hatch window has closed.
func (h *OverviewHandler) History(c *gin.Context) {
	views, err := h.svc.History(c.Request.Context(), h.svc.Now())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, views)
}
