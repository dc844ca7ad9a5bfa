package handlers

import (
	"net/http"

	"volunteer-rota-backend/internal/service"

	apperrors "volunteer-rota-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OccurrenceHandler handles HTTP requests for event occurrences
type OccurrenceHandler struct {
	occurrenceService *service.OccurrenceService
}

// NewOccurrenceHandler creates a new occurrence handler
func NewOccurrenceHandler(occurrenceService *service.OccurrenceService) *OccurrenceHandler {
	return &OccurrenceHandler{occurrenceService: occurrenceService}
}

// CreateOccurrence creates an occurrence by manual entry
// @Summary Create an occurrence
// @Description Add a single dated occurrence to an event. max_spaces, when set,
// @Description overrides the attendance capacity for that date only.
// @Tags occurrences
// @Accept json
// @Produce json
// @Param occurrence body service.CreateOccurrenceRequest true "Occurrence data"
// @Success 201 {object} models.Occurrence "Successfully created occurrence"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "Event not found"
// @Security BearerAuth
// @Router /occurrences [post]
func (h *OccurrenceHandler) CreateOccurrence(c *gin.Context) {
	var req service.CreateOccurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	occurrence, err := h.occurrenceService.Create(&req)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, occurrence)
}

// ListByEvent retrieves the occurrences of an event
// @Summary List occurrences by event
// @Description Get all occurrences of an event ordered by start time
// @Tags occurrences
// @Accept json
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {array} models.Occurrence "Successfully retrieved occurrences"
// @Failure 400 {object} map[string]interface{} "Invalid event ID"
// @Security BearerAuth
// @Router /events/{id}/occurrences [get]
func (h *OccurrenceHandler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	occurrences, err := h.occurrenceService.GetByEvent(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list occurrences"})
		return
	}

	c.JSON(http.StatusOK, occurrences)
}

// GenerateOccurrences expands an event's recurrence rule over a date window
// @Summary Generate occurrences from a recurrence rule
// @Description Expand the event's RRULE between from and until into concrete
// @Description occurrences. Dates that already exist are skipped; an omitted
// @Description until defaults to the configured horizon.
// @Tags occurrences
// @Accept json
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Param window body service.GenerateRequest true "Generation window"
// @Success 201 {array} models.Occurrence "Newly created occurrences"
// @Failure 400 {object} map[string]interface{} "Invalid request or recurrence rule"
// @Failure 404 {object} map[string]interface{} "Event not found"
// @Security BearerAuth
// @Router /events/{id}/occurrences/generate [post]
func (h *OccurrenceHandler) GenerateOccurrences(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req service.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	occurrences, err := h.occurrenceService.GenerateFromRule(eventID, req.From, req.Until, req.Duration())
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, occurrences)
}

// DeleteOccurrence deletes an occurrence
// @Summary Delete an occurrence
// @Description Delete a single occurrence; rota entries pointing at it are reported by the integrity audit
// @Tags occurrences
// @Accept json
// @Produce json
// @Param id path string true "Occurrence ID (UUID)"
// @Success 204 "Successfully deleted occurrence"
// @Failure 400 {object} map[string]interface{} "Invalid occurrence ID"
// @Failure 404 {object} map[string]interface{} "Occurrence not found"
// @Security BearerAuth
// @Router /occurrences/{id} [delete]
func (h *OccurrenceHandler) DeleteOccurrence(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid occurrence ID"})
		return
	}

	if err := h.occurrenceService.Delete(id); err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Occurrence not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete occurrence"})
		return
	}

	c.Status(http.StatusNoContent)
}
