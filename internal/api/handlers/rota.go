package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"volunteer-rota-backend/internal/auth"
	"volunteer-rota-backend/internal/service"

	apperrors "volunteer-rota-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RotaHandler handles HTTP requests for rotas and their assignments
type RotaHandler struct {
	rotaService       *service.RotaService
	assignmentService *service.AssignmentService
}

// NewRotaHandler creates a new rota handler
func NewRotaHandler(rotaService *service.RotaService, assignmentService *service.AssignmentService) *RotaHandler {
	return &RotaHandler{
		rotaService:       rotaService,
		assignmentService: assignmentService,
	}
}

// CreateRota creates a new rota
// @Summary Create a new rota
// @Description Create a capacity-limited role on an event. Omitting
// @Description occurrence_id creates a template rota applying to every
// @Description occurrence; setting it pins the rota to a single date.
// @Tags rotas
// @Accept json
// @Produce json
// @Param rota body service.CreateRotaRequest true "Rota data"
// @Success 201 {object} service.RotaResponse "Successfully created rota"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "Event not found"
// @Security BearerAuth
// @Router /rotas [post]
func (h *RotaHandler) CreateRota(c *gin.Context) {
	var req service.CreateRotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The creating contact administers the rota unless an owner was named.
	if req.OwnerContactID == nil {
		if contactID, ok := auth.GetContactID(c); ok {
			if parsed, err := uuid.Parse(contactID); err == nil {
				req.OwnerContactID = &parsed
			}
		}
	}

	rota, err := h.rotaService.Create(&req)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rota)
}

// CreateFromTemplate creates one rota per template role
// @Summary Create rotas from a team template
// @Description Create one template rota per named role of a team scheduler template
// @Tags rotas
// @Accept json
// @Produce json
// @Param template body service.CreateFromTemplateRequest true "Template data"
// @Success 201 {array} service.RotaResponse "Successfully created rotas"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "Event not found"
// @Security BearerAuth
// @Router /rotas/from-template [post]
func (h *RotaHandler) CreateFromTemplate(c *gin.Context) {
	var req service.CreateFromTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rotas, err := h.rotaService.CreateFromTemplate(&req)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, rotas)
}

// GetRota retrieves a rota by ID
// @Summary Get rota by ID
// @Description Get a specific rota by its UUID, including its share token
// @Tags rotas
// @Accept json
// @Produce json
// @Param id path string true "Rota ID (UUID)"
// @Success 200 {object} service.RotaResponse "Successfully retrieved rota"
// @Failure 400 {object} map[string]interface{} "Invalid rota ID"
// @Failure 404 {object} map[string]interface{} "Rota not found"
// @Security BearerAuth
// @Router /rotas/{id} [get]
func (h *RotaHandler) GetRota(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rota ID"})
		return
	}

	rota, err := h.rotaService.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rota not found"})
		return
	}

	c.JSON(http.StatusOK, rota)
}

// ListByEvent retrieves the rotas of an event
// @Summary List rotas by event
// @Description Get all rotas attached to an event
// @Tags rotas
// @Accept json
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {array} service.RotaResponse "Successfully retrieved rotas"
// @Failure 400 {object} map[string]interface{} "Invalid event ID"
// @Security BearerAuth
// @Router /events/{id}/rotas [get]
func (h *RotaHandler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	rotas, err := h.rotaService.GetByEvent(eventID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list rotas"})
		return
	}

	c.JSON(http.StatusOK, rotas)
}

// AddAssignees adds candidates to a rota for one occurrence
// @Summary Add assignees to a rota
// @Description Add one or more people to the rota for a single occurrence.
// @Description Full slots and duplicates are counted in the result rather
// @Description than failing the whole request. This admin path deliberately
// @Description skips the cross-rota clash check.
// @Tags rotas
// @Accept json
// @Produce json
// @Param id path string true "Rota ID (UUID)"
// @Param assignees body service.AddAssigneesRequest true "Candidates and target occurrence"
// @Success 200 {object} service.AddResult "Outcome counts"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "Rota or occurrence not found"
// @Security BearerAuth
// @Router /rotas/{id}/assignees [post]
func (h *RotaHandler) AddAssignees(c *gin.Context) {
	rotaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rota ID"})
		return
	}

	var req service.AddAssigneesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.assignmentService.AddAssignees(rotaID, &req)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// RemoveAssignee removes one assignee slot by position
// @Summary Remove an assignee
// @Description Remove the assignee at the given position in the rota's stored order
// @Tags rotas
// @Accept json
// @Produce json
// @Param id path string true "Rota ID (UUID)"
// @Param index path int true "Assignee position (zero-based)"
// @Success 204 "Successfully removed assignee"
// @Failure 400 {object} map[string]interface{} "Invalid rota ID or index"
// @Failure 404 {object} map[string]interface{} "Rota or assignee not found"
// @Security BearerAuth
// @Router /rotas/{id}/assignees/{index} [delete]
func (h *RotaHandler) RemoveAssignee(c *gin.Context) {
	rotaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rota ID"})
		return
	}

	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee index"})
		return
	}

	if err := h.assignmentService.RemoveAssignee(rotaID, index); err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// BulkAssign assigns a candidate list to every occurrence matching a pattern
// @Summary Bulk assign by recurring date pattern
// @Description Assign the given people to every future occurrence matching a
// @Description day-of-month or day-of-week pattern, up to the end date. The
// @Description call is best-effort per occurrence; full and duplicate slots
// @Description are counted, not errors.
// @Tags rotas
// @Accept json
// @Produce json
// @Param id path string true "Rota ID (UUID)"
// @Param pattern body service.BulkAssignRequest true "Pattern, frequency, end date and candidates"
// @Success 200 {object} service.BulkAssignResult "Outcome counts"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "Rota not found"
// @Failure 422 {object} map[string]interface{} "No occurrences match the pattern"
// @Security BearerAuth
// @Router /rotas/{id}/bulk-assign [post]
func (h *RotaHandler) BulkAssign(c *gin.Context) {
	rotaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rota ID"})
		return
	}

	var req service.BulkAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.assignmentService.BulkAssignByPattern(rotaID, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoMatchingOccurrences):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case apperrors.IsNotFound(err):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeleteRota deletes a rota
// @Summary Delete a rota
// @Description Delete a rota and its assignee array
// @Tags rotas
// @Accept json
// @Produce json
// @Param id path string true "Rota ID (UUID)"
// @Success 204 "Successfully deleted rota"
// @Failure 400 {object} map[string]interface{} "Invalid rota ID"
// @Failure 404 {object} map[string]interface{} "Rota not found"
// @Security BearerAuth
// @Router /rotas/{id} [delete]
func (h *RotaHandler) DeleteRota(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rota ID"})
		return
	}

	if err := h.rotaService.Delete(id); err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Rota not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete rota"})
		return
	}

	c.Status(http.StatusNoContent)
}
