package handlers

import (
	"net/http"
	"strconv"

	"volunteer-rota-backend/internal/service"

	apperrors "volunteer-rota-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContactHandler handles HTTP requests for contacts and their leave periods
type ContactHandler struct {
	contactService *service.ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// CreateContact creates a new contact
// @Summary Create a new contact
// @Description Create a contact. When spouse_id is given the link is written in both directions.
// @Tags contacts
// @Accept json
// @Produce json
// @Param contact body service.CreateContactRequest true "Contact data"
// @Success 201 {object} models.Contact "Successfully created contact"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "Spouse contact not found"
// @Security BearerAuth
// @Router /contacts [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contact, err := h.contactService.Create(&req)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Spouse contact not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, contact)
}

// GetContact retrieves a contact by ID
// @Summary Get contact by ID
// @Description Get a specific contact by their UUID
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID (UUID)"
// @Success 200 {object} models.Contact "Successfully retrieved contact"
// @Failure 400 {object} map[string]interface{} "Invalid contact ID"
// @Failure 404 {object} map[string]interface{} "Contact not found"
// @Security BearerAuth
// @Router /contacts/{id} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	contact, err := h.contactService.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
		return
	}

	c.JSON(http.StatusOK, contact)
}

// ListContacts retrieves contacts with pagination
// @Summary List contacts
// @Description Get all contacts with optional pagination
// @Tags contacts
// @Accept json
// @Produce json
// @Param limit query int false "Maximum number of results" default(50)
// @Param offset query int false "Number of results to skip" default(0)
// @Success 200 {object} map[string]interface{} "Contacts with total count"
// @Security BearerAuth
// @Router /contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	contacts, total, err := h.contactService.GetAll(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts": contacts,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// AddLeavePeriod records a leave period for a contact
// @Summary Record a leave period
// @Description Record an inclusive date range during which the contact must not be signed up
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID (UUID)"
// @Param leave body service.CreateLeavePeriodRequest true "Leave period data"
// @Success 201 {object} models.LeavePeriod "Successfully recorded leave period"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "Contact not found"
// @Security BearerAuth
// @Router /contacts/{id}/leave [post]
func (h *ContactHandler) AddLeavePeriod(c *gin.Context) {
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	var req service.CreateLeavePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ContactID = contactID

	leave, err := h.contactService.AddLeavePeriod(&req)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, leave)
}

// ListLeavePeriods retrieves a contact's leave periods
// @Summary List leave periods
// @Description Get all recorded leave periods for a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID (UUID)"
// @Success 200 {array} models.LeavePeriod "Successfully retrieved leave periods"
// @Failure 400 {object} map[string]interface{} "Invalid contact ID"
// @Failure 404 {object} map[string]interface{} "Contact not found"
// @Security BearerAuth
// @Router /contacts/{id}/leave [get]
func (h *ContactHandler) ListLeavePeriods(c *gin.Context) {
	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	periods, err := h.contactService.GetLeavePeriods(contactID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list leave periods"})
		return
	}

	c.JSON(http.StatusOK, periods)
}

// RemoveLeavePeriod deletes a leave period
// @Summary Delete a leave period
// @Description Delete a recorded leave period by its id
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID (UUID)"
// @Param leaveId path string true "Leave period ID (UUID)"
// @Success 204 "Successfully deleted leave period"
// @Failure 400 {object} map[string]interface{} "Invalid leave period ID"
// @Security BearerAuth
// @Router /contacts/{id}/leave/{leaveId} [delete]
func (h *ContactHandler) RemoveLeavePeriod(c *gin.Context) {
	leaveID, err := uuid.Parse(c.Param("leaveId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid leave period ID"})
		return
	}

	if err := h.contactService.RemoveLeavePeriod(leaveID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete leave period"})
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteContact deletes a contact
// @Summary Delete a contact
// @Description Delete a contact; their leave periods cascade
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path string true "Contact ID (UUID)"
// @Success 204 "Successfully deleted contact"
// @Failure 400 {object} map[string]interface{} "Invalid contact ID"
// @Failure 404 {object} map[string]interface{} "Contact not found"
// @Security BearerAuth
// @Router /contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact ID"})
		return
	}

	if err := h.contactService.Delete(id); err != nil {
		if apperrors.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}

	c.Status(http.StatusNoContent)
}
