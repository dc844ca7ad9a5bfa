package handlers

import (
	"net/http"

	"volunteer-rota-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// AuditHandler handles HTTP requests for the rota integrity audit
type AuditHandler struct {
	auditService *service.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// Scan checks every rota's cross-entity references
// @Summary Run an integrity scan
// @Description Check every rota against the current events, occurrences and
// @Description contacts. The scan reports violations and never modifies data.
// @Tags audit
// @Accept json
// @Produce json
// @Success 200 {object} service.AuditReport "Scan report"
// @Failure 500 {object} map[string]interface{} "Scan could not read storage"
// @Security BearerAuth
// @Router /audit/scan [get]
func (h *AuditHandler) Scan(c *gin.Context) {
	report, err := h.auditService.Scan()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Audit scan failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}

// Repair applies the safe automatic fixes
// @Summary Run an integrity repair
// @Description Re-run the scan and apply the two safe fixes: assignees with
// @Description invalid references are filtered out and invalid owner
// @Description contacts are nulled. Everything else stays reported-only.
// @Tags audit
// @Accept json
// @Produce json
// @Success 200 {object} service.AuditReport "Repair report"
// @Failure 500 {object} map[string]interface{} "Repair could not read storage"
// @Security BearerAuth
// @Router /audit/repair [post]
func (h *AuditHandler) Repair(c *gin.Context) {
	report, err := h.auditService.Repair()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Audit repair failed"})
		return
	}

	c.JSON(http.StatusOK, report)
}
