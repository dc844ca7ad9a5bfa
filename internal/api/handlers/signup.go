package handlers

import (
	"net/http"

	"volunteer-rota-backend/internal/auth"
	"volunteer-rota-backend/internal/service"

	apperrors "volunteer-rota-backend/internal/errors"

	"github.com/gin-gonic/gin"
)

// SignupHandler handles token-gated public signup pages and member
// self-service signup. Public routes never expose rota or event ids beyond
// the occurrence choices the visitor picks from.
type SignupHandler struct {
	rotaService   *service.RotaService
	signupService *service.SignupService
}

// NewSignupHandler creates a new signup handler
func NewSignupHandler(rotaService *service.RotaService, signupService *service.SignupService) *SignupHandler {
	return &SignupHandler{
		rotaService:   rotaService,
		signupService: signupService,
	}
}

// GetSignupPage resolves a share token into its public signup view
// @Summary Get public signup page
// @Description Resolve a share token into the rota's role, event title and
// @Description selectable occurrences
// @Tags signup
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} service.PublicRotaResponse "Signup page data"
// @Failure 404 {object} map[string]interface{} "Unknown share token"
// @Router /public/signup/{token} [get]
func (h *SignupHandler) GetSignupPage(c *gin.Context) {
	page, err := h.rotaService.ResolveShareToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Signup page not found"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// PublicRotaSignup signs a visitor up for rota slots via a share token
// @Summary Sign up for a rota
// @Description Sign an existing contact (and optionally their spouse) up for
// @Description one or more occurrences. All requested slots are taken
// @Description together or not at all. Requires a pre-existing account for
// @Description the given email address.
// @Tags signup
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Param signup body service.RotaSignupRequest true "Signup data"
// @Success 201 {object} service.SignupResponse "Slots taken"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "Unknown share token"
// @Failure 409 {object} map[string]interface{} "Slot full or already taken"
// @Failure 422 {object} map[string]interface{} "Signup rejected"
// @Failure 429 {object} map[string]interface{} "Too many attempts"
// @Router /public/signup/{token} [post]
func (h *SignupHandler) PublicRotaSignup(c *gin.Context) {
	var req service.RotaSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.SourceKey = c.ClientIP()

	result, err := h.signupService.RotaSignup(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		writeSignupError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// PublicGuestSignup records an open attendance signup via a share token
// @Summary Sign up to attend
// @Description Record attendance for one occurrence. Visitors without an
// @Description account are recorded as guests; an existing account with the
// @Description same email is linked instead.
// @Tags signup
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Param signup body service.GuestSignupRequest true "Attendance data"
// @Success 201 {object} service.SignupResponse "Slot taken"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "Unknown share token"
// @Failure 409 {object} map[string]interface{} "Slot full or already taken"
// @Failure 429 {object} map[string]interface{} "Too many attempts"
// @Router /public/signup/{token}/attend [post]
func (h *SignupHandler) PublicGuestSignup(c *gin.Context) {
	var req service.GuestSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.SourceKey = c.ClientIP()

	result, err := h.signupService.GuestSignup(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		writeSignupError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// MemberRotaSignup signs the authenticated member up for rota slots
// @Summary Member self-service signup
// @Description Sign the logged-in member up for one or more occurrences. The
// @Description identity comes from the session, so the route is exempt from
// @Description rate limiting.
// @Tags signup
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Param signup body service.RotaSignupRequest true "Signup data"
// @Success 201 {object} service.SignupResponse "Slots taken"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 401 {object} map[string]interface{} "Not authenticated"
// @Failure 404 {object} map[string]interface{} "Unknown share token"
// @Failure 409 {object} map[string]interface{} "Slot full or already taken"
// @Failure 422 {object} map[string]interface{} "Signup rejected"
// @Security BearerAuth
// @Router /rotas/signup/{token} [post]
func (h *SignupHandler) MemberRotaSignup(c *gin.Context) {
	var req service.RotaSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The session identity wins over whatever the body claims.
	if email, ok := auth.GetUserEmail(c); ok {
		req.Email = email
	}
	req.SourceKey = ""

	result, err := h.signupService.RotaSignup(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		writeSignupError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// writeSignupError maps signup failures onto HTTP statuses. Transient
// rejections get 429, business rejections 422, capacity and clash conflicts
// 409.
func writeSignupError(c *gin.Context, err error) {
	switch {
	case apperrors.IsRetryable(err):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case apperrors.IsSignup(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case apperrors.IsCapacity(err) || apperrors.IsClash(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
