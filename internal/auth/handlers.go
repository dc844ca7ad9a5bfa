package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContactDirectory is the contact lookup the login endpoint needs
type ContactDirectory interface {
	// LookupByEmail returns the contact id and display name for an email.
	LookupByEmail(email string) (id string, name string, err error)
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service  *AuthService
	contacts ContactDirectory
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(service *AuthService, contacts ContactDirectory) *AuthHandler {
	return &AuthHandler{service: service, contacts: contacts}
}

// LoginRequest represents the dev login request
type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
	Admin bool   `json:"admin"`
}

// SessionResponse represents an issued session
type SessionResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	CSRFToken   string `json:"csrfToken"`
}

// ValidateResponse represents the response from the token validation endpoint
type ValidateResponse struct {
	Valid  bool           `json:"valid" example:"true"`
	Claims *SessionClaims `json:"claims"`
}

// Login handles POST /api/auth/login
// @Summary Issue a session for a known contact
// @Description Issue a session token and CSRF token for a contact looked up by email. Development convenience; production sessions come from the identity provider in front of this service.
// @Tags authentication
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login data"
// @Success 200 {object} SessionResponse "Session issued"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "No contact with this email"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contactID, name, err := h.contacts.LookupByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No contact with this email"})
		return
	}

	token, err := h.service.IssueSession(contactID, req.Email, name, req.Admin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue session"})
		return
	}

	csrfToken, err := h.service.IssueCSRFToken(contactID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue CSRF token"})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		CSRFToken:   csrfToken,
	})
}

// CSRF handles GET /api/auth/csrf
// @Summary Issue a CSRF token for the current session
// @Description Issue a fresh CSRF token bound to the authenticated session, for use in the X-CSRF-Token header on mutating calls
// @Tags authentication
// @Produce json
// @Success 200 {object} map[string]interface{} "CSRF token issued"
// @Failure 401 {object} map[string]interface{} "Authentication required"
// @Security BearerAuth
// @Router /api/auth/csrf [get]
func (h *AuthHandler) CSRF(c *gin.Context) {
	claims, ok := GetSessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	token, err := h.service.IssueCSRFToken(claims.Subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue CSRF token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"csrfToken": token})
}

// ValidateToken handles POST /api/auth/validate
// @Summary Validate a session token
// @Description Validate a session token and return its claims
// @Tags authentication
// @Accept json
// @Produce json
// @Param body body map[string]string true "Token to validate"
// @Success 200 {object} ValidateResponse "Token is valid"
// @Failure 401 {object} ValidateResponse "Token is invalid"
// @Router /api/auth/validate [post]
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := h.service.ValidateSession(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ValidateResponse{Valid: false})
		return
	}

	c.JSON(http.StatusOK, ValidateResponse{Valid: true, Claims: claims})
}

// Logout handles POST /api/auth/logout
// @Summary Log out
// @Description Revoke the session's CSRF tokens. The session token itself is stateless and expires on its own; clients drop it.
// @Tags authentication
// @Produce json
// @Success 200 {object} map[string]interface{} "Logged out"
// @Security BearerAuth
// @Router /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims, ok := GetSessionClaims(c); ok {
		h.service.RevokeCSRFTokens(claims.Subject)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
