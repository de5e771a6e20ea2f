package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"montapulse/internal/application"
	"montapulse/internal/infrastructure/auth"
)

// AuthHandler serves sign-in and session resolution.
type AuthHandler struct {
	dashboard *application.Dashboard
	client    *auth.Client
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(dashboard *application.Dashboard, client *auth.Client) *AuthHandler {
	return &AuthHandler{dashboard: dashboard, client: client}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// SignIn POST /api/auth/signin - authenticates with email and password, then
// syncs the profile with the role security rule applied.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	user, token, err := h.client.SignInWithPassword(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Sign-in failed: " + err.Error(),
		})
		return
	}

	profile, err := h.dashboard.SyncProfile(c.Request.Context(), user, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to sync profile: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile, "idToken": token})
}

// SignUp POST /api/auth/signup - registers a new account.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	user, token, err := h.client.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Sign-up failed: " + err.Error(),
		})
		return
	}

	profile, err := h.dashboard.SyncProfile(c.Request.Context(), user, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to sync profile: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"profile": profile, "idToken": token})
}

type sessionRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// Session POST /api/auth/session - resolves a session token and syncs the
// profile. An unknown token clears the session.
func (h *AuthHandler) Session(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format: " + err.Error(),
		})
		return
	}

	user, err := h.client.Lookup(c.Request.Context(), req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "Session lookup failed: " + err.Error(),
		})
		return
	}

	profile, err := h.dashboard.SyncProfile(c.Request.Context(), user, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to sync profile: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// SignOut POST /api/auth/signout - clears the active session.
func (h *AuthHandler) SignOut(c *gin.Context) {
	if _, err := h.dashboard.SyncProfile(c.Request.Context(), nil, ""); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to clear session: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}
