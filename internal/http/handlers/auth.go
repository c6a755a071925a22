package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/ngooning-backend/internal/http/response"
	"github.com/yungbote/ngooning-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Metadata map[string]any `json:"metadata"`
}

// POST /api/auth/signup
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password, req.Metadata)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// POST /api/auth/signin
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req credentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	sess, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// GET /api/auth/oauth/:provider
func (h *AuthHandler) OAuth(c *gin.Context) {
	url, err := h.authService.OAuthURL(c.Param("provider"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authService.ResetPassword(c.Request.Context(), req.Email); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// POST /api/auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.authService.SignOut(c.Request.Context()); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// PUT /api/auth/password
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.authService.UpdatePassword(c.Request.Context(), req.Password)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// PATCH /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var metadata map[string]any
	if !bindJSON(c, &metadata) {
		return
	}
	u, err := h.authService.UpdateProfile(c.Request.Context(), metadata)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}
