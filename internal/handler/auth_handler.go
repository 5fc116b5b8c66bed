package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/habit-tracker/internal/domain"
	"github.com/prperemyshlev/habit-tracker/internal/dto"
	"github.com/prperemyshlev/habit-tracker/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
	transport   SessionTransport
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, transport SessionTransport) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		transport:   transport,
	}
}

// GoogleLogin exchanges a Google ID token for a session cookie
// @Summary Sign in with Google
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.GoogleCredentialRequest true "Google credential"
// @Success 200 {object} dto.UserEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/google [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req dto.GoogleCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, err)
		return
	}

	result, err := h.authService.LoginWithGoogle(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	h.transport.Attach(c.Writer, result.Token)

	c.JSON(http.StatusOK, dto.UserEnvelope{User: result.User})
}

// Me returns the signed-in user, or null
// @Summary Get current user
// @Tags auth
// @Produce json
// @Success 200 {object} dto.UserEnvelope
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusOK, dto.UserEnvelope{})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), id.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusOK, dto.UserEnvelope{})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UserEnvelope{User: user})
}

// Logout clears the session cookie
// @Summary Sign out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.OKResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.transport.Clear(c.Writer)

	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}
