package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/constants"
	"github.com/yukikurage/task-tracker/internal/dto"
	apierrors "github.com/yukikurage/task-tracker/internal/errors"
	"github.com/yukikurage/task-tracker/internal/logger"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/services"
	"github.com/yukikurage/task-tracker/internal/validation"
)

// AuthHandler serves signup, login, logout and the current user
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup registers a new user. It does not log the user in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, validation.FromBinding(err))
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), services.SignupInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	logger.FromContext(c).WithField("user_id", user.ID).Info("user signed up")
	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login checks the credentials and stores the user id in the session
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, validation.FromBinding(err))
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		logger.FromContext(c).WithError(err).Error("failed to save session")
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	logger.FromContext(c).WithField("user_id", user.ID).Info("user logged in")
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout clears the session
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		logger.FromContext(c).WithError(err).Error("failed to clear session")
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetCurrentUser returns the session's user
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if errors.Is(err, services.ErrUserNotFound) {
		// The session outlived its user
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		fieldErrors := validation.FieldErrors{}
		fieldErrors.Add("password", fmt.Sprintf("The password must be at least %d characters.", constants.MinPasswordLength))
		apierrors.ValidationFailed(c, fieldErrors)
	case errors.Is(err, services.ErrUsernameRequired):
		fieldErrors := validation.FieldErrors{}
		fieldErrors.Add("username", "The username field is required.")
		apierrors.ValidationFailed(c, fieldErrors)
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "The username has already been taken.")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, "Invalid username or password.")
	default:
		logger.FromContext(c).WithError(err).Error("auth request failed")
		apierrors.InternalError(c, "")
	}
}
