package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duorhuang/aquaflow-pro/internal/domain"
	"github.com/duorhuang/aquaflow-pro/internal/service"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService    service.AuthService
	athleteService service.AthleteService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, athleteService service.AthleteService) *AuthHandler {
	return &AuthHandler{authService: authService, athleteService: athleteService}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  *service.Principal `json:"user"`
}

// Login godoc
// @Summary Log in as the coach or an athlete
// @Description Authenticates a user and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, principal, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else {
			respondError(c, err, nil)
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Token: token, User: principal})
}

// Me returns the caller's identity, and their swimmer profile for athletes.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user role from token")
		return
	}

	resp := gin.H{"userId": userID, "role": role}
	if role == domain.RoleAthlete {
		sw, err := h.athleteService.GetSwimmer(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err, nil)
			return
		}
		resp["swimmer"] = sw
	}
	c.JSON(http.StatusOK, resp)
}
