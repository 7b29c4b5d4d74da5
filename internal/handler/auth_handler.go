package handler

import (
	"errors"
	"net/http"

	"github.com/agyouthrise/rise-backend/internal/common"
	"github.com/agyouthrise/rise-backend/internal/domain"
	"github.com/agyouthrise/rise-backend/internal/middleware"
	"github.com/agyouthrise/rise-backend/internal/service"
	"github.com/agyouthrise/rise-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles admin sign-in
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /api/v1/auth/login
// @Summary 관리자 로그인
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} common.APIResponse{data=domain.LoginResponse}
// @Failure 400 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Failure 429 {object} common.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	response, err := h.service.Login(req.Email, req.Password)
	if errors.Is(err, common.ErrInvalidCredentials) {
		logger.GetLogger().Warn().Str("email", req.Email).Str("client_ip", c.ClientIP()).Msg("admin login rejected")
		common.ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password", err)
		return
	}
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Login failed", err)
		return
	}

	common.SuccessResponse(c, response, nil)
}

// Me handles GET /api/v1/auth/me
// @Summary 현재 관리자 정보
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} common.APIResponse{data=domain.AdminProfile}
// @Failure 401 {object} common.APIResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	profile := h.service.Profile(middleware.GetClaims(c))
	if profile == nil {
		common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", common.ErrUnauthorized)
		return
	}
	common.SuccessResponse(c, profile, nil)
}
