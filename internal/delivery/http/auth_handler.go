package http

import (
	"log"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"papertrader/configs"
	"papertrader/internal/delivery/http/dto"
	"papertrader/internal/middleware"
)

// AuthHandler authenticates the operator against the env-configured
// credential and mints session tokens
type AuthHandler struct {
	cfg configs.AuthConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(cfg configs.AuthConfig) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request body")
	}

	if req.Username == "" || req.Password == "" {
		return BadRequestResponse(c, "Username and password are required")
	}

	if h.cfg.AdminPasswordHash == "" {
		log.Println("[WARN] Login attempted but ADMIN_PASSWORD_HASH is not configured")
		return UnauthorizedResponse(c, "Login is not configured")
	}

	if req.Username != h.cfg.AdminUsername {
		return UnauthorizedResponse(c, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.cfg.AdminPasswordHash), []byte(req.Password)); err != nil {
		return UnauthorizedResponse(c, "Invalid credentials")
	}

	token, err := middleware.GenerateJWT(req.Username, "ADMIN")
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to generate token", err)
	}

	return SuccessResponse(c, map[string]string{"token": token})
}
