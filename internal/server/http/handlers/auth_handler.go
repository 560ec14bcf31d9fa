package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/gildedline/atelier/internal/domain/errors"
	"github.com/gildedline/atelier/internal/server/http/dto"
	"github.com/gildedline/atelier/internal/server/http/middleware"
)

// AuthHandler processes registration and login.
type AuthHandler struct {
	facade AuthFacade
	logger *slog.Logger
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{facade: facade, logger: logger}
}

// Register handles POST /api/user/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(codeInvalidRequestBody, "Invalid request body"))
		return
	}

	token, err := h.facade.Register(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, dto.Error(codeInvalidCredentials, "Login and password are required"))
		case errors.Is(err, domainErrors.ErrAlreadyExists):
			c.JSON(http.StatusConflict, dto.Error(codeLoginTaken, "Login is already taken"))
		default:
			h.logger.Error("registration failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Error(codeServerError, "Internal server error"))
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.Success("Registered successfully", gin.H{"token": token}))
}

// Login handles POST /api/user/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.Error(codeInvalidRequestBody, "Invalid request body"))
		return
	}

	token, err := h.facade.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, dto.Error(codeInvalidCredentials, "Invalid login or password"))
		default:
			h.logger.Error("login failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Error(codeServerError, "Internal server error"))
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.Success("Logged in successfully", gin.H{"token": token}))
}
