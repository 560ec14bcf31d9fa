package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/gildedline/atelier/internal/domain/errors"
	"github.com/gildedline/atelier/internal/domain/model"
	"github.com/gildedline/atelier/internal/server/http/dto"
	"github.com/gildedline/atelier/internal/server/http/middleware"
)

// Machine-readable codes of the error envelope.
const (
	codeAuthenticationRequired  = "AuthenticationRequired"
	codeInsufficientPermissions = "InsufficientPermissions"
	codeAccessDenied            = "AccessDenied"
	codeNotFound                = "NotFound"
	codeQuoteConflict           = "QuoteAlreadyAccepted"
	codeInvalidCredentials      = "InvalidCredentials"
	codeLoginTaken              = "LoginAlreadyTaken"
	codeInvalidRequestBody      = "InvalidRequestBody"
	codeServerError             = "ServerError"
)

// CurrentIdentity extracts the authenticated caller from context.
func CurrentIdentity(c *gin.Context) model.Identity {
	val, ok := c.Get(middleware.IdentityContextKey)
	if !ok {
		return model.Identity{}
	}
	identity, _ := val.(model.Identity)
	return identity
}

// respondError translates a domain error into the error envelope.
// Unrecognized errors are logged and cross the boundary as an opaque 500.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	if v, ok := domainErrors.AsValidation(err); ok {
		resp := dto.Error(v.Code, "Validation failed")
		for _, f := range v.Fields {
			resp.Errors = append(resp.Errors, dto.FieldError{Field: f.Field, Message: f.Message})
		}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Error(codeNotFound, "Custom design request not found"))
	case errors.Is(err, domainErrors.ErrAccessDenied):
		c.JSON(http.StatusForbidden, dto.Error(codeAccessDenied, "Access denied"))
	case errors.Is(err, domainErrors.ErrInsufficientPermissions):
		c.JSON(http.StatusForbidden, dto.Error(codeInsufficientPermissions, "Insufficient permissions"))
	case errors.Is(err, domainErrors.ErrQuoteAlreadyAccepted):
		c.JSON(http.StatusConflict, dto.Error(codeQuoteConflict, "Another quote is already accepted"))
	default:
		logger.Error("request failed",
			slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Error(codeServerError, "Internal server error"))
	}
}
