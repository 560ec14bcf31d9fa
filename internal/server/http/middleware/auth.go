package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gildedline/atelier/internal/domain/model"
	pkgAuth "github.com/gildedline/atelier/internal/pkg/auth"
	"github.com/gildedline/atelier/internal/server/http/dto"
)

const (
	// IdentityContextKey is a gin context key for the resolved caller identity.
	IdentityContextKey = "identity"
	authCookieName     = "atelier_token"
)

// IdentityResolver turns a bearer token into a caller identity with a
// freshly loaded role.
type IdentityResolver interface {
	ParseToken(token string) (int64, error)
	Identity(ctx context.Context, userID int64) (model.Identity, error)
}

// AuthRequired ensures the caller is authenticated before accessing handler.
func AuthRequired(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.Error("AuthenticationRequired", "Authentication required"))
			return
		}

		userID, err := resolver.ParseToken(token)
		if err != nil {
			if err == pkgAuth.ErrInvalidToken {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.Error("AuthenticationRequired", "Authentication required"))
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.Error("ServerError", "Internal server error"))
			return
		}

		identity, err := resolver.Identity(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.Error("AuthenticationRequired", "Authentication required"))
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
