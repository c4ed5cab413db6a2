package middleware

import (
	"errors"
	"net/http"
	"strings"

	"telvia/models"
	"telvia/services/token"
	"telvia/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextClaimsKey    = "claims"
	ContextTokenKey     = "sessionToken"
	ContextPartnerIDKey = "partnerID"
)

// sessionExpiredCode is matched by the frontend to converge every expiry
// signal on the single logout+redirect+toast path.
const sessionExpiredCode = "SESSION_EXPIRED"

// AuthMiddleware validates the bearer token against the session store and
// exposes the typed claims on the context. Expired tokens are distinguished
// from invalid ones so clients can show the session-expired toast.
func AuthMiddleware(store token.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		claims, err := utils.ParseClaims(tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				abortExpired(c)
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		stored, err := store.Get(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, token.ErrSessionExpired) {
				abortExpired(c)
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication error"})
			return
		}

		// The store's copy carries the billing mode captured at login; prefer
		// it over whatever the raw token says.
		merged := mergeClaims(claims, stored)

		c.Set(ContextClaimsKey, merged)
		c.Set(ContextTokenKey, tokenString)
		c.Set(ContextPartnerIDKey, merged.PartnerID)
		c.Next()
	}
}

func abortExpired(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "session expired",
		"code":  sessionExpiredCode,
	})
}

func mergeClaims(parsed, stored *models.TokenClaims) models.TokenClaims {
	merged := *parsed
	if stored.CustomerPrePaid != 0 {
		merged.CustomerPrePaid = stored.CustomerPrePaid
	}
	if len(stored.Roles) > 0 {
		merged.Roles = stored.Roles
	}
	if stored.Email != "" {
		merged.Email = stored.Email
	}
	return merged
}

// ClaimsFromContext retrieves the claims set by AuthMiddleware.
func ClaimsFromContext(c *gin.Context) (models.TokenClaims, bool) {
	v, ok := c.Get(ContextClaimsKey)
	if !ok {
		return models.TokenClaims{}, false
	}
	claims, ok := v.(models.TokenClaims)
	return claims, ok
}
