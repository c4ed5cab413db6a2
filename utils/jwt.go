package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"telvia/config"
	"telvia/models"

	"github.com/golang-jwt/jwt"
)

// ErrTokenExpired marks a structurally valid token whose exp has passed.
var ErrTokenExpired = errors.New("token expired")

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		secret = "insecure-dev-secret"
	}
	return []byte(secret)
}

// GenerateToken creates a signed session token carrying the partner claims.
// The token expires after the specified duration.
func GenerateToken(claims models.TokenClaims, duration time.Duration) (string, error) {
	now := time.Now()
	mapClaims := jwt.MapClaims{
		"idPartner": claims.PartnerID,
		"iat":       now.Unix(),
		"exp":       now.Add(duration).Unix(),
	}
	if claims.CustomerPrePaid != 0 {
		mapClaims["customerPrePaid"] = claims.CustomerPrePaid
	}
	if len(claims.Roles) > 0 {
		mapClaims["roles"] = claims.Roles
	}
	if claims.Email != "" {
		mapClaims["email"] = claims.Email
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString(secretKey())
}

// ParseClaims validates a token string and extracts the typed claims.
// An expired token returns ErrTokenExpired so callers can route it to the
// session-expiry path instead of the generic auth failure.
func ParseClaims(tokenString string) (*models.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, err
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	partnerID, ok := mapClaims["idPartner"].(float64)
	if !ok || partnerID == 0 {
		return nil, errors.New("token does not contain a valid 'idPartner' claim")
	}
	exp, ok := mapClaims["exp"].(float64)
	if !ok {
		return nil, errors.New("token does not contain a valid 'exp' claim")
	}

	claims := &models.TokenClaims{
		PartnerID: int(partnerID),
		ExpiresAt: time.Unix(int64(exp), 0),
	}
	if prepaid, ok := mapClaims["customerPrePaid"].(float64); ok {
		claims.CustomerPrePaid = int(prepaid)
	}
	if email, ok := mapClaims["email"].(string); ok {
		claims.Email = email
	}
	if roles, ok := mapClaims["roles"].([]interface{}); ok {
		for _, r := range roles {
			if s, ok := r.(string); ok {
				claims.Roles = append(claims.Roles, s)
			}
		}
	}
	return claims, nil
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
