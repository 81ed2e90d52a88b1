package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/planejatrip/planejatrip-backend/config"
	apperrors "github.com/planejatrip/planejatrip-backend/errors"
	"github.com/planejatrip/planejatrip-backend/logger"
)

// AccessTokenClaims is the claim set carried by the HS256 access tokens
// the identity provider issues.
type AccessTokenClaims struct {
	Email        string `json:"email"`
	UserMetadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and populates the request
// context with the caller's identity. Every protected route depends on
// UserIDKey and UserEmailKey being set here.
func AuthMiddleware(cfg *config.SupabaseConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.GetLogger()

		header := c.GetHeader("Authorization")
		if header == "" {
			_ = c.Error(apperrors.Unauthorized("missing_token", "Authorization header is required"))
			c.Abort()
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			_ = c.Error(apperrors.Unauthorized("invalid_token", "Authorization header must be a bearer token"))
			c.Abort()
			return
		}

		claims := &AccessTokenClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			log.Debugw("Token validation failed", "error", err, "path", c.Request.URL.Path)
			_ = c.Error(apperrors.Unauthorized("invalid_token", "Invalid or expired token"))
			c.Abort()
			return
		}

		userID := claims.Subject
		if userID == "" || claims.Email == "" {
			_ = c.Error(apperrors.Unauthorized("invalid_token", "Token is missing required claims"))
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(UserEmailKey, strings.ToLower(claims.Email))
		c.Set(UserNameKey, claims.UserMetadata.Name)

		c.Next()
	}
}
