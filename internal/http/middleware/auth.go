package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/tutorialhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/tutorialhub-backend/internal/platform/logger"
)

type AuthConfig struct {
	JWTSecret string `koanf:"jwtsecret"`
	Issuer    string `koanf:"issuer"`
}

// Claims is what the identity provider puts in a session token. Subject is the user id.
type Claims struct {
	Username string `json:"username,omitempty"`
	Picture  string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

type AuthMiddleware struct {
	log    *logger.Logger
	secret []byte
	issuer string
}

func NewAuthMiddleware(log *logger.Logger, cfg AuthConfig) (*AuthMiddleware, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("auth: missing jwt secret")
	}
	return &AuthMiddleware{
		log:    log.With("Middleware", "AuthMiddleware"),
		secret: []byte(cfg.JWTSecret),
		issuer: strings.TrimSpace(cfg.Issuer),
	}, nil
}

// Verify parses an HS256 token and returns the caller it names.
func (am *AuthMiddleware) Verify(tokenString string) (*ctxutil.RequestData, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if am.issuer != "" {
		opts = append(opts, jwt.WithIssuer(am.issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return am.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, errors.New("token has no subject")
	}
	return &ctxutil.RequestData{
		UserID:      claims.Subject,
		Username:    claims.Username,
		ImageURL:    claims.Picture,
		TokenString: tokenString,
	}, nil
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractTokenFromAll(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}
		rd, err := am.Verify(tokenString)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": err.Error(), "code": "unauthorized"},
			})
			return
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

// EventSource cannot set headers, so the SSE stream passes the token as ?token=.
func extractTokenFromAll(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
