package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/config"
)

// Claims are the JWT claims issued at login. UserAddress is the checksummed
// wallet address the session acts as.
type Claims struct {
	UserAddress string `json:"user_address"`
	ChainID     uint64 `json:"chain_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates Bearer JWTs on mutating routes.
type AuthMiddleware struct {
	cfg    config.AuthConfig
	logger *logrus.Logger
}

// NewAuthMiddleware creates the middleware over the auth configuration.
func NewAuthMiddleware(cfg config.AuthConfig, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg, logger: logger}
}

// IssueToken signs a session token for the given wallet address.
func (a *AuthMiddleware) IssueToken(userAddress string, chainID uint64) (string, error) {
	now := time.Now()
	claims := Claims{
		UserAddress: userAddress,
		ChainID:     chainID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(a.cfg.TokenExpiry) * time.Hour)),
			Subject:   strings.ToLower(userAddress),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.cfg.JWTSecret))
}

// RequireAuth rejects requests without a valid Bearer token and stores the
// authenticated address in the gin context as "user_address".
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			a.reject(c, "MISSING_AUTH_HEADER", "Missing Authorization header. Please provide a valid JWT token.")
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			a.reject(c, "INVALID_AUTH_FORMAT", "Authorization header must be in format: Bearer <token>")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			a.reject(c, "EMPTY_TOKEN", "Token cannot be empty")
			return
		}

		claims, err := a.validate(tokenString)
		if err != nil {
			a.logger.WithFields(logrus.Fields{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
				"error":  err.Error(),
			}).Warn("JWT validation failed")
			a.reject(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_address", claims.UserAddress)
		c.Set("chain_id", claims.ChainID)
		c.Next()
	}
}

func (a *AuthMiddleware) validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

func (a *AuthMiddleware) reject(c *gin.Context, code, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   "Authentication required",
		"message": message,
		"code":    code,
	})
	c.Abort()
}
