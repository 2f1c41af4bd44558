// Package auth verifies HS256 bearer tokens. The token subject is the id of
// the user who owns boards.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/MohammadOTaha/side-planner/internal/common/config"
	"github.com/MohammadOTaha/side-planner/internal/common/logger"
)

const ownerKey = "owner_id"

var (
	ErrMissingToken = errors.New("missing authorization header")
	ErrInvalidToken = errors.New("invalid token")
)

// Verifier checks tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Subject validates raw and returns its sub claim.
func (v *Verifier) Subject(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := v.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return "", fmt.Errorf("%w: unexpected issuer", ErrInvalidToken)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// Issue signs a token for subject valid for ttl.
func (v *Verifier) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: expected bearer scheme", ErrInvalidToken)
	}
	return strings.TrimSpace(token), nil
}

// Middleware rejects requests without a valid bearer token. When
// allowQuery is set the token may also come from the "token" query
// parameter, which browsers need for the websocket handshake.
func Middleware(v *Verifier, log *logger.Logger, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := BearerToken(c.GetHeader("Authorization"))
		if errors.Is(err, ErrMissingToken) && allowQuery && c.Query("token") != "" {
			raw, err = c.Query("token"), nil
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		owner, err := v.Subject(raw)
		if err != nil {
			log.Debug("rejected token", zap.Error(err), zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ownerKey, owner)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), logger.UserIDKey, owner))
		c.Next()
	}
}

// OwnerID returns the authenticated user set by Middleware.
func OwnerID(c *gin.Context) string {
	return c.GetString(ownerKey)
}

// OwnerFromContext returns the authenticated user carried by a request
// context that passed through Middleware.
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(logger.UserIDKey).(string)
	return owner
}
