package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrMissingToken  = errors.New("authorization token is not provided")
	ErrMalformedAuth = errors.New("authorization header format is invalid, expected 'Bearer <token>'")
	ErrInvalidToken  = errors.New("token is invalid")
)

// Claims is the token payload issued by the user service.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier turns HS256 bearer tokens into sessions.
type TokenVerifier struct {
	secret []byte
	logger *logger.Logger
}

func NewTokenVerifier(secret string, log *logger.Logger) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), logger: log.Named("TokenVerifier")}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMalformedAuth
	}
	return parts[1], nil
}

// Verify validates tokenString and returns the active session it grants.
func (v *TokenVerifier) Verify(tokenString string) (domain.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		v.logger.Warn("Token parsing or validation failed", zap.Error(err))
		return domain.Session{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return domain.Session{}, ErrInvalidToken
	}
	if claims.UserID == "" {
		v.logger.Warn("Token has no user_id claim")
		return domain.Session{}, fmt.Errorf("%w: user_id claim is empty", ErrInvalidToken)
	}
	return domain.Session{Active: true, OwnerID: claims.UserID, Email: claims.Email}, nil
}
