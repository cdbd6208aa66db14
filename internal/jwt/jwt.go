package jwt

import (
	"errors"
	"fmt"
	"time"

	"task-manager/internal/my_errors"

	"github.com/golang-jwt/jwt/v4"
)

const issuer = "task-manager"

// Claims carries only the user id in Subject. The role is read from the store
// on every request, so it is not part of the token.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 token for userID valid for ttl.
func GenerateToken(userID, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ParseToken verifies signature, expiry and issuer. Every failure unwraps to
// my_errors.ErrInvalidToken.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	_, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("%w: token expired", my_errors.ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", my_errors.ErrInvalidToken, err)
	}

	if !claims.VerifyIssuer(issuer, true) || claims.Subject == "" {
		return nil, my_errors.ErrInvalidToken
	}

	return claims, nil
}
