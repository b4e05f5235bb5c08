package auth

import (
	"errors"
	"time"

	"github.com/batteriesproject/server/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity claim set carried by access tokens: the user's
// email and display name on top of the standard registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// IssueToken signs a fresh HS256 access token for the given identity with an
// absolute expiry of now+validity.
func IssueToken(email, name string, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Email: email,
		Name:  name,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ReissueFromClaims signs a new token carrying the identity of an existing
// claim set and a fresh expiry. It is the explicit counterpart of IssueToken
// for the refresh flow; callers pick one, never both.
func ReissueFromClaims(claims *Claims, secretKey []byte, validity time.Duration) (string, error) {
	return IssueToken(claims.Email, claims.Name, secretKey, validity)
}

// ParseToken validates a token fully (signature, algorithm, lifetime) and
// returns its claims. An expired token yields common.ErrTokenExpired; any
// other failure yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// ParseExpiredToken extracts the claims of a token whose lifetime may already
// have passed. The signature and the signing-method family are still
// enforced; only claim validation (expiry) is skipped. Used exclusively by
// the refresh flow, where an expired access token is the expected input.
func ParseExpiredToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
