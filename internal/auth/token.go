package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// IdentityClaims is the user identity the inventory application embeds in
// the tokens it issues. The token is the out-of-band proof of identity;
// this service only reads the claims, it does not manage credentials.
type IdentityClaims struct {
	UserID    int64
	Email     string
	FirstName string
	LastName  string
}

// ParseIdentityToken validates an HMAC-signed token against the shared
// secret and extracts the identity claims. A "Bearer " prefix is tolerated.
func ParseIdentityToken(tokenString, secret string) (*IdentityClaims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	identity := &IdentityClaims{UserID: int64(userID)}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if firstName, ok := claims["first_name"].(string); ok {
		identity.FirstName = firstName
	}
	if lastName, ok := claims["last_name"].(string); ok {
		identity.LastName = lastName
	}
	return identity, nil
}

// NewIdentityToken signs an identity token the way the inventory
// application does. Used by tests and local tooling.
func NewIdentityToken(claims IdentityClaims, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    claims.UserID,
		"email":      claims.Email,
		"first_name": claims.FirstName,
		"last_name":  claims.LastName,
		"exp":        time.Now().Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}
