package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the signed lifetime of a session token. The login cookie may
// outlive it; the token expiry is what counts.
const TokenTTL = 24 * time.Hour

type Claims struct {
	UserID uint `json:"id"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token carrying the user id, valid for TokenTTL.
func IssueToken(userID uint, secret []byte) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyToken parses and validates a token and returns the embedded user id.
// Malformed, expired and badly signed tokens all fail the same way.
func VerifyToken(tokenString string, secret []byte) (uint, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, jwt.ErrTokenUnverifiable
	}
	return claims.UserID, nil
}
