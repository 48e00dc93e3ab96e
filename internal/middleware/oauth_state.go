package middleware

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"TRAVELPACK_BACK-END/internal/config"
)

const (
	oauthStateSubject = "oauth_state"
	oauthStateTTL     = 10 * time.Minute
)

// OAuthStateClaims is the signed state round-tripped through Google's consent screen
type OAuthStateClaims struct {
	Redirect string `json:"redirect,omitempty"`
	jwt.RegisteredClaims
}

// GenerateOAuthState signs a short-lived state value. redirect is where the
// callback sends the browser afterwards.
func GenerateOAuthState(redirect string, cfg *config.JWTConfig) (string, error) {
	now := time.Now()
	claims := &OAuthStateClaims{
		Redirect: redirect,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(oauthStateTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
			Subject:   oauthStateSubject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ValidateOAuthState checks the signature, expiry and subject of a state value
func ValidateOAuthState(state string, cfg *config.JWTConfig) (*OAuthStateClaims, error) {
	token, err := jwt.ParseWithClaims(state, &OAuthStateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*OAuthStateClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid state")
	}
	// Check if token is an oauth state and not an access token
	if claims.Subject != oauthStateSubject {
		return nil, errors.New("invalid token type")
	}
	return claims, nil
}
