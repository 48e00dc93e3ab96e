package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/store"
	"TRAVELPACK_BACK-END/internal/utils"
)

// JWTClaims represents the claims in the JWT token
type JWTClaims struct {
	UserID uuid.UUID `json:"id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken generates a JWT token for the given user
func GenerateToken(userID uuid.UUID, role string, cfg *config.JWTConfig) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// ValidateToken validates a JWT token and returns the claims
func ValidateToken(tokenString string, cfg *config.JWTConfig) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid && claims.UserID != uuid.Nil {
		return claims, nil
	}
	return nil, jwt.ErrTokenMalformed
}

type actorKey struct{}

// WithActor stores the authenticated actor on ctx
func WithActor(ctx context.Context, a models.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the actor set by Auth.Require
func ActorFrom(ctx context.Context) (models.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(models.Actor)
	return a, ok
}

// UserLookup resolves the user behind a token
type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Auth validates bearer tokens. The role is re-read from the user record on
// every request so demotions take effect before the token expires.
type Auth struct {
	cfg   *config.JWTConfig
	users UserLookup
}

func NewAuth(cfg *config.JWTConfig, users UserLookup) *Auth {
	return &Auth{cfg: cfg, users: users}
}

// Require rejects requests without a valid token for an existing user
func (a *Auth) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			utils.WriteError(w, r, apperror.ErrUnauthorized)
			return
		}

		claims, err := ValidateToken(tokenString, a.cfg)
		if err != nil {
			utils.WriteError(w, r, apperror.ErrUnauthorized)
			return
		}

		user, err := a.users.GetUserByID(r.Context(), claims.UserID)
		if errors.Is(err, store.ErrNotFound) {
			utils.WriteError(w, r, apperror.ErrUnauthorized)
			return
		}
		if err != nil {
			utils.WriteError(w, r, apperror.Internal(err))
			return
		}

		ctx := WithActor(r.Context(), models.Actor{UserID: user.ID, Role: user.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// RequireAdmin is Require plus the admin role
func (a *Auth) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return a.Require(func(w http.ResponseWriter, r *http.Request) {
		actor, _ := ActorFrom(r.Context())
		if !actor.IsAdmin() {
			utils.WriteError(w, r, apperror.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Extract token from "Bearer <token>"
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
