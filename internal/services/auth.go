package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/logger"
	"TRAVELPACK_BACK-END/internal/middleware"
	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/store"
	"TRAVELPACK_BACK-END/internal/tracing"
)

// AuthService registers and signs in users
type AuthService struct {
	users  store.UserStore
	jwt    *config.JWTConfig
	google IdentityProvider
	log    *logger.Logger
	tracer trace.Tracer
	Now    func() time.Time
}

// NewAuthService wires the service. google may be nil when Google sign-in is not configured.
func NewAuthService(users store.UserStore, jwtCfg *config.JWTConfig, google IdentityProvider, log *logger.Logger, tracer trace.Tracer) *AuthService {
	if tracer == nil {
		tracer = tracing.Noop()
	}
	return &AuthService{users: users, jwt: jwtCfg, google: google, log: log, tracer: tracer, Now: time.Now}
}

// Session is a signed-in user and their bearer token
type Session struct {
	User  models.User
	Token string
}

// NormalizeEmail trims and lowercases an address so lookups are case-insensitive
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) issue(u *models.User) (*Session, error) {
	token, err := middleware.GenerateToken(u.ID, u.Role, s.jwt)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &Session{User: *u, Token: token}, nil
}

// Register creates a local account with the user role
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	email = NormalizeEmail(email)
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		s.log.LogAuth("", email, "local", "register", false)
		return nil, ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, tracing.Fail(span, apperror.Internal(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, tracing.Fail(span, apperror.Internal(err))
	}

	now := s.Now()
	u := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, tracing.Fail(span, apperror.Internal(err))
	}

	s.log.LogAuth(u.ID.String(), email, "local", "register", true)
	return s.issue(u)
}

// Login checks an email and password
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.log.LogAuth("", email, "local", "login", false)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, tracing.Fail(span, apperror.Internal(err))
	}

	// Google-only accounts have no password
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		s.log.LogAuth(u.ID.String(), email, "local", "login", false)
		return nil, ErrInvalidCredentials
	}

	s.log.LogAuth(u.ID.String(), email, "local", "login", true)
	return s.issue(u)
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	u, err := s.users.GetUserByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound)
	}
	return u, nil
}

// GoogleCredentials is what a client may present for Google sign-in
type GoogleCredentials struct {
	IDToken     string
	AccessToken string
}

// GoogleLogin verifies the credentials with Google and signs the user in.
// An ID token is preferred over an access token when both are given.
func (s *AuthService) GoogleLogin(ctx context.Context, creds GoogleCredentials) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.GoogleLogin")
	defer span.End()

	if s.google == nil {
		return nil, ErrGoogleNotConfigured
	}

	var (
		id  *GoogleIdentity
		err error
	)
	switch {
	case creds.IDToken != "":
		id, err = s.google.FromIDToken(ctx, creds.IDToken)
	case creds.AccessToken != "":
		id, err = s.google.FromAccessToken(ctx, creds.AccessToken)
	default:
		return nil, ErrInvalidGoogleData
	}
	if err != nil {
		s.log.WithFields(logger.Fields{"error": err.Error()}).Warn("Google token verification failed")
		return nil, ErrGoogleAuthFailed.Wrap(err)
	}
	return s.signInGoogle(ctx, id)
}

// AuthCodeURL starts the redirect flow
func (s *AuthService) AuthCodeURL(state string) (string, error) {
	if s.google == nil {
		return "", ErrGoogleNotConfigured
	}
	return s.google.AuthCodeURL(state), nil
}

// GoogleCallback completes the redirect flow with the authorization code
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.GoogleCallback")
	defer span.End()

	if s.google == nil {
		return nil, ErrGoogleNotConfigured
	}
	if code == "" {
		return nil, ErrInvalidGoogleData
	}
	id, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, ErrGoogleAuthFailed.Wrap(err)
	}
	return s.signInGoogle(ctx, id)
}

// signInGoogle finds or creates the account for a verified Google identity.
// An existing local account is linked on first Google sign-in.
func (s *AuthService) signInGoogle(ctx context.Context, id *GoogleIdentity) (*Session, error) {
	email := NormalizeEmail(id.Email)
	if email == "" || id.Subject == "" {
		return nil, ErrInvalidGoogleData
	}

	now := s.Now()
	u, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		name := strings.TrimSpace(id.Name)
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}
		u = &models.User{
			Name:           name,
			Email:          email,
			GoogleID:       id.Subject,
			ProfilePicture: id.Picture,
			Role:           models.RoleUser,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.users.CreateUser(ctx, u); err != nil {
			return nil, apperror.Internal(err)
		}
		s.log.LogAuth(u.ID.String(), email, "google", "register", true)

	case err != nil:
		return nil, apperror.Internal(err)

	case u.GoogleID == "":
		u.GoogleID = id.Subject
		if u.ProfilePicture == "" {
			u.ProfilePicture = id.Picture
		}
		u.UpdatedAt = now
		if err := s.users.UpdateUser(ctx, u); err != nil {
			return nil, apperror.Internal(err)
		}
		s.log.LogAuth(u.ID.String(), email, "google", "link", true)
	}

	s.log.LogAuth(u.ID.String(), email, "google", "login", true)
	return s.issue(u)
}
