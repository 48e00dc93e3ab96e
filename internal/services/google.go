package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"TRAVELPACK_BACK-END/internal/config"
)

// GoogleIdentity is the verified profile of a Google account
type GoogleIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// IdentityProvider verifies Google credentials
type IdentityProvider interface {
	FromIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error)
	FromAccessToken(ctx context.Context, accessToken string) (*GoogleIdentity, error)
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleIdentity, error)
}

// GoogleProvider talks to Google's OAuth endpoints
type GoogleProvider struct {
	oauth2Config *oauth2.Config
}

// NewGoogleProvider returns a nil interface when no client id is configured
func NewGoogleProvider(cfg config.GoogleOAuthConfig) IdentityProvider {
	if cfg.ClientID == "" {
		return nil
	}
	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// FromIDToken validates the token's signature and audience against our client id
func (p *GoogleProvider) FromIDToken(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, idToken, p.oauth2Config.ClientID)
	if err != nil {
		return nil, err
	}

	claim := func(name string) string {
		s, _ := payload.Claims[name].(string)
		return s
	}
	verified, _ := payload.Claims["email_verified"].(bool)
	return &GoogleIdentity{
		Subject:       payload.Subject,
		Email:         claim("email"),
		EmailVerified: verified,
		Name:          claim("name"),
		Picture:       claim("picture"),
	}, nil
}

// FromAccessToken fetches the userinfo profile the token grants access to
func (p *GoogleProvider) FromAccessToken(ctx context.Context, accessToken string) (*GoogleIdentity, error) {
	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
	})))
	if err != nil {
		return nil, err
	}

	info, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	verified := false
	if info.VerifiedEmail != nil {
		verified = *info.VerifiedEmail
	}
	return &GoogleIdentity{
		Subject:       info.Id,
		Email:         info.Email,
		EmailVerified: verified,
		Name:          info.Name,
		Picture:       info.Picture,
	}, nil
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for a token and reads the profile
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return nil, errors.New("code exchange returned no access token")
	}
	return p.FromAccessToken(ctx, token.AccessToken)
}
