package dto

// GoogleLoginRequest carries either a Google ID token or an OAuth access token
type GoogleLoginRequest struct {
	IDToken     string `json:"idToken"`
	AccessToken string `json:"accessToken"`
}

// GoogleLoginResponse represents the response for redirect login initiation
type GoogleLoginResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}
