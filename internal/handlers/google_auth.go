package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/config"
	"TRAVELPACK_BACK-END/internal/dto"
	"TRAVELPACK_BACK-END/internal/middleware"
	"TRAVELPACK_BACK-END/internal/services"
	"TRAVELPACK_BACK-END/internal/utils"
)

var errInvalidState = apperror.New(http.StatusBadRequest, "Invalid OAuth state")

// GoogleAuthHandler handles Google sign-in, both the token flow used by the
// SPA and the server-side redirect flow
type GoogleAuthHandler struct {
	auth        *services.AuthService
	jwt         *config.JWTConfig
	frontendURL string
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance
func NewGoogleAuthHandler(auth *services.AuthService, jwtCfg *config.JWTConfig, frontendURL string) *GoogleAuthHandler {
	return &GoogleAuthHandler{
		auth:        auth,
		jwt:         jwtCfg,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// GoogleToken signs in with a token obtained by the client
// @Summary Google sign-in
// @Description Verify a Google ID token (or OAuth access token) and sign the user in, creating or linking the account
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.GoogleLoginRequest true "Google credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid Google authentication data"
// @Failure 401 {object} dto.ErrorResponse "Google authentication failed"
// @Failure 503 {object} dto.ErrorResponse "Google sign-in is not configured"
// @Router /api/auth/google [post]
func (h *GoogleAuthHandler) GoogleToken(w http.ResponseWriter, r *http.Request) {
	var req dto.GoogleLoginRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	sess, err := h.auth.GoogleLogin(r.Context(), services.GoogleCredentials{
		IDToken:     req.IDToken,
		AccessToken: req.AccessToken,
	})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	writeSession(w, http.StatusOK, sess)
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Initiate the Google OAuth redirect flow. The returned state is signed and expires after ten minutes.
// @Tags authentication
// @Produce json
// @Param redirect query string false "Frontend URL to return to after sign-in"
// @Success 200 {object} dto.GoogleLoginResponse "Google OAuth URL"
// @Failure 503 {object} dto.ErrorResponse "Google sign-in is not configured"
// @Router /api/auth/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := middleware.GenerateOAuthState(h.redirectTarget(r.URL.Query().Get("redirect")), h.jwt)
	if err != nil {
		utils.WriteError(w, r, apperror.Internal(err))
		return
	}
	authURL, err := h.auth.AuthCodeURL(state)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.GoogleLoginResponse{AuthURL: authURL, State: state})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Exchange the authorization code and redirect to the frontend with the issued token
// @Tags authentication
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State returned by /api/auth/google/login"
// @Success 302 "Redirect to the frontend with ?token="
// @Failure 400 {object} dto.ErrorResponse "Invalid OAuth state or missing code"
// @Failure 401 {object} dto.ErrorResponse "Google authentication failed"
// @Router /api/auth/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	claims, err := middleware.ValidateOAuthState(q.Get("state"), h.jwt)
	if err != nil {
		utils.WriteError(w, r, errInvalidState.Wrap(err))
		return
	}

	sess, err := h.auth.GoogleCallback(r.Context(), q.Get("code"))
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	target, err := url.Parse(h.redirectTarget(claims.Redirect))
	if err != nil {
		utils.WriteError(w, r, apperror.Internal(err))
		return
	}
	values := target.Query()
	values.Set("token", sess.Token)
	target.RawQuery = values.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}

// redirectTarget keeps redirects on the frontend origin
func (h *GoogleAuthHandler) redirectTarget(requested string) string {
	if requested != "" && (requested == h.frontendURL || strings.HasPrefix(requested, h.frontendURL+"/")) {
		return requested
	}
	return h.frontendURL + "/auth/callback"
}
