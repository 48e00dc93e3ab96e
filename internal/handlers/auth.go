package handlers

import (
	"net/http"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/dto"
	"TRAVELPACK_BACK-END/internal/middleware"
	"TRAVELPACK_BACK-END/internal/models"
	"TRAVELPACK_BACK-END/internal/services"
	"TRAVELPACK_BACK-END/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a new user account with name, email, and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} dto.AuthResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or user already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	sess, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	writeSession(w, http.StatusCreated, sess)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user with email and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "User login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Missing email or password"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 429 {object} dto.ErrorResponse "Rate limit exceeded"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	sess, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	writeSession(w, http.StatusOK, sess)
}

// Me returns the signed-in user
// @Summary Get current user
// @Description Get the profile of the authenticated user
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=models.User}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	user, err := h.auth.Me(r.Context(), actor)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, user)
}

func writeSession(w http.ResponseWriter, status int, sess *services.Session) {
	utils.WriteJSONResponse(w, status, dto.AuthResponse{
		Success: true,
		Token:   sess.Token,
		User:    dto.NewUserResponse(sess.User),
	})
}

// actorOf reads the authenticated actor, writing a 401 if the route was not wrapped by Auth.Require
func actorOf(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := middleware.ActorFrom(r.Context())
	if !ok {
		utils.WriteError(w, r, apperror.ErrUnauthorized)
	}
	return actor, ok
}
