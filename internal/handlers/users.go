package handlers

import (
	"errors"
	"net/http"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/dto"
	"TRAVELPACK_BACK-END/internal/query"
	"TRAVELPACK_BACK-END/internal/services"
	"TRAVELPACK_BACK-END/internal/utils"
)

const pictureField = "profilePicture"

var errFileTooLarge = apperror.New(http.StatusRequestEntityTooLarge, "File too large")

// UserHandler handles profile and admin user requests
type UserHandler struct {
	users    *services.UserService
	reports  *services.ReportService
	maxBytes int64
}

// NewUserHandler creates a UserHandler. maxBytes caps profile picture uploads.
func NewUserHandler(users *services.UserService, reports *services.ReportService, maxBytes int64) *UserHandler {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &UserHandler{users: users, reports: reports, maxBytes: maxBytes}
}

// Profile returns the current user
// @Summary Get profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=models.User}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/users/profile [get]
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	u, err := h.users.Profile(r.Context(), actor)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, u)
}

// UpdateProfile changes name, address or picture of the current user
// @Summary Update profile
// @Description Only name, address and profilePicture can be changed; other fields are ignored
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.SuccessResponse{data=models.User}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /api/users/profile [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	u, err := h.users.UpdateProfile(r.Context(), actor, services.ProfilePatch{
		Name:           req.Name,
		Address:        req.Address,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, u)
}

// UploadPicture stores a new profile picture
// @Summary Upload profile picture
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param profilePicture formData file true "Image file"
// @Success 200 {object} dto.SuccessResponse{data=dto.ProfilePictureResponse}
// @Failure 400 {object} dto.ErrorResponse "No file uploaded"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 503 {object} dto.ErrorResponse "Image upload is not configured"
// @Router /api/users/profile/picture [post]
func (h *UserHandler) UploadPicture(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	file, header, err := r.FormFile(pictureField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, r, errFileTooLarge)
			return
		}
		utils.WriteError(w, r, services.ErrNoFile)
		return
	}
	defer file.Close()

	url, u, err := h.users.UploadPicture(r.Context(), actor, file, header.Filename)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.ProfilePictureResponse{ProfilePicture: url, User: *u})
}

// List pages through users with their booking counts
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param name query string false "Name contains"
// @Param email query string false "Email contains"
// @Param role query string false "Role" Enums(user, admin)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.ListResponse{data=[]models.UserWithBookingCount}
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /api/users [get]
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	q := query.Users.Build(r.URL.Query())
	users, total, err := h.reports.UsersWithBookingCounts(r.Context(), q)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteList(w, users, total, q)
}

// Get returns a user together with their bookings
// @Summary Get user with bookings
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.SuccessResponse{data=dto.UserWithBookingsResponse}
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	u, bookings, err := h.users.GetWithBookings(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.UserWithBookingsResponse{User: *u, Bookings: bookings})
}
