package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/dto"
	"TRAVELPACK_BACK-END/internal/query"
	"TRAVELPACK_BACK-END/internal/services"
	"TRAVELPACK_BACK-END/internal/utils"
)

// BookingHandler handles booking requests. Every route requires authentication.
type BookingHandler struct {
	bookings *services.BookingService
	reports  *services.ReportService
}

func NewBookingHandler(bookings *services.BookingService, reports *services.ReportService) *BookingHandler {
	return &BookingHandler{bookings: bookings, reports: reports}
}

// Create books a package for the current user
// @Summary Create booking
// @Description Book a package. The total price is always computed by the server.
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookingRequest true "Booking"
// @Success 201 {object} dto.SuccessResponse{data=models.BookingDetail}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Package not found"
// @Router /api/bookings [post]
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	var req dto.CreateBookingRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	pkgID, err := uuid.Parse(req.Package)
	if err != nil {
		utils.WriteError(w, r, apperror.ErrInvalidID.Wrap(err))
		return
	}

	d, err := h.bookings.Create(r.Context(), actor, services.BookingInput{
		PackageID:       pkgID,
		SelectedOptions: req.SelectedOptions,
		ClientTotal:     req.TotalPrice,
	})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, d)
}

// Get returns one booking to its owner or an admin
// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.SuccessResponse{data=models.BookingDetail}
// @Failure 403 {object} dto.ErrorResponse "Not your booking"
// @Failure 404 {object} dto.ErrorResponse "Booking not found"
// @Router /api/bookings/{id} [get]
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	d, err := h.bookings.Get(r.Context(), actor, id)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, d)
}

// List pages through bookings: all of them for admins, the caller's own otherwise
// @Summary List bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Workflow status" Enums(accepted, cancelled, completed)
// @Param sort query string false "bookingDate or totalPrice, prefix with - for descending"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.ListResponse{data=[]models.BookingDetail}
// @Router /api/bookings [get]
// @Router /api/bookings/admin [get]
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	q := query.Bookings.Build(r.URL.Query())
	list, total, err := h.bookings.List(r.Context(), actor, q)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteList(w, list, total, q)
}

// ListMine returns the caller's bookings, optionally filtered by package phase
// @Summary My bookings
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param status query string false "Package phase" Enums(upcoming, active, completed)
// @Success 200 {object} dto.ListResponse{data=[]models.BookingDetail}
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Router /api/bookings/user [get]
func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	list, err := h.bookings.ListForUser(r.Context(), actor, r.URL.Query().Get("status"))
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteItems(w, list)
}

// UpdateStatus sets the workflow status of a booking
// @Summary Update booking status
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body dto.UpdateBookingStatusRequest true "New status"
// @Success 200 {object} dto.SuccessResponse{data=models.BookingDetail}
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 404 {object} dto.ErrorResponse "Booking not found"
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Router /api/bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	var req dto.UpdateBookingStatusRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	d, err := h.bookings.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, d)
}

// Receipt streams the PDF receipt of a booking
// @Summary Booking receipt
// @Tags bookings
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {file} binary
// @Failure 403 {object} dto.ErrorResponse "Not your booking"
// @Failure 404 {object} dto.ErrorResponse "Booking not found"
// @Router /api/bookings/{id}/receipt [get]
func (h *BookingHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	pdf, d, err := h.bookings.Receipt(r.Context(), actor, id)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="booking-%s.pdf"`, d.ID))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// StatsByPackage reports booking volume and revenue per package
// @Summary Bookings by package
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param includeCancelled query bool false "Count cancelled bookings (defaults to server setting)"
// @Success 200 {object} dto.ListResponse{data=[]models.PackageBookingStats}
// @Failure 400 {object} dto.ErrorResponse "Invalid includeCancelled"
// @Router /api/bookings/stats/by-package [get]
func (h *BookingHandler) StatsByPackage(w http.ResponseWriter, r *http.Request) {
	var include *bool
	if raw := r.URL.Query().Get("includeCancelled"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.WriteError(w, r, apperror.BadRequest("includeCancelled must be true or false"))
			return
		}
		include = &v
	}
	rows, err := h.reports.BookingStatsByPackage(r.Context(), include)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteItems(w, rows)
}
