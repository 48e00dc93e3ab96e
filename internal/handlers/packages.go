package handlers

import (
	"net/http"
	"time"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/dto"
	"TRAVELPACK_BACK-END/internal/query"
	"TRAVELPACK_BACK-END/internal/services"
	"TRAVELPACK_BACK-END/internal/utils"
)

// PackageHandler serves the package catalogue
type PackageHandler struct {
	packages *services.PackageService
	reports  *services.ReportService
}

func NewPackageHandler(packages *services.PackageService, reports *services.ReportService) *PackageHandler {
	return &PackageHandler{packages: packages, reports: reports}
}

// List returns a filtered page of packages
// @Summary List packages
// @Description Public catalogue with filtering, sorting and pagination
// @Tags packages
// @Produce json
// @Param fromLocation query string false "Case-insensitive substring of the origin"
// @Param toLocation query string false "Case-insensitive substring of the destination"
// @Param startDate query string false "Packages starting on or after (YYYY-MM-DD)"
// @Param endDate query string false "Packages ending on or before (YYYY-MM-DD)"
// @Param sort query string false "Comma separated keys, prefix with - for descending" example(-basePrice)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.ListResponse{data=[]models.PackageWithPhase}
// @Router /api/packages [get]
func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	q := query.Packages.Build(r.URL.Query())
	pkgs, total, err := h.packages.List(r.Context(), q)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteList(w, pkgs, total, q)
}

// Get returns a single package
// @Summary Get package
// @Tags packages
// @Produce json
// @Param id path string true "Package ID"
// @Success 200 {object} dto.SuccessResponse{data=models.PackageWithPhase}
// @Failure 400 {object} dto.ErrorResponse "Invalid id"
// @Failure 404 {object} dto.ErrorResponse "Package not found"
// @Router /api/packages/{id} [get]
func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	pkg, err := h.packages.Get(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, pkg)
}

// Create adds a package
// @Summary Create package
// @Tags packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PackageRequest true "Package"
// @Success 201 {object} dto.SuccessResponse{data=models.Package}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /api/packages [post]
func (h *PackageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PackageRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	pkg, err := h.packages.Create(r.Context(), services.PackageInput{
		FromLocation:       req.FromLocation,
		ToLocation:         req.ToLocation,
		StartDate:          start,
		EndDate:            end,
		BasePrice:          *req.BasePrice,
		IncludedServices:   req.IncludedServices,
		FoodPrice:          req.FoodPrice,
		AccommodationPrice: req.AccommodationPrice,
		Description:        req.Description,
		Image:              req.Image,
	})
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, pkg)
}

// Update applies a partial update
// @Summary Update package
// @Description Dates cannot change once the package has bookings
// @Tags packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Param request body dto.UpdatePackageRequest true "Fields to change"
// @Success 200 {object} dto.SuccessResponse{data=models.Package}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Package not found"
// @Failure 409 {object} dto.ErrorResponse "Package has bookings"
// @Router /api/packages/{id} [put]
func (h *PackageHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	var req dto.UpdatePackageRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	patch := services.PackagePatch{
		FromLocation:       req.FromLocation,
		ToLocation:         req.ToLocation,
		BasePrice:          req.BasePrice,
		IncludedServices:   req.IncludedServices,
		FoodPrice:          req.FoodPrice,
		AccommodationPrice: req.AccommodationPrice,
		Description:        req.Description,
		Image:              req.Image,
	}
	if req.StartDate != nil {
		t, err := parseDate("startDate", *req.StartDate)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		patch.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseDate("endDate", *req.EndDate)
		if err != nil {
			utils.WriteError(w, r, err)
			return
		}
		patch.EndDate = &t
	}

	pkg, err := h.packages.Update(r.Context(), id, patch)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, pkg)
}

// Delete removes a package that has no bookings
// @Summary Delete package
// @Tags packages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Package ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Package not found"
// @Failure 409 {object} dto.ErrorResponse "Package has bookings"
// @Router /api/packages/{id} [delete]
func (h *PackageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := utils.PathUUID(r, "id")
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if err := h.packages.Delete(r.Context(), id); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, struct{}{})
}

// Stats counts packages by phase
// @Summary Package overview
// @Tags packages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SuccessResponse{data=models.PackageStats}
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Router /api/packages/stats/overview [get]
func (h *PackageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.PackageStats(r.Context())
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, stats)
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := query.ParseDate(raw)
	if err != nil {
		return time.Time{}, apperror.BadRequest(field + " must be a date (YYYY-MM-DD)")
	}
	return t, nil
}
