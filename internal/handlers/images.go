package handlers

import (
	"errors"
	"net/http"
	"strings"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/imagesearch"
	"TRAVELPACK_BACK-END/internal/utils"
)

var (
	errMissingQuery      = apperror.New(http.StatusBadRequest, "Query is required")
	errSearchUnavailable = apperror.New(http.StatusServiceUnavailable, "Image search is unavailable")
	errSearchFailed      = apperror.New(http.StatusBadGateway, "Image search failed")
)

// ImageHandler proxies destination photo search
type ImageHandler struct {
	search imagesearch.Searcher
}

func NewImageHandler(search imagesearch.Searcher) *ImageHandler {
	return &ImageHandler{search: search}
}

// Search finds photos for a destination
// @Summary Search destination images
// @Tags images
// @Produce json
// @Security BearerAuth
// @Param query query string true "Search text, usually the destination"
// @Success 200 {object} dto.ListResponse{data=[]imagesearch.Image}
// @Failure 400 {object} dto.ErrorResponse "Query is required"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse "Image search failed"
// @Failure 503 {object} dto.ErrorResponse "Image search is unavailable"
// @Router /api/images/search [get]
func (h *ImageHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("query"))
	if q == "" {
		utils.WriteError(w, r, errMissingQuery)
		return
	}

	imgs, err := h.search.Search(r.Context(), q)
	switch {
	case errors.Is(err, imagesearch.ErrNotConfigured), errors.Is(err, imagesearch.ErrUnavailable):
		utils.WriteError(w, r, errSearchUnavailable.Wrap(err))
		return
	case err != nil:
		utils.WriteError(w, r, errSearchFailed.Wrap(err))
		return
	}
	utils.WriteItems(w, imgs)
}
