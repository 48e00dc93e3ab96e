package utils

import (
	"encoding/json"
	"net/http"

	"TRAVELPACK_BACK-END/internal/apperror"
	"TRAVELPACK_BACK-END/internal/dto"
	"TRAVELPACK_BACK-END/internal/logger"
	"TRAVELPACK_BACK-END/internal/query"
)

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes {success: true, data}
func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	WriteJSONResponse(w, status, dto.SuccessResponse{Success: true, Data: data})
}

// WriteList writes a page of results with its pagination descriptor
func WriteList[T any](w http.ResponseWriter, items []T, total int, q query.Query) {
	p := query.Paginate(total, q)
	WriteJSONResponse(w, http.StatusOK, dto.ListResponse{
		Success:    true,
		Count:      len(items),
		Total:      total,
		Pagination: &p,
		Data:       items,
	})
}

// WriteItems writes an unpaginated list
func WriteItems[T any](w http.ResponseWriter, items []T) {
	WriteJSONResponse(w, http.StatusOK, dto.ListResponse{
		Success: true,
		Count:   len(items),
		Total:   len(items),
		Data:    items,
	})
}

// WriteError writes {success: false, message} with the status carried by err.
// Internal causes are logged, never sent.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperror.From(err)
	if e.Status >= http.StatusInternalServerError {
		entry := logger.Get().WithFields(logger.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": e.Status,
		})
		if e.Err != nil {
			entry = entry.WithError(e.Err)
		}
		entry.Error(e.Message)
	}
	WriteJSONResponse(w, e.Status, dto.ErrorResponse{Success: false, Message: e.Message})
}

// WriteErrorMessage writes a failure with an explicit status
func WriteErrorMessage(w http.ResponseWriter, status int, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Success: false, Message: message})
}
