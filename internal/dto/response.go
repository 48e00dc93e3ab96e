package dto

import "TRAVELPACK_BACK-END/internal/query"

// SuccessResponse wraps a single payload
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
	Data    any  `json:"data"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Package not found"`
}

// ListResponse wraps a page of results
type ListResponse struct {
	Success    bool              `json:"success" example:"true"`
	Count      int               `json:"count"`
	Total      int               `json:"total"`
	Pagination *query.Pagination `json:"pagination,omitempty"`
	Data       any               `json:"data"`
}
