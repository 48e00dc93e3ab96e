package dto

// HealthResponse is returned by the probe endpoints
type HealthResponse struct {
	Status  string         `json:"status"`
	Details *HealthDetails `json:"details,omitempty"`
}

// HealthDetails reports each dependency as "ok" or its error text.
// Cache is empty when no cache is configured.
type HealthDetails struct {
	DB    string `json:"db"`
	Cache string `json:"cache,omitempty"`
}
