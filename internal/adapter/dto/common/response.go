package common

// ListResponse represents a list response with its size
type ListResponse struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

// HealthResponse represents the health check body
type HealthResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	InFlight    int    `json:"in_flight"`
}
