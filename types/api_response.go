package types

import "time"

// SubmissionResponse is the wire response of the public submission
// endpoints: a success flag or an error string, never both.
type SubmissionResponse struct {
	Success bool   `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// RevalidateResponse is the wire response of the cache-invalidation
// endpoint.
type RevalidateResponse struct {
	Revalidated bool   `json:"revalidated"`
	Now         int64  `json:"now,omitempty"`
	Error       string `json:"error,omitempty"`
}

// PageInfo contains pagination information for list responses.
type PageInfo struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// NewPageInfo derives pagination metadata from the effective page and the
// exact collection count.
func NewPageInfo(page int, total int64) *PageInfo {
	totalPages := TotalPages(total)
	return &PageInfo{
		Page:       ClampPage(page, totalPages),
		PerPage:    ItemsPerPage,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    ClampPage(page, totalPages) < totalPages,
	}
}

// PaginatedResponse is a helper for paginated data responses.
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Pagination *PageInfo   `json:"pagination"`
}

// MetaInfo contains metadata about a response.
type MetaInfo struct {
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse is a simple status message payload.
type StatusResponse struct {
	Status string `json:"status"`
}

// HealthStatus enumerates service health states.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// HealthCheck is the response of the health endpoints.
type HealthCheck struct {
	Status     HealthStatus            `json:"status"`
	Components map[string]HealthStatus `json:"components,omitempty"`
	Version    string                  `json:"version,omitempty"`
	Uptime     string                  `json:"uptime,omitempty"`
}
