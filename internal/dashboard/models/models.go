package models

import "time"

// Case is a landlord case as listed by the case service.
type Case struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Document is a previously generated document.
type Document struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Kind      string    `json:"kind"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats are the dashboard headline counts.
type Stats struct {
	OpenCases  int `json:"open_cases"`
	Documents  int `json:"documents"`
	PaidOrders int `json:"paid_orders"`
}

// SectionStatus is the per-resource outcome.
type SectionStatus string

const (
	SectionOK    SectionStatus = "ok"
	SectionError SectionStatus = "error"
	// SectionStale carries the last data loaded before the upstream started
	// failing.
	SectionStale SectionStatus = "stale"
)

// Section wraps one resource so each can fail on its own.
type Section[T any] struct {
	Status SectionStatus `json:"status"`
	Data   T             `json:"data"`
	Error  string        `json:"error,omitempty"`
}

// Dashboard is the aggregated view. A failed section never hides the others.
type Dashboard struct {
	Cases     Section[[]Case]     `json:"cases"`
	Documents Section[[]Document] `json:"documents"`
	Stats     Section[Stats]      `json:"stats"`
}
