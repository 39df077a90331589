package models

import "time"

type Document struct {
	CanonicalDocument
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type GetDocumentsResponse struct {
	Documents []Document `json:"documents"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	PerPage   int        `json:"perPage"`
}

type StatusResponse struct {
	Seeded              bool      `json:"seeded"`
	LastMaxID           int64     `json:"lastMaxId"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastTickAt          time.Time `json:"lastTickAt"`
	LastTickDocuments   int       `json:"lastTickDocuments"`
	Sinks               []string  `json:"sinks"`
}
