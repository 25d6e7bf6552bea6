package models

import "time"

// Geolocation is derived from the visitor IP once, at ingestion time.
type Geolocation struct {
	City        string `json:"city,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Region      string `json:"region,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

// VisitorRecord is one tracked page view. Records are never modified after
// they are written; the only destructive operation is a bulk delete.
type VisitorRecord struct {
	ID          string       `json:"id"`
	IPAddress   string       `json:"ipAddress,omitempty"`
	Timestamp   time.Time    `json:"timestamp"`
	UserAgent   string       `json:"userAgent"`
	Path        string       `json:"path,omitempty"`
	Geolocation *Geolocation `json:"geolocation,omitempty"`
}

// RecordedAt is used by the generic event log for date range filtering.
func (v VisitorRecord) RecordedAt() time.Time {
	return v.Timestamp
}
