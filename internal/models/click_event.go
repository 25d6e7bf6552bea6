package models

import "time"

// ClickEvent is a tracked click on an outbound link or call-to-action.
type ClickEvent struct {
	ID        string    `json:"id"`
	Target    string    `json:"target"`
	Path      string    `json:"path,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (c ClickEvent) RecordedAt() time.Time {
	return c.Timestamp
}
