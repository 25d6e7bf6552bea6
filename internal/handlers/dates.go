package handlers

import (
	"fmt"
	"strings"
	"time"
)

const dateOnly = "2006-01-02"

// parseDateParam accepts YYYY-MM-DD or RFC 3339. An empty value means no
// bound. With endOfDay, a date-only value covers the whole day (UTC).
func parseDateParam(name, value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateOnly, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: use YYYY-MM-DD or RFC 3339", name, value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
