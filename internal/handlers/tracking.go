package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/AnshRaj112/portfolio-backend/internal/services"
)

const (
	maxPathLength   = 500
	maxTargetLength = 500
	maxTrackBody    = 4 << 10
)

// TrackVisitRequest is the JSON body for POST /api/track/visit.
type TrackVisitRequest struct {
	Path string `json:"path"`
}

// TrackClickRequest is the JSON body for POST /api/track/click.
type TrackClickRequest struct {
	Target string `json:"target"`
	Path   string `json:"path"`
}

// TrackResponse acknowledges a tracking call. Tracked is false when the event
// was skipped (admin pages) or dropped (queue full).
type TrackResponse struct {
	Success bool `json:"success"`
	Tracked bool `json:"tracked"`
}

// TrackingHandler serves the public, unauthenticated tracking endpoints.
// Persistence happens on the tracker's workers; these handlers only queue.
type TrackingHandler struct {
	tracker  *services.Tracker
	clientIP func(*http.Request) string
}

func NewTrackingHandler(tracker *services.Tracker, clientIP func(*http.Request) string) *TrackingHandler {
	return &TrackingHandler{tracker: tracker, clientIP: clientIP}
}

// TrackVisit records a page view. Admin pages are never tracked.
func (h *TrackingHandler) TrackVisit(w http.ResponseWriter, r *http.Request) {
	var body TrackVisitRequest
	if err := decodeTrackBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "Invalid JSON"})
		return
	}

	path := truncate(strings.TrimSpace(body.Path), maxPathLength)
	if isAdminPage(path) {
		writeJSON(w, http.StatusOK, TrackResponse{Success: true, Tracked: false})
		return
	}

	queued := h.tracker.TrackVisit(services.VisitInput{
		IPAddress: h.clientIP(r),
		UserAgent: r.UserAgent(),
		Path:      path,
		At:        time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, TrackResponse{Success: true, Tracked: queued})
}

// TrackClick records a click on a link or call-to-action.
func (h *TrackingHandler) TrackClick(w http.ResponseWriter, r *http.Request) {
	var body TrackClickRequest
	if err := decodeTrackBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "Invalid JSON"})
		return
	}
	target := truncate(strings.TrimSpace(body.Target), maxTargetLength)
	if target == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "message": "target is required"})
		return
	}

	queued := h.tracker.TrackClick(services.ClickInput{
		IPAddress: h.clientIP(r),
		Target:    target,
		Path:      truncate(strings.TrimSpace(body.Path), maxPathLength),
		At:        time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, TrackResponse{Success: true, Tracked: queued})
}

// decodeTrackBody accepts an empty body (sendBeacon without payload).
func decodeTrackBody(r *http.Request, dest interface{}) error {
	err := json.NewDecoder(io.LimitReader(r.Body, maxTrackBody)).Decode(dest)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// isAdminPage matches /admin and everything below it, whether the client sent
// a bare path or a full URL, ignoring case, query and fragment.
func isAdminPage(raw string) bool {
	path := raw
	if u, err := url.Parse(raw); err == nil {
		path = u.Path
	}
	path = strings.ToLower(path)
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
