package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AnshRaj112/portfolio-backend/internal/metrics"
)

// ErrorResponse is the body of every admin failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeAdminJSON writes the response and counts it per route and status.
func writeAdminJSON(w http.ResponseWriter, route string, status int, v interface{}) {
	metrics.AdminRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	writeJSON(w, status, v)
}
