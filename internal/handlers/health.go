package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AnshRaj112/portfolio-backend/internal/database"
)

// Health pings the key-value backend when it supports it.
func Health(kv database.KV, backend string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pinger, ok := kv.(database.Pinger)
		if !ok {
			writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "backend": backend})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":  "degraded",
				"backend": backend,
				"error":   err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "backend": backend})
	}
}
