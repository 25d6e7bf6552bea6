package middleware

import (
	"net/http"
	"strings"

	"github.com/AnshRaj112/portfolio-backend/internal/metrics"
	"github.com/AnshRaj112/portfolio-backend/pkg/utils"
)

// AdminPrefix is the path prefix guarded by AdminGate.
const AdminPrefix = "/api/admin"

// AdminGate rejects every request under /api/admin without a valid bearer
// token before it is routed. Handlers check the token again with the same
// utils.ValidAdminToken.
func AdminGate(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		guarded := RequireAdmin(secret)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isAdminPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			guarded.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards a single route (e.g. /metrics) with the admin token.
func RequireAdmin(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := utils.ExtractBearerToken(r.Header.Get("Authorization"))
			if !utils.ValidAdminToken(token, secret) {
				metrics.AdminUnauthorized.Inc()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"Unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isAdminPath(path string) bool {
	return path == AdminPrefix || strings.HasPrefix(path, AdminPrefix+"/")
}
