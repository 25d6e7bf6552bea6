package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/AnshRaj112/portfolio-backend/internal/database"
	"github.com/AnshRaj112/portfolio-backend/internal/handlers"
	"github.com/AnshRaj112/portfolio-backend/internal/models"
	"github.com/AnshRaj112/portfolio-backend/internal/services"
)

const testToken = "router-test-token"

// countingKV wraps a MemoryKV and counts every backend call.
type countingKV struct {
	inner *database.MemoryKV
	calls atomic.Int64
}

func (c *countingKV) Get(ctx context.Context, key string) ([]byte, error) {
	c.calls.Add(1)
	return c.inner.Get(ctx, key)
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.calls.Add(1)
	return c.inner.Set(ctx, key, value)
}

func newTestRouter(t *testing.T) (http.Handler, *countingKV) {
	t.Helper()
	kv := &countingKV{inner: database.NewMemoryKV()}
	visitors := services.NewVisitorStore(kv)
	clicks := services.NewEventLog[models.ClickEvent](kv, services.ClickEventsKey)
	feed := services.NewLiveFeed()
	tracker := services.NewTracker(visitors, clicks, services.TrackerOptions{QueueSize: 8, Workers: 1, Feed: feed})
	t.Cleanup(tracker.Close)

	clientIP := func(*http.Request) string { return "192.0.2.1" }
	r := NewRouter(Dependencies{
		Admin:          handlers.NewAdminHandler(visitors, clicks, nil, testToken),
		Tracking:       handlers.NewTrackingHandler(tracker, clientIP),
		Live:           handlers.NewLiveHandler(feed, testToken),
		Health:         handlers.Health(kv, "memory"),
		AdminToken:     testToken,
		AllowedOrigins: []string{"http://localhost:3000"},
		ClientIP:       clientIP,
	})
	return r, kv
}

func TestAdminRoutesRejectWithoutTouchingStore(t *testing.T) {
	r, kv := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		auth   string
	}{
		{http.MethodGet, "/api/admin/visitors", "Bearer wrong"},
		{http.MethodGet, "/api/admin/visitors?startDate=2024-01-01", ""},
		{http.MethodPost, "/api/admin/delete-visitors", "Bearer wrong"},
		{http.MethodGet, "/api/admin/check-deletion", "Basic " + testToken},
		{http.MethodGet, "/api/admin/click-events", "Bearer "},
		{http.MethodPost, "/api/admin/delete-click-events", testToken},
		{http.MethodGet, "/api/admin/does-not-exist", ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rr.Code)
			}
			if got := strings.TrimSpace(rr.Body.String()); got != `{"error":"Unauthorized"}` {
				t.Errorf("body = %s", got)
			}
		})
	}

	if n := kv.calls.Load(); n != 0 {
		t.Errorf("store was called %d times for unauthorized requests", n)
	}
}

func TestAdminRoutesWithToken(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/admin/visitors", http.StatusOK},
		{http.MethodGet, "/api/admin/visitors?startDate=bad", http.StatusBadRequest},
		{http.MethodPost, "/api/admin/delete-visitors", http.StatusOK},
		{http.MethodGet, "/api/admin/check-deletion", http.StatusOK},
		{http.MethodGet, "/api/admin/click-events", http.StatusOK},
		{http.MethodPost, "/api/admin/delete-click-events", http.StatusOK},
		{http.MethodGet, "/api/admin/does-not-exist", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+testToken)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d (%s)", rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestPublicRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusUnauthorized},
		{http.MethodPost, "/api/track/visit", `{"path":"/"}`, http.StatusOK},
		{http.MethodPost, "/api/track/click", `{"target":"github"}`, http.StatusOK},
		{http.MethodGet, "/ws/admin/visitors", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestMetricsRequireAdminToken(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name string
		auth string
		want int
	}{
		{name: "no token", want: http.StatusUnauthorized},
		{name: "wrong token", auth: "Bearer wrong", want: http.StatusUnauthorized},
		{name: "admin token", auth: "Bearer " + testToken, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			if tt.want == http.StatusOK && !strings.Contains(rr.Body.String(), "portfolio_admin_unauthorized_total") {
				t.Error("metrics body missing admin counters")
			}
		})
	}
}
