package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAdminGate(t *testing.T) {
	const secret = "top-secret"

	tests := []struct {
		name           string
		path           string
		authHeader     string
		expectedStatus int
		reachesHandler bool
	}{
		{
			name:           "No Header - Admin",
			path:           "/api/admin/visitors",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Token - Admin",
			path:           "/api/admin/visitors",
			authHeader:     "Bearer wrong",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Wrong Scheme - Admin",
			path:           "/api/admin/delete-visitors",
			authHeader:     "Basic " + secret,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Unknown Admin Route",
			path:           "/api/admin/does-not-exist",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Admin Root",
			path:           "/api/admin",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Valid Token - Admin",
			path:           "/api/admin/check-deletion",
			authHeader:     "Bearer " + secret,
			expectedStatus: http.StatusOK,
			reachesHandler: true,
		},
		{
			name:           "Public Route",
			path:           "/api/track/visit",
			expectedStatus: http.StatusOK,
			reachesHandler: true,
		},
		{
			name:           "Lookalike Prefix",
			path:           "/api/administrator",
			expectedStatus: http.StatusOK,
			reachesHandler: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			reached := false
			handler := AdminGate(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				w.WriteHeader(http.StatusOK)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if reached != tt.reachesHandler {
				t.Errorf("reached handler = %v, want %v", reached, tt.reachesHandler)
			}
			if tt.expectedStatus == http.StatusUnauthorized && rr.Body.String() != `{"error":"Unauthorized"}` {
				t.Errorf("unexpected body %q", rr.Body.String())
			}
		})
	}
}

func TestAdminGateEmptySecretRejectsAll(t *testing.T) {
	handler := AdminGate("")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a configured secret")
	}))
	req := httptest.NewRequest("GET", "/api/admin/visitors", nil)
	req.Header.Set("Authorization", "Bearer ")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("got %d", rr.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	const secret = "top-secret"
	handler := RequireAdmin(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		want       int
	}{
		{name: "No Header", want: http.StatusUnauthorized},
		{name: "Wrong Token", authHeader: "Bearer nope", want: http.StatusUnauthorized},
		{name: "Valid Token", authHeader: "Bearer " + secret, want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/metrics", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("got %d want %d", rr.Code, tt.want)
			}
		})
	}
}
