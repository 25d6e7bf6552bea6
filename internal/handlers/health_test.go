package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AnshRaj112/portfolio-backend/internal/database"
	"github.com/alicebob/miniredis/v2"
)

func TestHealth(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := database.ConnectRedis("redis://" + mr.Addr())
	if err != nil {
		t.Fatal(err)
	}
	redisKV := database.NewRedisKV(client)
	t.Cleanup(func() { redisKV.Close() })

	tests := []struct {
		name       string
		kv         database.KV
		stopRedis  bool
		wantStatus int
	}{
		{name: "memory", kv: database.NewMemoryKV(), wantStatus: http.StatusOK},
		{name: "no ping support", kv: failingKV{err: errors.New("unused")}, wantStatus: http.StatusOK},
		{name: "redis up", kv: redisKV, wantStatus: http.StatusOK},
		{name: "redis down", kv: redisKV, stopRedis: true, wantStatus: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.stopRedis {
				mr.Close()
			}
			rr := httptest.NewRecorder()
			Health(tt.kv, "test")(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}
