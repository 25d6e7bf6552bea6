package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AnshRaj112/portfolio-backend/internal/models"
	"github.com/AnshRaj112/portfolio-backend/internal/services"
	"github.com/gorilla/websocket"
)

func TestLiveFeedSocket(t *testing.T) {
	feed := services.NewLiveFeed()
	h := NewLiveHandler(feed, testToken)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	t.Run("rejects bad token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=wrong", nil)
		if err == nil {
			t.Fatal("expected dial to fail")
		}
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("response = %v", resp)
		}
	})

	t.Run("streams visitors", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+testToken, nil)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.Close()

		deadline := time.Now().Add(2 * time.Second)
		for feed.Count() != 1 {
			if time.Now().After(deadline) {
				t.Fatal("client never registered")
			}
			time.Sleep(10 * time.Millisecond)
		}

		feed.Publish(models.VisitorRecord{ID: "v-1", Path: "/about", Timestamp: time.Now().UTC()})

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev services.FeedEvent
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read: %v", err)
		}
		if ev.Type != "visitor" || ev.Visitor == nil || ev.Visitor.ID != "v-1" {
			t.Fatalf("event = %+v", ev)
		}
	})
}
