package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/AnshRaj112/portfolio-backend/internal/services"
	"github.com/AnshRaj112/portfolio-backend/pkg/utils"
	"github.com/gorilla/websocket"
)

const (
	livePongWait   = 60 * time.Second
	livePingPeriod = 50 * time.Second
)

// LiveHandler upgrades admin dashboards to a WebSocket that receives every
// newly recorded visitor.
type LiveHandler struct {
	feed       *services.LiveFeed
	adminToken string
	upgrader   websocket.Upgrader
}

func NewLiveHandler(feed *services.LiveFeed, adminToken string) *LiveHandler {
	return &LiveHandler{
		feed:       feed,
		adminToken: adminToken,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS for the dashboard is handled at the HTTP layer; the token
			// check below is what guards the socket.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS handles GET /ws/admin/visitors. Browsers cannot set headers on a
// WebSocket, so the token may also come from ?token=.
func (h *LiveHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := utils.ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if !utils.ValidAdminToken(token, h.adminToken) {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[LiveFeed] upgrade failed: %v", err)
		return
	}
	client := &liveConn{conn: conn}
	h.feed.Register(client)
	defer func() {
		h.feed.Unregister(client)
		client.Close()
	}()

	done := make(chan struct{})
	go client.pingLoop(done)
	defer close(done)

	// The feed is write-only; reading keeps pong handling and close
	// detection going.
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// liveConn serializes writes from the feed and the ping loop.
type liveConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *liveConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(v)
}

func (c *liveConn) Close() error {
	return c.conn.Close()
}

func (c *liveConn) pingLoop(done <-chan struct{}) {
	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.mu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second))
			c.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
