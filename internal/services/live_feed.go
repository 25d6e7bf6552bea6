package services

import (
	"log"
	"sync"

	"github.com/AnshRaj112/portfolio-backend/internal/metrics"
	"github.com/AnshRaj112/portfolio-backend/internal/models"
)

// FeedConn is the part of a WebSocket connection the live feed writes to.
type FeedConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// FeedEvent is the payload pushed to live feed clients.
type FeedEvent struct {
	Type    string                `json:"type"`
	Visitor *models.VisitorRecord `json:"visitor,omitempty"`
}

// liveFeedBuffer is how many events a client may fall behind before it is
// dropped.
const liveFeedBuffer = 32

type feedClient struct {
	conn FeedConn
	send chan FeedEvent
}

// LiveFeed fans newly recorded visitors out to connected admin dashboards
// on this instance. Each client has its own writer goroutine, so a slow
// socket never holds up Publish.
type LiveFeed struct {
	mu      sync.RWMutex
	clients map[FeedConn]*feedClient
}

func NewLiveFeed() *LiveFeed {
	return &LiveFeed{clients: make(map[FeedConn]*feedClient)}
}

func (f *LiveFeed) Register(conn FeedConn) {
	c := &feedClient{conn: conn, send: make(chan FeedEvent, liveFeedBuffer)}

	f.mu.Lock()
	f.clients[conn] = c
	n := len(f.clients)
	f.mu.Unlock()
	metrics.LiveFeedClients.Set(float64(n))

	go f.writeLoop(c)
}

// Unregister removes conn and stops its writer. Safe to call more than once.
func (f *LiveFeed) Unregister(conn FeedConn) {
	f.mu.Lock()
	if c, ok := f.clients[conn]; ok {
		delete(f.clients, conn)
		close(c.send)
	}
	n := len(f.clients)
	f.mu.Unlock()
	metrics.LiveFeedClients.Set(float64(n))
}

func (f *LiveFeed) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// Publish queues v for every client without blocking. A client whose buffer
// is full is dropped and closed.
func (f *LiveFeed) Publish(v models.VisitorRecord) {
	event := FeedEvent{Type: "visitor", Visitor: &v}

	var slow []FeedConn
	f.mu.RLock()
	for conn, c := range f.clients {
		select {
		case c.send <- event:
		default:
			slow = append(slow, conn)
		}
	}
	f.mu.RUnlock()

	for _, conn := range slow {
		log.Printf("live feed: dropping slow client")
		f.Unregister(conn)
		conn.Close()
	}
}

func (f *LiveFeed) writeLoop(c *feedClient) {
	for event := range c.send {
		if err := c.conn.WriteJSON(event); err != nil {
			log.Printf("live feed: dropping client: %v", err)
			f.Unregister(c.conn)
			c.conn.Close()
			return
		}
	}
}
