package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/AnshRaj112/portfolio-backend/internal/metrics"
	"github.com/AnshRaj112/portfolio-backend/internal/models"
	"github.com/AnshRaj112/portfolio-backend/pkg/utils"
	"github.com/google/uuid"
)

const trackWriteTimeout = 5 * time.Second

// VisitInput is a page view as seen by the public tracking endpoint.
type VisitInput struct {
	IPAddress string
	UserAgent string
	Path      string
	At        time.Time
}

// ClickInput is a click as seen by the public tracking endpoint.
type ClickInput struct {
	IPAddress string
	Target    string
	Path      string
	At        time.Time
}

// Publisher receives every visitor after it was stored.
type Publisher interface {
	Publish(v models.VisitorRecord)
}

type TrackerOptions struct {
	QueueSize  int
	Workers    int
	Locator    Locator
	Anonymizer *utils.IPAnonymizer
	Feed       Publisher
}

type trackJob struct {
	visit *VisitInput
	click *ClickInput
}

// Tracker persists tracking events off the request path. Enqueueing never
// blocks; when the queue is full the event is dropped and counted. Write
// failures are logged and never reach the visitor.
type Tracker struct {
	visitors   *VisitorStore
	clicks     *EventLog[models.ClickEvent]
	locator    Locator
	anonymizer *utils.IPAnonymizer
	feed       Publisher

	queue  chan trackJob
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewTracker starts the worker goroutines. Call Close to drain and stop them.
func NewTracker(visitors *VisitorStore, clicks *EventLog[models.ClickEvent], opts TrackerOptions) *Tracker {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	t := &Tracker{
		visitors:   visitors,
		clicks:     clicks,
		locator:    opts.Locator,
		anonymizer: opts.Anonymizer,
		feed:       opts.Feed,
		queue:      make(chan trackJob, opts.QueueSize),
	}
	for i := 0; i < opts.Workers; i++ {
		t.wg.Add(1)
		go t.worker()
	}
	return t
}

// TrackVisit queues a page view. It reports false if the event was dropped.
func (t *Tracker) TrackVisit(in VisitInput) bool {
	return t.enqueue(trackJob{visit: &in})
}

// TrackClick queues a click. It reports false if the event was dropped.
func (t *Tracker) TrackClick(in ClickInput) bool {
	return t.enqueue(trackJob{click: &in})
}

func (t *Tracker) enqueue(j trackJob) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.closed {
		metrics.TrackingDropped.Inc()
		return false
	}
	select {
	case t.queue <- j:
		return true
	default:
		metrics.TrackingDropped.Inc()
		log.Printf("tracker: queue full, dropping event")
		return false
	}
}

// Close stops accepting events and waits until the queued ones are written.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.queue)
	t.mu.Unlock()

	t.wg.Wait()
}

func (t *Tracker) worker() {
	defer t.wg.Done()
	for j := range t.queue {
		switch {
		case j.visit != nil:
			t.writeVisit(*j.visit)
		case j.click != nil:
			t.writeClick(*j.click)
		}
	}
}

func (t *Tracker) writeVisit(in VisitInput) {
	ctx, cancel := context.WithTimeout(context.Background(), trackWriteTimeout)
	defer cancel()

	record := models.VisitorRecord{
		ID:        uuid.NewString(),
		IPAddress: t.storedIP(in.IPAddress),
		Timestamp: timestampOrNow(in.At),
		UserAgent: in.UserAgent,
		Path:      in.Path,
	}
	if t.locator != nil && in.IPAddress != "" {
		geo, err := t.locator.Locate(in.IPAddress)
		if err != nil {
			log.Printf("tracker: geolocation failed: %v", err)
		} else {
			record.Geolocation = geo
		}
	}

	if err := t.visitors.Record(ctx, record); err != nil {
		metrics.TrackingErrors.WithLabelValues("visit").Inc()
		log.Printf("tracker: failed to record visitor: %v", err)
		return
	}
	metrics.VisitorsRecorded.Inc()

	if t.feed != nil {
		t.feed.Publish(record)
	}
}

func (t *Tracker) writeClick(in ClickInput) {
	ctx, cancel := context.WithTimeout(context.Background(), trackWriteTimeout)
	defer cancel()

	ev := models.ClickEvent{
		ID:        uuid.NewString(),
		Target:    in.Target,
		Path:      in.Path,
		IPAddress: t.storedIP(in.IPAddress),
		Timestamp: timestampOrNow(in.At),
	}
	if err := t.clicks.Append(ctx, ev); err != nil {
		metrics.TrackingErrors.WithLabelValues("click").Inc()
		log.Printf("tracker: failed to record click event: %v", err)
		return
	}
	metrics.ClicksRecorded.Inc()
}

func (t *Tracker) storedIP(ip string) string {
	if t.anonymizer == nil {
		return ip
	}
	return t.anonymizer.Anonymize(ip)
}

func timestampOrNow(at time.Time) time.Time {
	if at.IsZero() {
		return time.Now().UTC()
	}
	return at.UTC()
}
