package services

import (
	"context"
	"sync"
	"time"

	"github.com/AnshRaj112/portfolio-backend/internal/database"
	"github.com/AnshRaj112/portfolio-backend/internal/metrics"
	"github.com/AnshRaj112/portfolio-backend/internal/models"
)

// VisitorStore owns the visitor log, the in-process cache and the deletion flag.
// It is built once in main and shared by the tracker and the admin handlers.
type VisitorStore struct {
	log  *EventLog[models.VisitorRecord]
	flag *DeletionFlag

	mu      sync.RWMutex
	cache   []models.VisitorRecord
	version uint64 // bumped by every Record and DeleteAll, guarded by mu
}

func NewVisitorStore(kv database.KV) *VisitorStore {
	return &VisitorStore{
		log:  NewEventLog[models.VisitorRecord](kv, VisitorsKey),
		flag: &DeletionFlag{},
	}
}

// Record appends a visitor. A successful write clears the deletion flag.
func (s *VisitorStore) Record(ctx context.Context, v models.VisitorRecord) error {
	if err := s.log.Append(ctx, v); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache = append(s.cache, v)
	s.version++
	size := len(s.cache)
	s.flag.Reset()
	s.mu.Unlock()

	metrics.VisitorCacheSize.Set(float64(size))
	return nil
}

// QueryByDateRange returns the records with start <= timestamp <= end in
// insertion order. While the deletion flag is set it returns an empty result
// without reading the backend.
func (s *VisitorStore) QueryByDateRange(ctx context.Context, start, end *time.Time) ([]models.VisitorRecord, error) {
	if start != nil && end != nil && start.After(*end) {
		return nil, ErrInvalidDateRange
	}
	if s.flag.IsDeleted() {
		return []models.VisitorRecord{}, nil
	}

	s.mu.RLock()
	seen := s.version
	s.mu.RUnlock()

	all, err := s.log.All(ctx)
	if err != nil {
		return nil, err
	}

	// Only refresh the cache if no write or delete landed while reading.
	s.mu.Lock()
	if s.version == seen && !s.flag.IsDeleted() {
		s.cache = all
		metrics.VisitorCacheSize.Set(float64(len(all)))
	}
	s.mu.Unlock()

	return FilterByTime(all, start, end), nil
}

// DeleteAll clears the backing collection, empties the cache and sets the
// deletion flag. The flag is only set once the backend write succeeded.
func (s *VisitorStore) DeleteAll(ctx context.Context) error {
	if err := s.log.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache = nil
	s.version++
	s.flag.MarkDeleted()
	s.mu.Unlock()

	metrics.VisitorCacheSize.Set(0)
	return nil
}

// CacheSize is the number of records in the in-process cache. Diagnostic only.
func (s *VisitorStore) CacheSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

func (s *VisitorStore) IsDeleted() bool {
	return s.flag.IsDeleted()
}
