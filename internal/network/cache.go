package network

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/trialatlas/backend/internal/trials"
	"github.com/trialatlas/backend/pkg/logger"
)

// ErrNoDataset is returned when a snapshot is requested before any trial
// records have been loaded.
var ErrNoDataset = errors.New("trial dataset not loaded")

// maxCachedSnapshots bounds the per-filter-set cache. Exceeding it drops
// the whole cache rather than tracking recency per entry; builds are
// cheap enough to redo.
const maxCachedSnapshots = 50

// Service owns the trial dataset and a cache of built snapshots, one per
// canonical filter key. Concurrent requests for the same filter-set
// share a single build via singleflight.
type Service struct {
	cfg   Config
	table *AliasTable

	mu         sync.RWMutex
	records    []trials.Record
	generation uint64
	snapshots  map[string]*Snapshot

	group singleflight.Group
	nowFn func() time.Time
}

// NewService creates a service with an empty dataset.
func NewService(cfg Config, table *AliasTable) *Service {
	return &Service{
		cfg:       cfg,
		table:     table,
		snapshots: make(map[string]*Snapshot),
		nowFn:     time.Now,
	}
}

// Config returns the engine configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// SetRecords replaces the dataset and invalidates every cached snapshot.
// The generation bump makes any build still reading the old dataset
// discard its result instead of storing it into the fresh cache.
func (s *Service) SetRecords(records []trials.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.generation++
	s.snapshots = make(map[string]*Snapshot)
	logger.Info("trial dataset replaced, snapshot cache cleared", "records", len(records))
}

// RecordCount returns the size of the loaded dataset.
func (s *Service) RecordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Snapshot returns the built graph for a filter-set, building and
// caching it on first request.
func (s *Service) Snapshot(filters Filters) (*Snapshot, error) {
	key := filters.Key()

	s.mu.RLock()
	cached, ok := s.snapshots[key]
	loaded := s.records != nil
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}
	if !loaded {
		return nil, ErrNoDataset
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		for {
			s.mu.RLock()
			if snapshot, ok := s.snapshots[key]; ok {
				s.mu.RUnlock()
				return snapshot, nil
			}
			records := s.records
			generation := s.generation
			s.mu.RUnlock()

			started := time.Now()
			snapshot := Build(records, filters, s.cfg, s.table, s.nowFn())
			logger.Debug("built snapshot",
				"id", snapshot.ID,
				"nodes", snapshot.NodeCount(),
				"edges", snapshot.EdgeCount(),
				"took", time.Since(started).String(),
			)

			s.mu.Lock()
			if s.generation != generation {
				// Dataset replaced mid-build; rebuild from the new records.
				s.mu.Unlock()
				continue
			}
			if len(s.snapshots) >= maxCachedSnapshots {
				s.snapshots = make(map[string]*Snapshot)
			}
			s.snapshots[key] = snapshot
			s.mu.Unlock()
			return snapshot, nil
		}
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}
