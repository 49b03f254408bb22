package archive

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/auit-project/layoutsolver/apis/layout/v1alpha1"
)

// DefaultRetention is how long the memory store keeps a run.
const DefaultRetention = 24 * time.Hour

var errNotInitialized = errors.New("archive store is not initialized")

// MemoryStore keeps runs in process memory and forgets them after the
// retention period.
type MemoryStore struct {
	mu        sync.RWMutex
	retention time.Duration
	runs      *cache.Cache
}

func NewMemoryStore(retention time.Duration) *MemoryStore {
	return &MemoryStore{retention: retention}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runs == nil {
		s.runs = cache.New(s.retention, s.retention/2)
	}
	return nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run v1alpha1.OptimizationRun) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.runs == nil {
		return errNotInitialized
	}
	payload, err := encodeRun(run)
	if err != nil {
		return err
	}
	s.runs.Set(run.ID, payload, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (v1alpha1.OptimizationRun, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.runs == nil {
		return v1alpha1.OptimizationRun{}, false, errNotInitialized
	}
	payload, ok := s.runs.Get(id)
	if !ok {
		return v1alpha1.OptimizationRun{}, false, nil
	}
	run, err := decodeRun(payload.([]byte))
	return run, err == nil, err
}

func (s *MemoryStore) ListRuns(_ context.Context) ([]v1alpha1.OptimizationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.runs == nil {
		return nil, errNotInitialized
	}
	items := s.runs.Items()
	runs := make([]v1alpha1.OptimizationRun, 0, len(items))
	for _, item := range items {
		run, err := decodeRun(item.Object.([]byte))
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	sortRuns(runs)
	return runs, nil
}
