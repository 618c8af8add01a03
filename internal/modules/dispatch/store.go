package dispatch

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// PlanStore holds proposed plans until they are executed or expire.
// A plan can be taken exactly once.
type PlanStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	plans map[uuid.UUID]*DispatchPlan
}

func NewPlanStore(ttl time.Duration) *PlanStore {
	return &PlanStore{
		ttl:   ttl,
		plans: make(map[uuid.UUID]*DispatchPlan),
	}
}

func (s *PlanStore) Put(p *DispatchPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, old := range s.plans {
		if time.Since(old.CreatedAt) > s.ttl {
			delete(s.plans, id)
		}
	}
	s.plans[p.ID] = p
}

// Take removes and returns the plan. The second result is false when
// the plan was never stored or already executed, the third when it
// sat around past its TTL.
func (s *PlanStore) Take(id uuid.UUID) (*DispatchPlan, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, false, false
	}
	delete(s.plans, id)
	if time.Since(p.CreatedAt) > s.ttl {
		return nil, true, true
	}
	return p, true, false
}
