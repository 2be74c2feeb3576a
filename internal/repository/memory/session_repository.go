package memory

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/rispar0529/De-Sign/internal/workflow"
)

// terminalRetention keeps finished sessions readable for a while before the
// cache purges them. Live sessions never expire: a human gate may stay open
// for days.
const terminalRetention = 1 * time.Hour

// SessionRepository is the default, single-process session store. go-cache
// handles storage and eviction; the mutex serializes the read-compare-write
// of CompareAndSet so versions are linearizable per key.
type SessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(cache.NoExpiration, 10*time.Minute)
	return &SessionRepository{cache: c}
}

func (r *SessionRepository) Create(_ context.Context, session *workflow.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := session.Id.String()
	if _, found := r.cache.Get(id); found {
		return workflow.ErrDuplicateSession
	}
	session.Version = 1
	r.cache.Set(id, session.Clone(), cache.NoExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, id string) (*workflow.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	x, found := r.cache.Get(id)
	if !found {
		return nil, workflow.ErrNotFound
	}
	return x.(*workflow.Session).Clone(), nil
}

func (r *SessionRepository) CompareAndSet(_ context.Context, expectedVersion int64, session *workflow.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := session.Id.String()
	x, found := r.cache.Get(id)
	if !found {
		return workflow.ErrNotFound
	}
	current := x.(*workflow.Session)
	if current.Version != expectedVersion {
		return workflow.ErrVersionConflict
	}

	session.Version = expectedVersion + 1
	stored := session.Clone()
	if stored.Stage.IsTerminal() {
		r.cache.Set(id, stored, terminalRetention)
	} else {
		r.cache.Set(id, stored, cache.NoExpiration)
	}
	return nil
}

func (r *SessionRepository) ListByUser(_ context.Context, userId string) ([]*workflow.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessions := make([]*workflow.Session, 0)
	for _, item := range r.cache.Items() {
		s, ok := item.Object.(*workflow.Session)
		if !ok || s.UserId != userId {
			continue
		}
		sessions = append(sessions, s.Clone())
	}
	return sessions, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Delete(id)
	return nil
}
