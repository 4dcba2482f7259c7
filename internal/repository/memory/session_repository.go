package memory

import (
	"ai-model-advisor-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps advisor session state in process memory. State is
// never expired while the process runs - reset only clears fields - so the
// cache is created without TTL.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.SessionState) {
	r.cache.Set(session.ID, session, cache.NoExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.SessionState, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.SessionState), true
	}
	return nil, false
}
