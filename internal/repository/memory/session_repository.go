package memory

import (
	"time"

	"voice-todoist-be/pkg/conversation"

	"github.com/patrickmn/go-cache"
)

// evictionGrace keeps entries in the cache past their logical timeout so
// the engine's sweep can observe the expiry and archive it before the
// janitor purges the entry. The engine never serves an expired session.
const evictionGrace = 5 * time.Minute

// SessionRepository keeps live conversations in process memory. Each entry
// expires on its own inactivity window; the janitor purges what the engine
// has not touched.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(defaultTimeout time.Duration) *SessionRepository {
	if defaultTimeout <= 0 {
		defaultTimeout = conversation.DefaultTimeoutSeconds * time.Second
	}
	c := cache.New(defaultTimeout+evictionGrace, 1*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *conversation.Session) {
	ttl := time.Duration(session.TimeoutSeconds) * time.Second
	if ttl <= 0 {
		r.cache.SetDefault(session.ID, session)
		return
	}
	r.cache.Set(session.ID, session, ttl+evictionGrace)
}

func (r *SessionRepository) Get(sessionID string) (*conversation.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*conversation.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Active() []*conversation.Session {
	items := r.cache.Items()
	sessions := make([]*conversation.Session, 0, len(items))
	for _, item := range items {
		sessions = append(sessions, item.Object.(*conversation.Session))
	}
	return sessions
}
