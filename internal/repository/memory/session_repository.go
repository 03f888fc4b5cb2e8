package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Session tracks the in-flight generation state of one conversation so a
// second ask cannot start while an answer is still streaming.
type Session struct {
	ConversationID string
	Active         bool
	LastFollowUp   string
	StartedAt      time.Time
}

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Sessions expire after an hour so a crashed stream never wedges a
	// conversation permanently. Expired items are purged every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *Session) {
	r.cache.Set(session.ConversationID, session, cache.DefaultExpiration)
}

// Acquire stores the session only if the conversation has none yet. cache.Add
// is set-if-absent under the cache lock, so two concurrent asks on the same
// conversation cannot both win.
func (r *SessionRepository) Acquire(session *Session) bool {
	return r.cache.Add(session.ConversationID, session, cache.DefaultExpiration) == nil
}

func (r *SessionRepository) Get(conversationID string) (*Session, bool) {
	if x, found := r.cache.Get(conversationID); found {
		return x.(*Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(conversationID string) {
	r.cache.Delete(conversationID)
}
