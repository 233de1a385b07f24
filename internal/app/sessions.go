package service

import (
	"sync"

	"github.com/okian/maven/internal/domain/team"
	"github.com/okian/maven/pkg/metrics"
)

// sessionRegistry holds live team sessions, evicting the oldest once the
// configured bound is exceeded.
type sessionRegistry struct {
	mu    sync.Mutex
	byID  map[string]*team.Session
	order []string
	max   int
}

func newSessionRegistry(max int) *sessionRegistry {
	return &sessionRegistry{
		byID: make(map[string]*team.Session),
		max:  max,
	}
}

func (r *sessionRegistry) put(sess *team.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for r.max > 0 && len(r.order) >= r.max {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.byID, oldest)
	}

	r.byID[sess.ID()] = sess
	r.order = append(r.order, sess.ID())
	metrics.UpdateActiveSessions(len(r.byID))
}

func (r *sessionRegistry) get(id string) (*team.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.byID[id]
	return sess, ok
}

func (r *sessionRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func (r *sessionRegistry) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[string]*team.Session)
	r.order = nil
	metrics.UpdateActiveSessions(0)
}
