package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"insightdash/internal/dashboard"
)

const (
	// SessionCookie carries the session id
	SessionCookie = "insightdash_session"
	// maxSessions bounds live sessions; the least recently used is evicted
	maxSessions = 256
)

// session is one browser tab's dashboard
type session struct {
	id       string
	orch     *dashboard.Orchestrator
	lastSeen time.Time
}

// SessionStore keeps one orchestrator per client session
type SessionStore struct {
	create func(path string) (*dashboard.Orchestrator, error)

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionStore creates a store building orchestrators with create
func NewSessionStore(create func(path string) (*dashboard.Orchestrator, error)) *SessionStore {
	return &SessionStore{create: create, sessions: make(map[string]*session)}
}

// Lookup returns the orchestrator of the request's session, if any
func (st *SessionStore) Lookup(r *http.Request) (*dashboard.Orchestrator, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, false
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[c.Value]
	if !ok {
		return nil, false
	}
	sess.lastSeen = time.Now()
	return sess.orch, true
}

// Ensure returns the request's session orchestrator, creating the session
// and setting its cookie when needed. created reports a new session.
func (st *SessionStore) Ensure(w http.ResponseWriter, r *http.Request, path string) (orch *dashboard.Orchestrator, created bool, err error) {
	if orch, ok := st.Lookup(r); ok {
		return orch, false, nil
	}

	orch, err = st.create(path)
	if err != nil {
		return nil, false, err
	}
	id := uuid.NewString()

	st.mu.Lock()
	if len(st.sessions) >= maxSessions {
		st.evictOldestLocked()
	}
	st.sessions[id] = &session{id: id, orch: orch, lastSeen: time.Now()}
	st.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return orch, true, nil
}

func (st *SessionStore) evictOldestLocked() {
	var oldest *session
	for _, s := range st.sessions {
		if oldest == nil || s.lastSeen.Before(oldest.lastSeen) {
			oldest = s
		}
	}
	if oldest != nil {
		oldest.orch.Close()
		delete(st.sessions, oldest.id)
	}
}

// Len counts live sessions
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Close stops every session's pending work
func (st *SessionStore) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, s := range st.sessions {
		s.orch.Close()
		delete(st.sessions, id)
	}
}
